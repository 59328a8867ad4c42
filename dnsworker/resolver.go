// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
)

// DefaultResolvConf is where to look for the default DNS server.
const DefaultResolvConf = "/etc/resolv.conf"

// Resolver looks up the names of IP addresses using reverse DNS queries over
// a [DnsPool].
type Resolver struct {
	pool *DnsPool
}

// NewResolver returns a new Resolver with a pool of the specified size,
// talking to the DNS server at addr ("host:port"), with each query timing out
// after the specified timeout (if non-zero). Call [Resolver.StopWait] when
// done with the Resolver.
func NewResolver(ctx context.Context, size int, addr string, timeout time.Duration, options ...DnsPoolOption) (*Resolver, error) {
	dnsclnt := dns.Client{
		Net:     "udp",
		Timeout: timeout,
	}
	pool, err := New(ctx, size, &dnsclnt, addr, options...)
	if err != nil {
		return nil, err
	}
	return &Resolver{pool: pool}, nil
}

// LookupName returns the name of the specified address, if any.
func (r *Resolver) LookupName(ctx context.Context, addr string) (string, bool) {
	ch := make(chan string, 1) // never block the DNS worker.
	r.pool.ResolveAddr(ctx, addr, func(name string, err error) {
		if err != nil {
			log.Debugf("reverse lookup of %s: %s", addr, err.Error())
		}
		ch <- name
	})
	select {
	case name := <-ch:
		return name, name != ""
	case <-ctx.Done():
		return "", false
	}
}

// StopWait waits for all pending lookups to finish and then closes the DNS
// client connections.
func (r *Resolver) StopWait() {
	r.pool.StopWait()
}

// DefaultServer returns the "host:port" address of the first name server
// configured in the specified resolv.conf file.
func DefaultServer(resolvconf string) (string, error) {
	conf, err := dns.ClientConfigFromFile(resolvconf)
	if err != nil {
		return "", err
	}
	if len(conf.Servers) == 0 {
		return "", errors.New("no name servers configured in " + resolvconf)
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port), nil
}
