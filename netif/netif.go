// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Package netif lists the IPv4 addresses of the locally configured network
// interfaces in "address/prefix" notation, optionally as seen from inside a
// different network namespace.
package netif

import (
	"net"
	"strconv"

	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// Lister lists interface addresses.
type Lister struct {
	netns relations.Relation // network namespace to list, or nil.
}

// ListerOption can be passed to New.
type ListerOption func(*Lister)

// New returns a new Lister for the caller's network namespace, unless told
// otherwise using [InNetworkNamespace].
func New(options ...ListerOption) *Lister {
	l := &Lister{}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// InNetworkNamespace lists the interfaces of the network namespace referenced
// by the specified filesystem path. An empty path means the caller's network
// namespace.
func InNetworkNamespace(netnsref string) ListerOption {
	return func(l *Lister) {
		if netnsref == "" {
			l.netns = nil
			return
		}
		l.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// Addresses returns the IPv4 addresses of all network interfaces that are up
// and not loopbacks, in "address/prefix" notation, such as "192.168.0.42/24".
// Interfaces whose addresses cannot be queried are skipped.
func (l *Lister) Addresses() ([]string, error) {
	list := func() interface{} {
		ifaces, err := net.Interfaces()
		if err != nil {
			return err
		}
		addrs := []string{}
		for _, iface := range ifaces {
			if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			ifaddrs, err := iface.Addrs()
			if err != nil {
				log.Debugf("skipping interface %s: %s", iface.Name, err.Error())
				continue
			}
			addrs = append(addrs, IPv4Prefixes(ifaddrs)...)
		}
		return addrs
	}
	var res interface{}
	if l.netns != nil {
		var err error
		res, err = ops.Execute(list, l.netns)
		if err != nil {
			return nil, err
		}
	} else {
		res = list()
	}
	if err, ok := res.(error); ok {
		return nil, err
	}
	return res.([]string), nil
}

// IPv4Prefixes returns the IPv4 addresses from the specified interface
// addresses in "address/prefix" notation, skipping everything else.
func IPv4Prefixes(addrs []net.Addr) []string {
	prefixes := []string{}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipnet.IP.To4()
		if ip4 == nil || ip4.IsLoopback() {
			continue
		}
		ones, bits := ipnet.Mask.Size()
		if bits == 128 && len(ipnet.Mask) == net.IPv6len {
			// IPv4 address with an IPv6-sized mask.
			ones -= 96
		} else if bits != 32 {
			continue
		}
		prefixes = append(prefixes, ip4.String()+"/"+strconv.Itoa(ones))
	}
	return prefixes
}
