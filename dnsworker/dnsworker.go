// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// DnsPool is a (size-limited) pool of DNS client connections talking with the
// same DNS resolver address.
type DnsPool struct {
	netns   relations.Relation // network namespace to query from, or nil.
	dnsclnt *dns.Client
	workers *workerpool.WorkerPool
	mu      sync.Mutex // protects the pool of DNS connections
	free    []*dns.Conn
}

// DnsPoolOption can be passed to New when creating new [DnsPool] objects.
type DnsPoolOption func(*DnsPool)

// New returns a pool of the specified size of DNS client connections, with each
// connection using the specified context and talking to the same DNS resolver
// address.
//
// DNS tasks are submitted using [DnsPool.Submit] in form of task functions
// receiving a concrete [dns.Conn].
//
// The passed context is used for creating (dialing) the DNS client connections
// only. It is not directly passed to the submitted DNS tasks, so task
// submitters are themselves responsible for capturing the necessary context in
// their task function closure.
//
// To operate a DnsPool in a network namespace different to that of the OS-level
// thread of the caller specify the [InNetworkNamespace] option and pass it a
// filesystem path that must reference a network namespace (such as
// "/proc/666/ns/net").
func New(ctx context.Context, size int, dnsclnt *dns.Client, addr string, options ...DnsPoolOption) (*DnsPool, error) {
	if size < 1 {
		size = 1
	}
	dnspool := &DnsPool{
		dnsclnt: dnsclnt,
	}
	for _, opt := range options {
		opt(dnspool)
	}
	free := make([]*dns.Conn, 0, size)
	dial := func() interface{} {
		for i := 0; i < size; i++ {
			conn, err := dnsclnt.DialContext(ctx, addr)
			if err != nil {
				// Immediately release all connections created so far.
				for _, conn := range free {
					conn.Close()
				}
				return err
			}
			free = append(free, conn)
		}
		return nil
	}
	// Dial the connections in the requested network namespace, if necessary.
	var err error
	var dialerr interface{}
	if dnspool.netns != nil {
		dialerr, err = ops.Execute(dial, dnspool.netns)
	} else {
		dialerr = dial()
	}
	if err != nil {
		return nil, err
	}
	if dialerr != nil {
		return nil, dialerr.(error)
	}
	dnspool.free = free
	// Only start the workers after we know that we have connections for them,
	// otherwise we would leak the worker pool's dispatcher goroutine.
	dnspool.workers = workerpool.New(size)
	return dnspool, nil
}

// InNetworkNamespace optionally runs a DnsPool inside the network namespace
// referenced by the specified filesystem path. An empty path keeps the pool in
// the caller's network namespace.
func InNetworkNamespace(netnsref string) DnsPoolOption {
	return func(p *DnsPool) {
		if netnsref == "" {
			p.netns = nil
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// Submit a task to the DNS client connection pool, where it gets enqueued to be
// executed on an available DNS client connection.
func (p *DnsPool) Submit(task func(conn *dns.Conn)) {
	p.workers.Submit(func() { p.task(task) })
}

// ResolveAddr is a convenience method for submitting a reverse (PTR) query
// for an IP address and gathering the result. The first name found (without
// its trailing root dot) or an error if the reverse lookup failed is passed to
// the specified callback function fn.
//
// Please note that when the passed context is cancelled this will cancel all
// in-flight as well as scheduled reverse lookups.
func (p *DnsPool) ResolveAddr(ctx context.Context, addr string, fn func(string, error)) {
	p.Submit(func(conn *dns.Conn) {
		var name string
		var err error
		defer func() { fn(name, err) }() // ...ensure triggering the result callback on our way out

		// don't try to resolve the address if the context has been cancelled;
		// trigger the callback immediately with the context error.
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var arpa string
		arpa, err = dns.ReverseAddr(addr)
		if err != nil {
			return
		}
		msg := dns.Msg{
			MsgHdr: dns.MsgHdr{Id: dns.Id()},
		}
		msg.SetQuestion(arpa, dns.TypePTR)
		var r *dns.Msg
		r, _, err = p.dnsclnt.ExchangeWithConnContext(ctx, &msg, conn)
		if err != nil {
			return
		}
		for _, rr := range r.Answer {
			if ptr, ok := rr.(*dns.PTR); ok {
				name = strings.TrimSuffix(ptr.Ptr, ".")
				return
			}
		}
		err = fmt.Errorf("ResolveAddr: PTR query for %q yields no answers (%s)",
			arpa, dns.RcodeToString[r.Rcode])
	})
}

// task grabs the next free DNS client and passes it to the specified function.
// After the function returns, the connection is put back into the free list.
func (p *DnsPool) task(task func(conn *dns.Conn)) {
	// pop off a free DNS client connection,
	// https://ueokande.github.io/go-slice-tricks/,
	p.mu.Lock()
	if len(p.free) == 0 {
		p.mu.Unlock()
		panic("no free DNS client connection available")
	}
	last := len(p.free) - 1
	conn := p.free[last]
	p.free = p.free[:last]
	p.mu.Unlock()
	// ...and push the DNS client connection back into the free list, even if
	// the task panics.
	defer func() {
		p.mu.Lock()
		p.free = append(p.free, conn)
		p.mu.Unlock()
	}()
	task(conn)
}

// StopWait waits for all enqueued reverse lookup or generic DNS request tasks
// to finish, and then shuts down the pool.
func (p *DnsPool) StopWait() {
	p.workers.StopWait()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, conn := range p.free {
		conn.Close()
	}
	p.free = nil
}
