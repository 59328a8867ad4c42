/*
Package dnsworker implements a simple limiting DNS client-request execution
pool. Lansweep uses [DnsPool] with a pool of “DNS workers” for reverse (PTR)
lookups of the addresses found to be alive.

Usage

	dnsclnt := dns.Client{}
	workers, err := dnsworker.New(
	    context.Background(),
	    4,                    // number of parallel DNS connections and thus workers
	    &dnsclnt,             // DNS client
	    "127.0.0.53:53",      // address of server/resolver
	)
	workers.ResolveAddr(ctx,
	    "192.168.0.1",
	    func(name string, err error){
	        // do something with name, unless there's an error reported
	    })
	workers.Submit(func(conn *dns.Conn){
	    // do something with the DNS connection
	})

[Resolver] wraps a [DnsPool] into a synchronous name lookup, as needed by
[github.com/siemens/lansweep/sweep.Sweeper].

# Acknowledgements

Under its hood, [DnsPool] leverages [gammazero/workerpool] as
the limiting goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package dnsworker
