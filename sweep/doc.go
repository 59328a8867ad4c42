/*
Package sweep implements the concurrent probe-and-resolve pipeline: for every
address to sweep it independently asks a [Prober] whether the address is
alive and, only if it is, asks a [Resolver] for the address' name.

	            +------+
	[]Address-->| Scan +-->[]ScanResult (alive only)
	            +--+---+
	               |
	       Prober, Resolver

The probe tasks run on a goroutine-limited worker pool, so sweeping a /8 does
not fire up millions of goroutines at once. Each task writes only to its own
slot of a pre-sized result slice; the final results are thus in submission
order, regardless of the order in which the tasks finished.

# Acknowledgements

Under its hood, [Sweeper] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package sweep
