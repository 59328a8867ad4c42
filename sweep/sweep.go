// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sweep

import (
	"context"

	"github.com/siemens/lansweep/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// DefaultWorkers is the default maximum number of concurrent probe tasks.
const DefaultWorkers = 256

// Sweeper probes lists of addresses for being alive and resolves the names of
// the living.
type Sweeper struct {
	prober   Prober
	resolver Resolver // optional; nil means no name resolution.
	workers  int      // maximum number of concurrent probe tasks.
	dedup    bool     // probe each distinct address only once.
	observer func(types.ScanResult)

	submitted func(*workerpool.WorkerPool) // called after each task submission.
}

// SweeperOption can be passed to New when creating new Sweeper objects.
type SweeperOption func(*Sweeper)

// New returns a new Sweeper using the specified prober and resolver. The
// resolver might be nil, in which case no names will be resolved.
//
// The Sweeper defaults to at most [DefaultWorkers] concurrent probe tasks and
// can be configured using these options:
//   - [WithWorkers]
//   - [WithDedup]
//   - [WithObserver]
func New(prober Prober, resolver Resolver, options ...SweeperOption) *Sweeper {
	s := &Sweeper{
		prober:   prober,
		resolver: resolver,
		workers:  DefaultWorkers,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithWorkers sets the maximum number of probe tasks running concurrently.
// Values less than 1 are taken as 1.
func WithWorkers(n int) SweeperOption {
	return func(s *Sweeper) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithDedup probes each distinct address only once, even if it was passed
// multiple times. The verdict of the single probe is then reported for each
// time the address was passed, so the results remain the same, just with less
// probing.
func WithDedup() SweeperOption {
	return func(s *Sweeper) {
		s.dedup = true
	}
}

// WithObserver sets a function to be called with the result of each and
// every probe task (alive or not) as soon as it finishes. The observer gets
// called concurrently from multiple workers, so it must be concurrency-safe.
// With deduplication, the observer sees each distinct address only once.
func WithObserver(fn func(types.ScanResult)) SweeperOption {
	return func(s *Sweeper) {
		s.observer = fn
	}
}

// verdict is the slot a probe task owns in the result slice; done is false
// when the task never completed, such as when the context got cancelled
// beforehand or the task panicked.
type verdict struct {
	types.ScanResult
	done bool
}

// Scan probes all addresses and returns the results for the alive addresses
// only, in the order of the passed addresses. Scan waits for all probe tasks
// to finish.
//
// If the context gets cancelled, pending probe tasks won't probe anymore and
// thus don't contribute any results. Already running probes are passed the
// context, so it's up to the prober (and resolver) to wind down early.
func (s *Sweeper) Scan(ctx context.Context, addrs []types.Address) []types.ScanResult {
	verdicts := make([]verdict, len(addrs))
	// first maps a task index to the index of the task actually probing the
	// same address; without deduplication that's always the task itself.
	var first []int
	var seen map[types.Address]int
	if s.dedup {
		first = make([]int, len(addrs))
		seen = make(map[types.Address]int, len(addrs))
	}

	log.Debugf("sweeping %d addresses using at most %d workers", len(addrs), s.workers)
	workers := workerpool.New(s.workers)
	// The worker pool queues submitted tasks without limit, so we only ever
	// hand it as many tasks as there are workers; a task returns its token
	// when done.
	tokens := make(chan struct{}, s.workers)
submitting:
	for idx, addr := range addrs {
		if s.dedup {
			if firstidx, ok := seen[addr]; ok {
				first[idx] = firstidx
				continue
			}
			seen[addr] = idx
			first[idx] = idx
		}
		select {
		case <-ctx.Done():
			break submitting
		case tokens <- struct{}{}:
		}
		slot := &verdicts[idx]
		addr := addr
		workers.Submit(func() {
			defer func() { <-tokens }()
			s.probe(ctx, addr, slot)
		})
		if s.submitted != nil {
			s.submitted(workers)
		}
	}
	workers.StopWait()

	results := make([]types.ScanResult, 0, len(addrs))
	for idx := range verdicts {
		v := verdicts[idx]
		if s.dedup {
			v = verdicts[first[idx]]
		}
		if v.done && v.Alive {
			results = append(results, v.ScanResult)
		}
	}
	return results
}

// probe the address and, if alive, resolve its name. The verdict gets stored
// into the slot owned by this probe task. A panicking prober or resolver only
// costs this address its verdict.
func (s *Sweeper) probe(ctx context.Context, addr types.Address, slot *verdict) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("probing %s failed: %v", addr, r)
			*slot = verdict{}
		}
	}()
	// Don't start probing anymore once the context is done.
	select {
	case <-ctx.Done():
		return
	default:
	}
	text := addr.String()
	result := types.ScanResult{Addr: addr}
	if s.prober.Alive(ctx, text) {
		result.Alive = true
		if s.resolver != nil {
			if name, ok := s.resolver.LookupName(ctx, text); ok {
				result.Name = name
			}
		}
	}
	*slot = verdict{ScanResult: result, done: true}
	if s.observer != nil {
		s.observer(result)
	}
}
