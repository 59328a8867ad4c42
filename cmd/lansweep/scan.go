// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/siemens/lansweep/addrspec"
	"github.com/siemens/lansweep/sweep"
	"github.com/siemens/lansweep/types"
	"github.com/thediveo/lxkns/log"
)

// addressLister lists "address/prefix" specifications of the networks to
// sweep in case no address specifications were given on the command line.
type addressLister interface {
	Addresses() ([]string, error)
}

// staticLister lists a fixed set of network specifications, such as the
// networks a container is attached to.
type staticLister []string

func (l staticLister) Addresses() ([]string, error) { return l, nil }

// scanDriver turns command line address specifications into addresses to
// probe, runs the sweep, and finally renders the live hosts.
type scanDriver struct {
	prober       sweep.Prober
	resolver     sweep.Resolver // optional
	lister       addressLister
	workers      int
	dedup        bool
	maxAddresses uint64
	progress     *progress // optional
}

// Run the scan for the specified address specifications, writing the live
// hosts to out. Malformed or oversized specifications are reported as
// [*addrspec.InputError] before anything gets probed.
func (d *scanDriver) Run(ctx context.Context, out io.Writer, specs []string) error {
	addrs, err := d.targets(specs)
	if err != nil {
		return err
	}
	options := []sweep.SweeperOption{sweep.WithWorkers(d.workers)}
	probes := len(addrs)
	if d.dedup {
		options = append(options, sweep.WithDedup())
		probes = distinct(addrs)
	}
	if d.progress != nil {
		options = append(options, sweep.WithObserver(d.progress.Observe))
	}
	sweeper := sweep.New(d.prober, d.resolver, options...)
	d.progress.Start(probes)
	results := sweeper.Scan(ctx, addrs)
	d.progress.Stop()
	log.Debugf("%d of %d addresses alive", len(results), len(addrs))
	renderResults(out, results)
	return nil
}

// targets returns the addresses to probe, in the order of the specifications.
// Without any specifications, the lister's networks are used instead, where
// "-" doesn't denote a range.
func (d *scanDriver) targets(specs []string) ([]types.Address, error) {
	count, expand := addrspec.Count, addrspec.Expand
	if len(specs) == 0 {
		var err error
		specs, err = d.lister.Addresses()
		if err != nil {
			return nil, fmt.Errorf("cannot list networks to sweep: %w", err)
		}
		log.Debugf("sweeping networks %v", specs)
		count, expand = addrspec.CountSimple, addrspec.ExpandSimple
	}
	// Validate all specifications and check the total size before allocating
	// anything, so that a /0 doesn't eat up all memory.
	var total uint64
	for _, spec := range specs {
		n, err := count(spec)
		if err != nil {
			return nil, err
		}
		total += n
		if total > d.maxAddresses {
			return nil, &addrspec.InputError{
				Spec:   spec,
				Reason: addrspec.ErrTooLarge,
				Detail: fmt.Sprintf("more than %d addresses in total", d.maxAddresses),
			}
		}
	}
	addrs := make([]types.Address, 0, total)
	for _, spec := range specs {
		expanded, err := expand(spec)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, expanded...)
	}
	log.Debugf("expanded %d specification(s) into %d addresses", len(specs), len(addrs))
	return addrs, nil
}

// distinct returns the number of distinct addresses.
func distinct(addrs []types.Address) int {
	seen := make(map[types.Address]struct{}, len(addrs))
	for _, addr := range addrs {
		seen[addr] = struct{}{}
	}
	return len(seen)
}
