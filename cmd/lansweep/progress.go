// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/gosuri/uilive"
	"github.com/siemens/lansweep/types"
)

// progress renders a single live status line with the number of probed
// addresses and the live hosts found so far. The counters get updated from the
// sweeper's workers, while a single background goroutine renders them.
type progress struct {
	term    *uilive.Writer
	spinner *spinner
	total   atomic.Uint64
	probed  atomic.Uint64
	alive   atomic.Uint64
	done    chan struct{}
	stopped chan struct{}
}

// newProgress returns a progress display rendering to the specified writer,
// which usually is stderr so as to not mess up the scan results.
func newProgress(w io.Writer) *progress {
	term := uilive.New()
	term.Out = w
	return &progress{
		term:    term,
		spinner: newSpinner(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Observe a finished probe; suitable as a sweep observer.
func (p *progress) Observe(result types.ScanResult) {
	p.probed.Add(1)
	if result.Alive {
		p.alive.Add(1)
	}
}

// Start rendering in the background, given the total number of addresses to
// probe. Start is a no-op on a nil progress.
func (p *progress) Start(total int) {
	if p == nil {
		return
	}
	p.total.Store(uint64(total))
	go func() {
		// uilive's own background updating might flush a half-rendered line,
		// so we always flush explicitly after rendering.
		defer close(p.stopped)
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			p.render(time.Now())
			select {
			case <-ticker.C:
			case <-p.done:
				p.render(time.Now())
				return
			}
		}
	}()
}

// Stop rendering after a final update. Stop is a no-op on a nil progress.
func (p *progress) Stop() {
	if p == nil {
		return
	}
	close(p.done)
	<-p.stopped
}

func (p *progress) render(now time.Time) {
	probed, total := p.probed.Load(), p.total.Load()
	spin := p.spinner.Spinner(now)
	if probed >= total {
		spin = "  "
	}
	fmt.Fprintf(p.term, "%s%s, %s\n",
		probingStyle.Styled(spin),
		countStyle.Styled(fmt.Sprintf("%d/%d probed", probed, total)),
		aliveStyle.Styled(fmt.Sprintf("%d alive", p.alive.Load())))
	_ = p.term.Flush()
}
