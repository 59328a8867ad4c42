// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

import "time"

// spinnerInterval is the minimum time between two spinner phases.
const spinnerInterval = 100 * time.Millisecond

// spinner is yet another blindingly simple spinner, advanced by whoever
// renders it; it thus isn't safe for concurrent use.
type spinner struct {
	phases []string
	phase  int
	last   time.Time
}

// newSpinner returns a new spinner in its first phase.
func newSpinner() *spinner {
	phases := []string{}
	for _, r := range "⠉⠘⠰⠤⠆⠃" {
		phases = append(phases, string(r)+" ")
	}
	return &spinner{phases: phases}
}

// Spinner returns the spinner string for the current phase, first advancing
// to the next phase if at least spinnerInterval has passed since the previous
// phase change.
func (s *spinner) Spinner(now time.Time) string {
	if now.Sub(s.last) >= spinnerInterval {
		if !s.last.IsZero() {
			s.phase = (s.phase + 1) % len(s.phases)
		}
		s.last = now
	}
	return s.phases[s.phase]
}
