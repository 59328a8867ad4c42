// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// ScanResult is the verdict for a single probed address: whether it answered
// the liveness probe and, if it did, the name its reverse lookup yielded (if
// any). An empty Name means "no name".
//
// ScanResults are values and never get modified after they have been created
// by a probe task.
type ScanResult struct {
	Addr  Address `json:"address"`
	Alive bool    `json:"alive"`
	Name  string  `json:"name,omitempty"`
}

// HasName returns true if a name could be resolved for the address.
func (r ScanResult) HasName() bool { return r.Name != "" }
