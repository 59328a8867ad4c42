// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/siemens/lansweep/types"
)

// renderResults writes one line per live host: the address padded to 15
// characters followed by the host name, or just the bare address if the host
// has no name.
func renderResults(w io.Writer, results []types.ScanResult) {
	for _, result := range results {
		if result.HasName() {
			fmt.Fprintf(w, "%-15s %s\n", result.Addr, result.Name)
			continue
		}
		fmt.Fprintln(w, result.Addr)
	}
}
