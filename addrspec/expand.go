// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package addrspec

import (
	"strings"

	"github.com/siemens/lansweep/types"
)

// Expand the specification text into the ordered list of addresses it
// denotes:
//   - "A-B": the inclusive range from A to B, ascending; masks on either side
//     are ignored. If A is greater than B, the range is empty.
//   - "a.b.c.d": just this address.
//   - "a.b.c.d/N" (or with wildcard octets): all 2^(32-N) addresses of the
//     block, including the network and broadcast addresses.
func Expand(text string) ([]types.Address, error) {
	if text == "" {
		return nil, inputError(text, ErrEmpty, "")
	}
	if start, end, ok, err := splitRange(text); ok {
		if err != nil {
			return nil, err
		}
		return interval(uint64(start), uint64(end)), nil
	}
	return ExpandSimple(text)
}

// ExpandSimple expands a single or masked address specification, but never a
// range. This is the path taken for the "address/mask" notation of interface
// addresses.
func ExpandSimple(text string) ([]types.Address, error) {
	if text == "" {
		return nil, inputError(text, ErrEmpty, "")
	}
	spec, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if !spec.Masked {
		return []types.Address{spec.Addr}, nil
	}
	base := uint64(spec.Addr & MaskWord(spec.Prefix))
	return interval(base, base+BlockSize(spec.Prefix)-1), nil
}

// Count returns the number of addresses Expand would return for the
// specification, without expanding it.
func Count(text string) (uint64, error) {
	if text == "" {
		return 0, inputError(text, ErrEmpty, "")
	}
	if start, end, ok, err := splitRange(text); ok {
		if err != nil {
			return 0, err
		}
		if start > end {
			return 0, nil
		}
		return uint64(end) - uint64(start) + 1, nil
	}
	return CountSimple(text)
}

// CountSimple returns the number of addresses ExpandSimple would return.
func CountSimple(text string) (uint64, error) {
	if text == "" {
		return 0, inputError(text, ErrEmpty, "")
	}
	spec, err := Parse(text)
	if err != nil {
		return 0, err
	}
	if !spec.Masked {
		return 1, nil
	}
	return BlockSize(spec.Prefix), nil
}

// splitRange checks for the "A-B" range notation, splitting at the first "-",
// and parses both ends. ok is false if text isn't a range at all.
func splitRange(text string) (start, end types.Address, ok bool, err error) {
	from, to, ok := strings.Cut(text, "-")
	if !ok {
		return 0, 0, false, nil
	}
	startSpec, err := Parse(from)
	if err != nil {
		return 0, 0, true, err
	}
	endSpec, err := Parse(to)
	if err != nil {
		return 0, 0, true, err
	}
	return startSpec.Addr, endSpec.Addr, true, nil
}

// interval returns the addresses from first to last, both inclusive. The
// counter is 64 bits wide so that a last address of 255.255.255.255 doesn't
// wrap around.
func interval(first, last uint64) []types.Address {
	if first > last {
		return []types.Address{}
	}
	addrs := make([]types.Address, 0, last-first+1)
	for addr := first; addr <= last; addr++ {
		addrs = append(addrs, types.Address(addr))
	}
	return addrs
}
