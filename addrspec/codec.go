// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package addrspec

import (
	"strconv"
	"strings"

	"github.com/siemens/lansweep/types"
)

// Parse an address specification of the form "a.b.c.d" or "a.b.c.d/N" into an
// [types.AddressSpec].
//
// The host part must always consist of exactly four dot-separated fields.
// Fields not parsing as an 8-bit unsigned integer, optionally with a leading
// "+", count as 0. Empty fields
// serve as wildcards: the first empty field sets the prefix length to its bit
// position, unless an explicit "/N" mask was given. So "10.0.." is the same as
// "10.0.0.0/16".
//
// Parse returns an [*InputError] for more than one "/", a mask that isn't an
// integer in [0..32], or a field count other than four.
func Parse(text string) (types.AddressSpec, error) {
	var spec types.AddressSpec

	parts := strings.Split(text, "/")
	switch len(parts) {
	case 1:
	case 2:
		prefix, err := strconv.ParseUint(parts[1], 10, 8)
		if err != nil || prefix > 32 {
			return spec, inputError(text, ErrInvalidMask, parts[1])
		}
		spec.Prefix = uint8(prefix)
		spec.Masked = true
	default:
		return spec, inputError(text, ErrMultipleMasks, "")
	}

	octets := strings.Split(parts[0], ".")
	if len(octets) != 4 {
		return spec, inputError(text, ErrOctetCount, strconv.Itoa(len(octets)))
	}
	var addr uint32
	for idx, octet := range octets {
		// Garbage octets silently become 0; a single leading "+" is fine.
		val, err := strconv.ParseUint(strings.TrimPrefix(octet, "+"), 10, 8)
		if err != nil {
			val = 0
		}
		addr = addr<<8 | uint32(val)
		if octet == "" && !spec.Masked {
			spec.Prefix = uint8(idx * 8)
			spec.Masked = true
		}
	}
	spec.Addr = types.Address(addr)
	return spec, nil
}

// MaskWord returns the network mask covering the top prefix bits; prefixes
// above 32 are treated as 32.
func MaskWord(prefix uint8) types.Address {
	if prefix >= 32 {
		return types.Address(0xffffffff)
	}
	return types.Address(^uint32(0) << (32 - prefix))
}

// BlockSize returns the number of addresses in a block with the specified
// prefix length, that is, 2^(32-prefix). For prefix 0 this is 2^32, so it
// needs more than 32 bits.
func BlockSize(prefix uint8) uint64 {
	if prefix >= 32 {
		return 1
	}
	return uint64(1) << (32 - prefix)
}
