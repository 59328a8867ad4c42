// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "strconv"

// Address is an IPv4 host address as a 32-bit unsigned integer, with the most
// significant octet first (that is, 10.0.0.1 is 0x0a000001).
type Address uint32

// String renders the address in dotted-quad notation, most significant octet
// first. It never includes a prefix length.
func (a Address) String() string {
	b := make([]byte, 0, 15)
	b = strconv.AppendUint(b, uint64(a>>24), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(a>>16&0xff), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(a>>8&0xff), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(a&0xff), 10)
	return string(b)
}

// AddressSpec is a parsed address specification: an address together with an
// optional prefix length. If Masked is false then the spec denotes exactly
// this single address and Prefix is meaningless.
type AddressSpec struct {
	Addr   Address `json:"address"`
	Prefix uint8   `json:"prefix"` // leading network bits, 0..32.
	Masked bool    `json:"masked"` // true if Prefix applies.
}

// IsSingle returns true if the spec denotes exactly one address.
func (s AddressSpec) IsSingle() bool { return !s.Masked }
