/*
Package types defines lansweep's information model, which is deliberately
small: an IPv4 [Address] is a plain 32-bit value, an [AddressSpec] is an address
with an optional prefix length, and a [ScanResult] is the final verdict about a
single probed address.

All types are values. Probe tasks running concurrently each own the
[ScanResult] they produce and hand it over exactly once, so there is nothing to
lock and nothing to clone.
*/
package types
