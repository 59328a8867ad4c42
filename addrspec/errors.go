// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package addrspec

import (
	"errors"
	"fmt"
)

// Reasons for rejecting an address specification. Use errors.Is on an error
// returned from Parse, Expand, et cetera to check for a specific reason.
var (
	ErrEmpty         = errors.New("empty argument")
	ErrOctetCount    = errors.New("invalid number of octets")
	ErrMultipleMasks = errors.New("multiple masks for one address")
	ErrInvalidMask   = errors.New("invalid mask")
	ErrTooLarge      = errors.New("too many addresses")
)

// InputError reports a malformed address specification. A malformed
// specification makes the requested scan undefined, so callers are expected
// to give up instead of scanning what they could make sense of.
type InputError struct {
	Spec   string // the offending specification text.
	Reason error  // one of the Err* reasons.
	Detail string // optional details, such as the offending mask text.
}

func (e *InputError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid address specification %q: %s: %s", e.Spec, e.Reason, e.Detail)
	}
	return fmt.Sprintf("invalid address specification %q: %s", e.Spec, e.Reason)
}

// Unwrap returns the reason, so that errors.Is works with the Err* values.
func (e *InputError) Unwrap() error { return e.Reason }

func inputError(spec string, reason error, detail string) *InputError {
	return &InputError{Spec: spec, Reason: reason, Detail: detail}
}
