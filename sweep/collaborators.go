// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package sweep

import "context"

// Prober checks whether an address is alive, using a single attempt. Probers
// must be safe for concurrent use. They don't return errors: an address that
// cannot be probed is not alive.
type Prober interface {
	Alive(ctx context.Context, addr string) bool
}

// Resolver looks up the name of an address. Resolvers must be safe for
// concurrent use. ok is false if there is no name, for whatever reason.
type Resolver interface {
	LookupName(ctx context.Context, addr string) (name string, ok bool)
}

// ProberFunc adapts an ordinary function to the [Prober] interface.
type ProberFunc func(ctx context.Context, addr string) bool

// Alive calls f(ctx, addr).
func (f ProberFunc) Alive(ctx context.Context, addr string) bool { return f(ctx, addr) }

// ResolverFunc adapts an ordinary function to the [Resolver] interface.
type ResolverFunc func(ctx context.Context, addr string) (string, bool)

// LookupName calls f(ctx, addr).
func (f ResolverFunc) LookupName(ctx context.Context, addr string) (string, bool) {
	return f(ctx, addr)
}
