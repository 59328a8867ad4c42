// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"os/exec"
	"strings"

	"github.com/thediveo/lxkns/log"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

const (
	nameMarker = "name = "
	nameEnd    = ".\n"
)

// CommandResolver resolves addresses into names by running nslookup.
type CommandResolver struct {
	command string
	netns   relations.Relation // network namespace to resolve from, or nil.
}

// ResolverOption can be passed to NewCommandResolver.
type ResolverOption func(*CommandResolver)

// NewCommandResolver returns a new [CommandResolver] running "nslookup",
// unless told otherwise using [WithCommand].
func NewCommandResolver(options ...ResolverOption) *CommandResolver {
	r := &CommandResolver{command: "nslookup"}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// WithCommand sets the nslookup-compatible executable to run.
func WithCommand(command string) ResolverOption {
	return func(r *CommandResolver) {
		r.command = command
	}
}

// InNetworkNamespace optionally runs nslookup inside the network namespace
// referenced by the specified filesystem path. An empty path keeps the
// caller's network namespace.
func InNetworkNamespace(netnsref string) ResolverOption {
	return func(r *CommandResolver) {
		if netnsref == "" {
			r.netns = nil
			return
		}
		r.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// LookupName runs nslookup for the specified address and returns the name
// found in its output, if any. A failing nslookup never has a name.
func (r *CommandResolver) LookupName(ctx context.Context, addr string) (string, bool) {
	var out []byte
	lookup := func() interface{} {
		var err error
		out, err = exec.CommandContext(ctx, r.command, addr).Output()
		if err != nil {
			return err
		}
		return nil
	}
	var err error
	if r.netns != nil {
		var lookuperr interface{}
		lookuperr, err = ops.Execute(lookup, r.netns)
		if err == nil && lookuperr != nil {
			err = lookuperr.(error)
		}
	} else if res := lookup(); res != nil {
		err = res.(error)
	}
	if err != nil {
		log.Debugf("nslookup %s: %s", addr, err.Error())
		return "", false
	}
	name, ok := ExtractName(string(out))
	return name, ok && name != ""
}

// ExtractName returns the name following the first "name = " marker up to,
// but not including, the next ".\n". ok is false if either the marker or the
// terminating ".\n" is missing.
func ExtractName(output string) (name string, ok bool) {
	_, rest, ok := strings.Cut(output, nameMarker)
	if !ok {
		return "", false
	}
	name, _, ok = strings.Cut(rest, nameEnd)
	if !ok {
		return "", false
	}
	return name, true
}
