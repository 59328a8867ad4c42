// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"time"

	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// DefaultTimeout is how long a probe waits for an echo reply.
const DefaultTimeout = time.Second

// prober holds the configuration shared by all prober flavors.
type prober struct {
	timeout      time.Duration      // how long to wait for the single reply.
	unprivileged bool               // ICMPProber only: UDP instead of ICMP.
	command      string             // CommandProber only: ping executable.
	netns        relations.Relation // network namespace to ping from, or nil.
}

// ProberOption can be passed to NewCommandProber and NewICMPProber.
type ProberOption func(*prober)

func newProber(options []ProberOption) prober {
	p := prober{
		timeout: DefaultTimeout,
		command: "ping",
	}
	for _, opt := range options {
		opt(&p)
	}
	return p
}

// WithTimeout sets how long to wait for an echo reply.
func WithTimeout(timeout time.Duration) ProberOption {
	return func(p *prober) {
		p.timeout = timeout
	}
}

// WithCommand sets the ping executable to run by a [CommandProber]; it
// defaults to "ping", looked up via PATH.
func WithCommand(command string) ProberOption {
	return func(p *prober) {
		p.command = command
	}
}

// AsUnprivileged tells an [ICMPProber] to carry out unprivileged pings using
// UDP instead of ICMP packets.
func AsUnprivileged() ProberOption {
	return func(p *prober) {
		p.unprivileged = true
	}
}

// InNetworkNamespace optionally probes from inside the network namespace
// referenced by the specified filesystem path, such as "/proc/666/ns/net". An
// empty path keeps probing in the caller's network namespace.
func InNetworkNamespace(netnsref string) ProberOption {
	return func(p *prober) {
		if netnsref == "" {
			p.netns = nil
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// execute fn in the configured network namespace, if any.
func (p *prober) execute(fn func() error) error {
	if p.netns == nil {
		return fn()
	}
	// lxkns' ops.Execute differentiates between a namespace switching error
	// and the result of fn, which we use to pass fn's error.
	res, err := ops.Execute(func() interface{} { return fn() }, p.netns)
	if err != nil {
		return err
	}
	if fnerr, ok := res.(error); ok {
		return fnerr
	}
	return nil
}
