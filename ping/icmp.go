// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"

	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/log"
)

// ICMPProber probes addresses by sending a single ICMP echo request (or UDP
// "ping" when unprivileged) and waiting at most the timeout for the reply.
type ICMPProber struct {
	prober
}

// NewICMPProber returns a new [ICMPProber] that sends privileged ICMP echo
// requests and waits 1s for a reply. Use [AsUnprivileged], [WithTimeout] and
// [InNetworkNamespace] to configure it otherwise.
func NewICMPProber(options ...ProberOption) *ICMPProber {
	return &ICMPProber{prober: newProber(options)}
}

// Alive returns true if the address replied to a single ping within the
// timeout. Cancelling the context stops the ping, leaving the address not
// alive.
func (p *ICMPProber) Alive(ctx context.Context, addr string) bool {
	err := p.execute(func() error {
		// A quick and non-blocking check to see if the context has been
		// cancelled before we start our work...
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		pinger, err := ping.NewPinger(addr)
		if err != nil {
			return err
		}
		pinger.SetPrivileged(!p.unprivileged)
		pinger.Count = 1
		pinger.Timeout = p.timeout
		// Stop the pinger when the context gets done while the ping is in
		// flight; done terminates this monitoring when the ping is over.
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				pinger.Stop()
			case <-done:
			}
		}()
		if err := pinger.Run(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if pinger.Statistics().PacketsRecv < 1 {
			return errors.New("no reply")
		}
		return nil
	})
	if err != nil {
		log.Debugf("ICMP ping %s: %s", addr, err.Error())
		return false
	}
	return true
}
