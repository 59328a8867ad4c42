// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"os/exec"
	"strconv"
	"time"

	"github.com/thediveo/lxkns/log"
)

// CommandProber probes addresses by running the system's ping utility,
// sending only a single echo request with a short timeout. An address is
// alive only if ping exits with status 0; any other outcome, including not
// being able to run ping at all, means "not alive".
type CommandProber struct {
	prober
}

// NewCommandProber returns a new [CommandProber]; its defaults are running
// "ping" with a timeout of 1s. Use [WithCommand], [WithTimeout], and
// [InNetworkNamespace] to configure it otherwise.
func NewCommandProber(options ...ProberOption) *CommandProber {
	return &CommandProber{prober: newProber(options)}
}

// Alive returns true if the address replied to a single ping.
func (p *CommandProber) Alive(ctx context.Context, addr string) bool {
	err := p.execute(func() error {
		return exec.CommandContext(ctx, p.command, p.args(addr)...).Run()
	})
	if err != nil {
		log.Debugf("ping %s: %s", addr, err.Error())
		return false
	}
	return true
}

// args returns the ping CLI args for a single quiet ping with both the reply
// wait time (-W) and the overall deadline (-w) set to the timeout in whole
// seconds, rounded up.
func (p *CommandProber) args(addr string) []string {
	secs := strconv.FormatInt(int64((p.timeout+time.Second-1)/time.Second), 10)
	if p.timeout <= 0 {
		secs = "1"
	}
	return []string{"-W", secs, "-w", secs, "-c", "1", "-q", addr}
}
