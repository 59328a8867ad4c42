// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"

	"github.com/siemens/lansweep/addrspec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("lansweep command", func() {

	run := func(ctx context.Context, args ...string) (string, error) {
		rootCmd := newRootCmd()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(args)
		err := rootCmd.ExecuteContext(ctx)
		return out.String(), err
	}

	DescribeTable("rejects invalid flags",
		func(ctx context.Context, args []string, expected string) {
			_, err := run(ctx, args...)
			Expect(err).To(MatchError(ContainSubstring(expected)))
		},
		Entry(nil, []string{"--workers", "0"}, "--workers out of range"),
		Entry(nil, []string{"--workers", "4097"}, "--workers out of range"),
		Entry(nil, []string{"--probe", "arp"}, "--probe must be one of"),
		Entry(nil, []string{"--resolve", "mdns"}, "--resolve must be one of"),
		Entry(nil, []string{"--timeout", "10ms"}, "--timeout must be at least"),
		Entry(nil, []string{"--max-addresses", "0"}, "--max-addresses must be at least"),
		Entry(nil, []string{"--container", "foo", "--netns", "/proc/1/ns/net"}, "none of the others can be"),
	)

	DescribeTable("rejects malformed address specifications before probing",
		func(ctx context.Context, spec string, reason error) {
			_, err := run(ctx, "--resolve", "none", "--probe", "exec", "10.0.0.1", spec)
			Expect(err).To(MatchError(reason))
		},
		Entry(nil, "", addrspec.ErrEmpty),
		Entry(nil, "1.2.3", addrspec.ErrOctetCount),
		Entry(nil, "1.2.3.4/5/6", addrspec.ErrMultipleMasks),
		Entry(nil, "1.2.3.4/33", addrspec.ErrInvalidMask),
		Entry(nil, "0.0.0.0/0", addrspec.ErrTooLarge),
	)

	It("exits non-zero on errors", func() {
		oldArgs, oldExit := os.Args, osExit
		defer func() { os.Args, osExit = oldArgs, oldExit }()

		exitCode := -1
		osExit = func(code int) { exitCode = code }
		os.Args = []string{"lansweep", "--workers", "0"}
		main()
		Expect(exitCode).To(Equal(1))
	})

})
