// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/siemens/lansweep/dnsworker"
	"github.com/siemens/lansweep/mobynet"
	"github.com/siemens/lansweep/netif"
	"github.com/siemens/lansweep/ping"
	"github.com/siemens/lansweep/resolve"
	"github.com/siemens/lansweep/sweep"
	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

// Probe and resolve methods.
const (
	methodExec = "exec"
	methodICMP = "icmp"
	methodUDP  = "udp"
	methodDNS  = "dns"
	methodNone = "none"
)

// maxDnsConns limits the number of DNS client connections when resolving via
// DNS, independent of the number of probe workers.
const maxDnsConns = 16

var (
	workerNumber *uint
	probeMethod  *string
	resolveMode  *string
	dnsServer    *string
	timeout      *time.Duration
	maxAddresses *uint64
	dedup        *bool
	showProgress *bool
	debug        *bool
	container    *string
	netns        *string
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "lansweep [flags] [spec...]",
		Short: "lansweep pings IPv4 addresses and ranges, reporting the live hosts with their names",
		Long: `lansweep pings IPv4 addresses and ranges, reporting the live hosts with their names.

An address specification is either a single address "10.0.0.1", a network
"10.0.0.0/24", a wildcard network "10.0.0." (same as "10.0.0.0/24"), or a range
"10.0.0.1-10.0.0.20". Without any specifications, lansweep sweeps the networks
of the local network interfaces that are up.`,
		Version: "0.9",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *workerNumber < 1 || *workerNumber > 4096 {
				return fmt.Errorf("--workers out of range [1..4096]")
			}
			switch *probeMethod {
			case methodExec, methodICMP, methodUDP:
			default:
				return fmt.Errorf("--probe must be one of exec, icmp, udp")
			}
			switch *resolveMode {
			case methodExec, methodDNS, methodNone:
			default:
				return fmt.Errorf("--resolve must be one of exec, dns, none")
			}
			if *timeout < 100*time.Millisecond {
				return fmt.Errorf("--timeout must be at least 100ms")
			}
			if *maxAddresses < 1 {
				return fmt.Errorf("--max-addresses must be at least 1")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			// From here on, errors aren't about wrong command usage anymore.
			cmd.SilenceUsage = true
			return sweepAndReport(cmd, args)
		},
	}
	// Sets up the flags.
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	workerNumber = rootCmd.PersistentFlags().Uint(
		"workers", uint(sweep.DefaultWorkers), "number of concurrent probe workers")
	probeMethod = rootCmd.PersistentFlags().String(
		"probe", methodExec, "probe method: exec (ping command), icmp (raw ICMP), udp (unprivileged ICMP)")
	resolveMode = rootCmd.PersistentFlags().String(
		"resolve", methodExec, "name resolution method: exec (nslookup command), dns (PTR queries), none")
	dnsServer = rootCmd.PersistentFlags().String(
		"dns-server", "", "DNS server host:port for --resolve dns (default: first nameserver in "+dnsworker.DefaultResolvConf+")")
	timeout = rootCmd.PersistentFlags().Duration(
		"timeout", ping.DefaultTimeout, "probe and DNS query timeout")
	maxAddresses = rootCmd.PersistentFlags().Uint64(
		"max-addresses", 1<<24, "maximum number of addresses to sweep")
	dedup = rootCmd.PersistentFlags().Bool(
		"dedup", false, "probe duplicate addresses only once")
	showProgress = rootCmd.PersistentFlags().Bool(
		"progress", false, "show progress on stderr")
	container = rootCmd.PersistentFlags().String(
		"container", "", "sweep from inside the network namespace of this Docker container, defaulting to its networks")
	netns = rootCmd.PersistentFlags().String(
		"netns", "", "sweep from inside the network namespace referenced by this path")
	rootCmd.MarkFlagsMutuallyExclusive("container", "netns")
	return
}

// sweepAndReport sets up the prober, resolver and network lister according to
// the CLI flags and then runs a scan driver on the specified address
// specifications.
func sweepAndReport(cmd *cobra.Command, specs []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	netnsref := *netns
	var lister addressLister
	if *container != "" {
		nets, ref, err := containerNetworks(ctx, *container)
		if err != nil {
			return err
		}
		netnsref = ref
		lister = nets
	} else {
		lister = netif.New(netif.InNetworkNamespace(netnsref))
	}

	resolver, stop, err := newResolver(ctx, netnsref)
	if err != nil {
		return err
	}
	defer stop()

	driver := &scanDriver{
		prober:       newProber(netnsref),
		resolver:     resolver,
		lister:       lister,
		workers:      int(*workerNumber),
		dedup:        *dedup,
		maxAddresses: *maxAddresses,
	}
	if *showProgress {
		driver.progress = newProgress(cmd.ErrOrStderr())
	}
	return driver.Run(ctx, cmd.OutOrStdout(), specs)
}

// containerNetworks returns the networks of the named container as well as a
// reference to the container's network namespace.
func containerNetworks(ctx context.Context, name string) (staticLister, string, error) {
	moby, err := mobynet.NewClient()
	if err != nil {
		return nil, "", err
	}
	defer moby.Close()
	nets, netnsref, err := mobynet.DiscoverAttachedNetworks(ctx, moby, name)
	if err != nil {
		return nil, "", fmt.Errorf("cannot discover attached networks: %w", err)
	}
	prefixes := staticLister{}
	for _, net := range nets {
		log.Debugf("container %s attached to network %s with %s", name, net.Name, net.Prefix)
		prefixes = append(prefixes, net.Prefix)
	}
	return prefixes, netnsref, nil
}

// newProber returns the liveness prober selected by the CLI flags.
func newProber(netnsref string) sweep.Prober {
	options := []ping.ProberOption{
		ping.WithTimeout(*timeout),
		ping.InNetworkNamespace(netnsref),
	}
	switch *probeMethod {
	case methodICMP:
		return ping.NewICMPProber(options...)
	case methodUDP:
		return ping.NewICMPProber(append(options, ping.AsUnprivileged())...)
	default:
		return ping.NewCommandProber(options...)
	}
}

// newResolver returns the name resolver selected by the CLI flags, together
// with a function to release the resolver's resources after the scan. The
// resolver is nil if name resolution has been switched off.
func newResolver(ctx context.Context, netnsref string) (sweep.Resolver, func(), error) {
	switch *resolveMode {
	case methodNone:
		return nil, func() {}, nil
	case methodDNS:
		server := *dnsServer
		if server == "" {
			var err error
			server, err = dnsworker.DefaultServer(dnsworker.DefaultResolvConf)
			if err != nil {
				return nil, nil, fmt.Errorf("cannot determine DNS server: %w", err)
			}
		}
		log.Debugf("using DNS server %s", server)
		size := int(*workerNumber)
		if size > maxDnsConns {
			size = maxDnsConns
		}
		resolver, err := dnsworker.NewResolver(ctx, size, server, *timeout,
			dnsworker.InNetworkNamespace(netnsref))
		if err != nil {
			return nil, nil, fmt.Errorf("cannot set up DNS resolver: %w", err)
		}
		return resolver, resolver.StopWait, nil
	default:
		return resolve.NewCommandResolver(resolve.InNetworkNamespace(netnsref)), func() {}, nil
	}
}
