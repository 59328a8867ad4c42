/*
Package ping implements single-attempt IPv4 liveness probes.

There are two flavors:
  - [CommandProber] runs the system's ping utility for a single echo request
    with a short timeout, and takes a zero exit status for "alive".
  - [ICMPProber] sends a single echo request itself using [go-ping/ping],
    either as a privileged ICMP or an unprivileged UDP "ping".

Both never retry and never report errors: an address that cannot be probed
for whatever reason simply isn't alive. Errors are logged at debug level only.

Probers can optionally do their work from inside a different network
namespace, see [InNetworkNamespace].

[go-ping/ping]: https://github.com/go-ping/ping
*/
package ping
