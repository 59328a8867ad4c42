/*
Package resolve looks up the names of IP addresses by running the system's
nslookup utility and picking the name from nslookup's output.

For reverse lookups nslookup prints lines such as:

	1.0.168.192.in-addr.arpa	name = router.lan.

[ExtractName] returns the text between the first "name = " marker and the
next ".\n" following it. When there is no such marker, or no terminating
".\n", there is no name.

For pure DNS reverse lookups without running an external utility see
[github.com/siemens/lansweep/dnsworker.Resolver] instead.
*/
package resolve
