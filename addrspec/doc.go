/*
Package addrspec turns address specifications into IPv4 addresses.

Supported notations are:

	10.0.0.1            a single address
	10.0.0.0/24         a CIDR block, 2^(32-24) addresses
	10.0..              wildcard octets, same as 10.0.0.0/16
	10.0.0.10-10.0.0.20 an inclusive range

Blocks always include their network and broadcast addresses.

Malformed specifications are reported as [*InputError]. Octets that are
present but not numbers are not reported; they count as 0.
*/
package addrspec
