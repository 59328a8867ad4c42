// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Package test provides the docker compose CLI args for the Docker-based test
// harness, which consists of a single sleeper container attached to two
// networks with fixed subnets.
package test

// DcTestUpArgs specifies docker-compose CLI args for setting up the test
// harness.
var DcTestUpArgs = []string{
	"-f", "../test/docker-compose.yaml",
	"up",
	"-d",
}

// DcTestDnArgs specifies docker-compose CLI args for tearing down the test
// harness.
var DcTestDnArgs = []string{
	"-f", "../test/docker-compose.yaml",
	"down",
	"-t", "1",
}

// Container is the name of the test container, as per docker compose v2.
const Container = "lansweep-test-sleeper-1"
