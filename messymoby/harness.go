// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Package messymoby helps tests bringing up and tearing down Docker compose
// test harnesses.
package messymoby

import (
	"context"
	"os"
	"os/exec"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/onsi/gomega/gexec"

	gi "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
	s "github.com/thediveo/success"
)

// MessyMobyLabel is the name of a “magic” label for tagging testing-related
// container or network elements.
const MessyMobyLabel = "messymoby"

// DockerSocket is where the Docker daemon API is expected.
const DockerSocket = "/var/run/docker.sock"

// Available returns true if there is a Docker daemon socket as well as a
// docker CLI binary.
func Available() bool {
	if _, err := os.Stat(DockerSocket); err != nil {
		return false
	}
	_, err := exec.LookPath("docker")
	return err == nil
}

// NewClient returns a new Docker client connected to the default socket API
// location on the local host.
func NewClient() *client.Client {
	gi.GinkgoHelper()

	return s.Successful(client.NewClientWithOpts(
		client.WithHost("unix://"+DockerSocket),
		client.WithAPIVersionNegotiation(),
	))
}

// DockerCompose executes docker-compose with the specified CLI arguments,
// waiting for it to gracefully finish with exit code 0.
func DockerCompose(ctx context.Context, args ...string) {
	gi.GinkgoHelper()

	args = append([]string{"compose"}, args...)
	dc := exec.Command("docker", args...)
	sess := s.Successful(gexec.Start(dc, gi.GinkgoWriter, gi.GinkgoWriter))
	g.Eventually(sess).WithContext(ctx).Should(gexec.Exit(0))
}

// Cleanup removes left-over test containers that aren't running anymore,
// identified by the [MessyMobyLabel].
func Cleanup(ctx context.Context) {
	gi.GinkgoHelper()

	cln := NewClient()
	defer cln.Close()
	for _, status := range []string{"exited", "created", "dead"} {
		deads := s.Successful(cln.ContainerList(ctx, types.ContainerListOptions{
			All: true,
			Filters: filters.NewArgs(
				filters.Arg("status", status),
				filters.Arg("label", MessyMobyLabel)),
		}))
		for _, dead := range deads {
			_ = cln.ContainerRemove(ctx, dead.ID, types.ContainerRemoveOptions{Force: true})
		}
	}
}
