// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Package mobynet discovers the IPv4 networks a Docker container is attached
// to, so that these networks can be swept from the container's perspective.
package mobynet

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/docker/docker/client"
)

// AttachedNetwork describes the IPv4 addressing of a container on one of its
// attached Docker networks.
type AttachedNetwork struct {
	Name   string `json:"name"`   // name of the Docker network.
	Prefix string `json:"prefix"` // container's address in "address/prefix" notation.
}

// DiscoverAttachedNetworks inspects the container identified by nameOrID and
// returns the IPv4 addresses with prefix lengths the container has on its
// attached networks, sorted by network name, as well as the filesystem path
// referencing the container's network namespace.
//
// Networks without IPv4 addressing (such as "none" or IPv6-only networks) are
// skipped. A container using the "host" network shares the host's network
// namespace and thus doesn't have any networks of its own; the returned list
// then is empty.
func DiscoverAttachedNetworks(ctx context.Context, moby client.ContainerAPIClient, nameOrID string) ([]AttachedNetwork, string, error) {
	details, err := moby.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return nil, "", err
	}
	if details.ContainerJSONBase == nil || details.State == nil || details.State.Pid == 0 {
		return nil, "", fmt.Errorf("container '%s' is not running", nameOrID)
	}
	netnsref := fmt.Sprintf("/proc/%d/ns/net", details.State.Pid)

	nets := []AttachedNetwork{}
	if details.NetworkSettings == nil {
		return nets, netnsref, nil
	}
	for netname, endpoint := range details.NetworkSettings.Networks {
		if endpoint == nil || endpoint.IPAddress == "" || endpoint.IPPrefixLen == 0 {
			continue
		}
		nets = append(nets, AttachedNetwork{
			Name:   netname,
			Prefix: endpoint.IPAddress + "/" + strconv.Itoa(endpoint.IPPrefixLen),
		})
	}
	sort.Slice(nets, func(a, b int) bool { return nets[a].Name < nets[b].Name })
	return nets, netnsref, nil
}

// NewClient returns a Docker client talking to the local Docker daemon via
// its default unix socket, negotiating the API version.
func NewClient() (*client.Client, error) {
	cln, err := client.NewClientWithOpts(
		client.WithHost("unix:///var/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the Docker daemon: %w", err)
	}
	return cln, nil
}
