// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"errors"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/siemens/lansweep/messymoby"
	"github.com/siemens/lansweep/test"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

// fakeMoby returns canned container details; any other container API method
// panics as the embedded interface is nil.
type fakeMoby struct {
	client.ContainerAPIClient
	details types.ContainerJSON
	err     error
}

func (f *fakeMoby) ContainerInspect(ctx context.Context, nameOrID string) (types.ContainerJSON, error) {
	return f.details, f.err
}

func container(pid int, nets map[string]*network.EndpointSettings) types.ContainerJSON {
	return types.ContainerJSON{
		ContainerJSONBase: &types.ContainerJSONBase{
			State: &types.ContainerState{Pid: pid},
		},
		NetworkSettings: &types.NetworkSettings{
			Networks: nets,
		},
	}
}

var _ = Describe("attached networks", func() {

	It("returns IPv4 prefixes sorted by network name", func(ctx context.Context) {
		moby := &fakeMoby{details: container(42, map[string]*network.EndpointSettings{
			"zoo":  {IPAddress: "172.16.2.3", IPPrefixLen: 24},
			"none": {},
			"v6":   {GlobalIPv6Address: "fd00::2", GlobalIPv6PrefixLen: 64},
			"abc":  {IPAddress: "10.1.2.3", IPPrefixLen: 16},
			"nil":  nil,
		})}
		nets, netnsref := Successful2R(DiscoverAttachedNetworks(ctx, moby, "foo"))
		Expect(netnsref).To(Equal("/proc/42/ns/net"))
		Expect(nets).To(Equal([]AttachedNetwork{
			{Name: "abc", Prefix: "10.1.2.3/16"},
			{Name: "zoo", Prefix: "172.16.2.3/24"},
		}))
	})

	It("returns an empty list for a container without own networks", func(ctx context.Context) {
		moby := &fakeMoby{details: container(42, nil)}
		nets, netnsref := Successful2R(DiscoverAttachedNetworks(ctx, moby, "foo"))
		Expect(netnsref).To(Equal("/proc/42/ns/net"))
		Expect(nets).To(BeEmpty())

		moby.details.NetworkSettings = nil
		nets, _ = Successful2R(DiscoverAttachedNetworks(ctx, moby, "foo"))
		Expect(nets).To(BeEmpty())
	})

	It("rejects containers that aren't running", func(ctx context.Context) {
		moby := &fakeMoby{details: container(0, nil)}
		_, _, err := DiscoverAttachedNetworks(ctx, moby, "foo")
		Expect(err).To(MatchError(ContainSubstring("container 'foo' is not running")))

		moby.details.ContainerJSONBase = nil
		_, _, err = DiscoverAttachedNetworks(ctx, moby, "foo")
		Expect(err).To(HaveOccurred())
	})

	It("reports inspection errors", func(ctx context.Context) {
		moby := &fakeMoby{err: errors.New("no such container")}
		_, _, err := DiscoverAttachedNetworks(ctx, moby, "foo")
		Expect(err).To(MatchError("no such container"))
	})

	When("a Docker daemon is available", Ordered, func() {

		BeforeAll(NodeTimeout(120*time.Second), func(ctx context.Context) {
			if !messymoby.Available() {
				Skip("needs Docker")
			}
			By("Cleaning up test containers")
			messymoby.Cleanup(ctx)
			By("Bringing up the test harness")
			messymoby.DockerCompose(ctx, test.DcTestDnArgs...)
			messymoby.DockerCompose(ctx, test.DcTestUpArgs...)

			DeferCleanup(NodeTimeout(60*time.Second), func(ctx context.Context) {
				By("Tearing down our test harness")
				messymoby.DockerCompose(ctx, test.DcTestDnArgs...)
				messymoby.Cleanup(ctx)
			})
		})

		It("discovers the networks of a real container", func(ctx context.Context) {
			moby := Successful(NewClient())
			defer moby.Close()
			nets, netnsref := Successful2R(DiscoverAttachedNetworks(ctx, moby, test.Container))
			Expect(netnsref).To(MatchRegexp(`^/proc/\d+/ns/net$`))
			Expect(nets).To(ConsistOf(
				And(
					HaveField("Name", HaveSuffix("net_A")),
					HaveField("Prefix", "172.31.200.10/28")),
				And(
					HaveField("Name", HaveSuffix("net_B")),
					HaveField("Prefix", "172.31.201.10/29")),
			))
		})

	})

})
