// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/namspill"
	. "github.com/thediveo/success"
)

var _ = Describe("DNS client connection pool", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
			Expect(Tasks()).To(BeUniformlyNamespaced())
		})
	})

	It("runs a goroutine-limited set of DNS tasks", NodeTimeout(30*time.Second), func(ctx context.Context) {
		const poolsize = 3

		dnsclnt := dns.Client{}
		// We're never going to contact this DNS "server", we just need just
		// some address so we can allocate some connections.
		pool := Successful(New(ctx, poolsize, &dnsclnt, "127.0.0.1:53"))

		dnsconns := map[*dns.Conn]int{}
		var mu sync.Mutex
		taskfn := func(conn *dns.Conn) {
			mu.Lock()
			defer mu.Unlock()
			count := dnsconns[conn]
			dnsconns[conn] = count + 1
			time.Sleep(100 * time.Millisecond)
		}

		numtasks := poolsize * 2
		for i := 0; i < numtasks; i++ {
			pool.Submit(taskfn)
		}

		pool.StopWait()

		total := 0
		for _, count := range dnsconns {
			total += count
		}
		Expect(total).To(Equal(numtasks), "number of submitted and executed tasks mismatch")
		Expect(len(dnsconns)).To(BeNumerically("<=", poolsize))
	})

	It("doesn't leak when dialing fails", func(ctx context.Context) {
		dnsclnt := dns.Client{Net: "tcp", DialTimeout: time.Second}
		Expect(New(ctx, 2, &dnsclnt, "127.0.0.1:1")).Error().To(HaveOccurred())
	})

	It("resolves an address", NodeTimeout(30*time.Second), func(ctx context.Context) {
		server := startFakeDNS(map[string]string{
			"1.0.0.10.in-addr.arpa.": "foo.example.org",
		})
		dnsclnt := dns.Client{Net: "udp"}
		pool := Successful(New(ctx, 1, &dnsclnt, server))
		defer pool.StopWait()

		ch := make(chan string, 1)
		pool.ResolveAddr(ctx, "10.0.0.1", func(name string, err error) {
			defer GinkgoRecover()
			Expect(err).NotTo(HaveOccurred())
			ch <- name
		})
		Eventually(ch).Should(Receive(Equal("foo.example.org")))
	})

	It("reports addresses without names", NodeTimeout(30*time.Second), func(ctx context.Context) {
		server := startFakeDNS(nil)
		dnsclnt := dns.Client{Net: "udp"}
		pool := Successful(New(ctx, 1, &dnsclnt, server))
		defer pool.StopWait()

		ch := make(chan struct{})
		pool.ResolveAddr(ctx, "10.0.0.2", func(name string, err error) {
			defer GinkgoRecover()
			Expect(err).To(MatchError(ContainSubstring("NXDOMAIN")))
			Expect(name).To(BeEmpty())
			close(ch)
		})
		Eventually(ch).Should(BeClosed())
	})

	It("reports resolution failures", NodeTimeout(30*time.Second), func(ctx context.Context) {
		dnsclnt := dns.Client{Net: "udp", Timeout: 500 * time.Millisecond}
		pool := Successful(New(ctx, 1, &dnsclnt, "127.0.0.1:1"))
		ch := make(chan struct{})

		pool.ResolveAddr(ctx, "10.0.0.1", func(name string, err error) {
			defer GinkgoRecover()
			Expect(err).To(HaveOccurred())
			close(ch)
		})
		Eventually(ch).Should(BeClosed())
		pool.StopWait()
	})

	It("rejects non-addresses", NodeTimeout(30*time.Second), func(ctx context.Context) {
		dnsclnt := dns.Client{Net: "udp"}
		pool := Successful(New(ctx, 1, &dnsclnt, "127.0.0.1:53"))
		defer pool.StopWait()

		ch := make(chan error, 1)
		pool.ResolveAddr(ctx, "foo.bar", func(_ string, err error) { ch <- err })
		Eventually(ch).Should(Receive(HaveOccurred()))
	})

	It("doesn't resolve when the context is done", NodeTimeout(30*time.Second), func(ctx context.Context) {
		dnsclnt := dns.Client{Net: "udp"}
		pool := Successful(New(ctx, 1, &dnsclnt, "127.0.0.1:53"))
		defer pool.StopWait()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		ch := make(chan error, 1)
		pool.ResolveAddr(cctx, "10.0.0.1", func(_ string, err error) { ch <- err })
		Eventually(ch).Should(Receive(MatchError(context.Canceled)))
	})

	It("dials in a network namespace", NodeTimeout(30*time.Second), func(ctx context.Context) {
		if os.Getuid() != 0 {
			Skip("needs root")
		}
		dnsclnt := dns.Client{Net: "udp"}
		pool := Successful(New(ctx, 2, &dnsclnt, "127.0.0.1:53",
			InNetworkNamespace("/proc/self/ns/net")))
		pool.StopWait()
	})

})

var _ = Describe("reverse-lookup resolver", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("looks up names", NodeTimeout(30*time.Second), func(ctx context.Context) {
		server := startFakeDNS(map[string]string{
			"1.0.168.192.in-addr.arpa.": "router.lan",
		})
		r := Successful(NewResolver(ctx, 2, server, time.Second))
		defer r.StopWait()

		name, ok := r.LookupName(ctx, "192.168.0.1")
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("router.lan"))

		name, ok = r.LookupName(ctx, "192.168.0.2")
		Expect(ok).To(BeFalse())
		Expect(name).To(BeEmpty())
	})

	It("gives up when the context is done", NodeTimeout(30*time.Second), func(ctx context.Context) {
		r := Successful(NewResolver(ctx, 1, "127.0.0.1:1", 500*time.Millisecond))
		defer r.StopWait()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, ok := r.LookupName(cctx, "192.168.0.1")
		Expect(ok).To(BeFalse())
	})

	It("finds the default name server", func() {
		resolvconf := filepath.Join(GinkgoT().TempDir(), "resolv.conf")
		Expect(os.WriteFile(resolvconf,
			[]byte("# comment\nsearch lan\nnameserver 192.0.2.53\nnameserver 192.0.2.54\n"),
			0644)).To(Succeed())
		Expect(DefaultServer(resolvconf)).To(Equal("192.0.2.53:53"))
	})

	It("reports missing name servers", func() {
		resolvconf := filepath.Join(GinkgoT().TempDir(), "resolv.conf")
		Expect(os.WriteFile(resolvconf, []byte("search lan\n"), 0644)).To(Succeed())
		Expect(DefaultServer(resolvconf)).Error().To(HaveOccurred())
		Expect(DefaultServer(filepath.Join(GinkgoT().TempDir(), "nada"))).Error().To(HaveOccurred())
	})

})
