package registry_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/ping-monitor/internal/registry"
)

func TestRegistry(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Registry Suite")
}

const groupedHosts = `
hosts:
  - type: Server
    color: "#0d6efd"
    ips:
      - 10.48.9.10
      - 10.48.9.11: {known_offline: true}
  - type: Camera
    ips:
      - 10.48.9.20
`

const flatHosts = `
hosts:
  - 10.48.9.10
  - 10.48.9.61: {known_offline: true}
`

var _ = Describe("Load", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "registry-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	writeHosts := func(content string) string {
		path := filepath.Join(tempDir, "hosts.yaml")
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	Context("with the grouped format", func() {
		It("normalizes groups and per-host flags into one representation", func() {
			hosts, err := registry.Load(writeHosts(groupedHosts))
			Expect(err).NotTo(HaveOccurred())
			Expect(hosts).To(HaveLen(3))

			Expect(hosts[0].Address).To(Equal("10.48.9.10"))
			Expect(hosts[0].Type).To(Equal("Server"))
			Expect(hosts[0].Color).To(Equal("#0d6efd"))
			Expect(hosts[0].KnownOffline).To(BeFalse())

			Expect(hosts[1].Address).To(Equal("10.48.9.11"))
			Expect(hosts[1].KnownOffline).To(BeTrue())

			Expect(hosts[2].Type).To(Equal("Camera"))
			Expect(hosts[2].Color).To(Equal("#6c757d"), "missing group color falls back to the default")
		})
	})

	Context("with the legacy flat format", func() {
		It("applies default group metadata and still honors flags", func() {
			hosts, err := registry.Load(writeHosts(flatHosts))
			Expect(err).NotTo(HaveOccurred())
			Expect(hosts).To(HaveLen(2))

			Expect(hosts[0].Type).To(Equal("Unknown"))
			Expect(hosts[0].Color).To(Equal("#6c757d"))
			Expect(hosts[0].KnownOffline).To(BeFalse())

			Expect(hosts[1].Address).To(Equal("10.48.9.61"))
			Expect(hosts[1].KnownOffline).To(BeTrue())
		})
	})

	Context("with malformed input", func() {
		It("fails on unparsable YAML", func() {
			_, err := registry.Load(writeHosts("hosts: [unclosed"))
			Expect(err).To(HaveOccurred())
		})

		It("fails on an empty host list", func() {
			_, err := registry.Load(writeHosts("hosts: []"))
			Expect(err).To(MatchError(ContainSubstring("no hosts")))
		})

		It("fails on duplicate addresses", func() {
			_, err := registry.Load(writeHosts("hosts:\n  - 10.0.0.1\n  - 10.0.0.1\n"))
			Expect(err).To(MatchError(ContainSubstring("duplicate")))
		})

		It("fails on a missing file", func() {
			_, err := registry.Load(filepath.Join(tempDir, "nope.yaml"))
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Registry", func() {
	var (
		tempDir string
		path    string
		log     *slog.Logger
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "registry-test-*")
		Expect(err).NotTo(HaveOccurred())

		path = filepath.Join(tempDir, "hosts.yaml")
		Expect(os.WriteFile(path, []byte(flatHosts), 0644)).To(Succeed())

		log = slog.New(slog.NewTextHandler(os.Stdout, nil))
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	It("serves lookups against the active set", func() {
		reg, err := registry.New(path, log)
		Expect(err).NotTo(HaveOccurred())

		host, err := reg.Lookup("10.48.9.61")
		Expect(err).NotTo(HaveOccurred())
		Expect(host.KnownOffline).To(BeTrue())

		_, err = reg.Lookup("192.168.1.1")
		Expect(err).To(MatchError(registry.ErrHostNotFound))
	})

	It("returns a copy from Current", func() {
		reg, err := registry.New(path, log)
		Expect(err).NotTo(HaveOccurred())

		hosts := reg.Current()
		hosts[0].Address = "mutated"

		fresh := reg.Current()
		Expect(fresh[0].Address).To(Equal("10.48.9.10"))
	})

	Describe("Reload", func() {
		It("swaps the active set on success", func() {
			reg, err := registry.New(path, log)
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.Len()).To(Equal(2))

			Expect(os.WriteFile(path, []byte(groupedHosts), 0644)).To(Succeed())

			count, err := reg.Reload()
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
			Expect(reg.Len()).To(Equal(3))
		})

		It("keeps the previous set when the reload fails", func() {
			reg, err := registry.New(path, log)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.WriteFile(path, []byte("hosts: [unclosed"), 0644)).To(Succeed())

			_, err = reg.Reload()
			Expect(err).To(HaveOccurred())

			Expect(reg.Len()).To(Equal(2))
			host, err := reg.Lookup("10.48.9.61")
			Expect(err).NotTo(HaveOccurred())
			Expect(host.KnownOffline).To(BeTrue())
		})
	})
})
