package status_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/ping-monitor/internal/registry"
	"github.com/angeloszaimis/ping-monitor/internal/status"
)

func entryFor(address string, generation float64) status.HostStatus {
	return status.HostStatus{
		Host:      registry.Host{Address: address},
		Tag:       status.TagOnline,
		LatencyMS: &generation,
		CheckedAt: time.Now().UTC(),
	}
}

func generationSnapshot(generation float64, addresses ...string) status.Snapshot {
	snap := make(status.Snapshot, len(addresses))
	for _, addr := range addresses {
		snap[addr] = entryFor(addr, generation)
	}
	return snap
}

var _ = Describe("Cache", func() {
	var cache *status.Cache

	BeforeEach(func() {
		cache = status.NewCache()
	})

	Describe("Replace and Get", func() {
		It("stores a whole sweep and serves per-key lookups", func() {
			cache.Replace(generationSnapshot(1, "10.0.0.1", "10.0.0.2"))

			hs, ok := cache.Get("10.0.0.1")
			Expect(ok).To(BeTrue())
			Expect(hs.Host.Address).To(Equal("10.0.0.1"))

			_, ok = cache.Get("10.0.0.9")
			Expect(ok).To(BeFalse())
		})

		It("drops entries absent from the new snapshot", func() {
			cache.Replace(generationSnapshot(1, "10.0.0.1", "10.0.0.2"))
			cache.Replace(generationSnapshot(2, "10.0.0.1"))

			Expect(cache.Len()).To(Equal(1))
			_, ok := cache.Get("10.0.0.2")
			Expect(ok).To(BeFalse())
		})

		It("is not aliased to the caller's map", func() {
			snap := generationSnapshot(1, "10.0.0.1")
			cache.Replace(snap)
			snap["10.0.0.2"] = entryFor("10.0.0.2", 1)

			Expect(cache.Len()).To(Equal(1))
		})
	})

	Describe("Put", func() {
		It("merges a single entry without touching the rest", func() {
			cache.Replace(generationSnapshot(1, "10.0.0.1", "10.0.0.2"))
			cache.Put(entryFor("10.0.0.2", 7))

			Expect(cache.Len()).To(Equal(2))
			hs, _ := cache.Get("10.0.0.2")
			Expect(*hs.LatencyMS).To(Equal(7.0))
			hs, _ = cache.Get("10.0.0.1")
			Expect(*hs.LatencyMS).To(Equal(1.0))
		})
	})

	Describe("All", func() {
		It("returns a defensive copy", func() {
			cache.Replace(generationSnapshot(1, "10.0.0.1"))

			all := cache.All()
			all["10.0.0.2"] = entryFor("10.0.0.2", 1)

			Expect(cache.Len()).To(Equal(1))
		})

		It("never returns a snapshot mixing two sweeps", func() {
			addresses := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"}
			stop := make(chan struct{})

			var writers sync.WaitGroup
			for w := 0; w < 2; w++ {
				writers.Add(1)
				go func(offset float64) {
					defer writers.Done()
					generation := offset
					for {
						select {
						case <-stop:
							return
						default:
							cache.Replace(generationSnapshot(generation, addresses...))
							generation += 2
						}
					}
				}(float64(w + 1))
			}

			for i := 0; i < 500; i++ {
				snap := cache.All()
				if len(snap) == 0 {
					continue
				}
				var generation float64
				first := true
				for _, hs := range snap {
					if first {
						generation = *hs.LatencyMS
						first = false
						continue
					}
					Expect(*hs.LatencyMS).To(Equal(generation),
						"snapshot mixed entries from two different sweeps")
				}
			}

			close(stop)
			writers.Wait()
		})
	})
})
