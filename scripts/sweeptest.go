// Sweeptest is a small load tool for exercising the monitor's API. It fires
// concurrent requests at an endpoint (cache reads by default, or full
// on-demand sweeps) and reports latency percentiles, so cache reads can be
// verified to stay fast while sweeps are in flight.
//
// Usage:
//
//	go run sweeptest.go -url http://localhost:30500/api/status -concurrency 20 -requests 500
//	go run sweeptest.go -url http://localhost:30500/api/ping-all -concurrency 2 -requests 10 -timeout 60
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	var (
		url         = flag.String("url", "http://localhost:30500/api/status", "Target URL")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 100, "Total number of requests to send")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		verbose     = flag.Bool("v", false, "Verbose per-request logging to stdout")
	)
	flag.Parse()

	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	jobs := make(chan int)
	durations := make([]time.Duration, *requests)
	var failures int64

	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				resp, err := client.Get(*url)
				elapsed := time.Since(start)
				durations[i] = elapsed

				if err != nil {
					atomic.AddInt64(&failures, 1)
					if *verbose {
						fmt.Printf("request %d failed: %v\n", i, err)
					}
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()

				if resp.StatusCode != http.StatusOK {
					atomic.AddInt64(&failures, 1)
				}
				if *verbose {
					fmt.Printf("request %d: %d in %v\n", i, resp.StatusCode, elapsed)
				}
			}
		}()
	}

	started := time.Now()
	for i := 0; i < *requests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	total := time.Since(started)

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	fmt.Printf("url:         %s\n", *url)
	fmt.Printf("requests:    %d (failed: %d)\n", *requests, atomic.LoadInt64(&failures))
	fmt.Printf("concurrency: %d\n", *concurrency)
	fmt.Printf("total time:  %v (%.1f req/s)\n", total, float64(*requests)/total.Seconds())
	fmt.Printf("p50: %v  p90: %v  p99: %v  max: %v\n",
		pct(durations, 0.50), pct(durations, 0.90), pct(durations, 0.99),
		durations[len(durations)-1])

	if atomic.LoadInt64(&failures) > 0 {
		os.Exit(1)
	}
}

func pct(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
