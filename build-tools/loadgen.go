//go:build ignore

// Run: go run ./build-tools/loadgen.go -base http://localhost:8080 -rps 200 -duration 60s -pools 4
//
// Drives the four analytics endpoints with a mix of repeated and unique
// parameter sets so cache hit/miss behavior shows up in /metrics.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func main() {
	var (
		base     = flag.String("base", "http://localhost:8080", "service base URL")
		rps      = flag.Int("rps", 100, "requests per second target")
		duration = flag.Duration("duration", 30*time.Second, "how long to run")
		pools    = flag.Int("pools", 4, "how many pool indexes to cycle")
		users    = flag.Int("users", 8, "how many synthetic users for the swaps listing")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	userIDs := make([]string, *users)
	for i := range userIDs {
		var sb strings.Builder
		for j := 0; j < 44; j++ {
			sb.WriteByte(base58Alphabet[rng.Intn(len(base58Alphabet))])
		}
		userIDs[i] = sb.String()
	}

	intervals := []string{"minute", "hour", "day"}
	statsIntervals := []string{"hour", "day"}
	filters := []string{"day", "week", "month", "year"}

	targets := func() string {
		pool := rng.Intn(*pools)
		switch rng.Intn(4) {
		case 0:
			return fmt.Sprintf("%s/api/stats/swaps?pool=%d&user=%s&filter=%s",
				*base, pool, userIDs[rng.Intn(len(userIDs))], filters[rng.Intn(len(filters))])
		case 1:
			return fmt.Sprintf("%s/api/stats/ohlcv?pool=%d&interval=%s&filter=%s",
				*base, pool, intervals[rng.Intn(len(intervals))], filters[rng.Intn(len(filters))])
		case 2:
			return fmt.Sprintf("%s/api/stats/pools?pool=%d&interval=%s",
				*base, pool, statsIntervals[rng.Intn(len(statsIntervals))])
		default:
			return fmt.Sprintf("%s/api/stats/borrow?interval=%s",
				*base, statsIntervals[rng.Intn(len(statsIntervals))])
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}
	ticker := time.NewTicker(time.Second / time.Duration(*rps))
	defer ticker.Stop()

	var sent, failed atomic.Int64

	for {
		select {
		case <-ctx.Done():
			fmt.Printf("done: sent=%d failed=%d\n", sent.Load(), failed.Load())
			if failed.Load() > 0 {
				os.Exit(1)
			}
			return
		case <-ticker.C:
			go func(url string) {
				sent.Add(1)
				resp, err := client.Get(url)
				if err != nil {
					failed.Add(1)
					fmt.Fprintf(os.Stderr, "GET %s: %v\n", url, err)
					return
				}
				defer resp.Body.Close()
				_, _ = io.Copy(io.Discard, resp.Body)
				if resp.StatusCode >= 500 {
					failed.Add(1)
					fmt.Fprintf(os.Stderr, "GET %s: status %d\n", url, resp.StatusCode)
				}
			}(targets())
		}
	}
}
