package main

import (
	"context"
	"flag"
	"log"
	"time"

	"relawan-hub/simulator"
)

func main() {
	cfg := simulator.DefaultConfig()

	flag.IntVar(&cfg.NumUsers, "users", cfg.NumUsers, "number of simulated users")
	flag.DurationVar(&cfg.SimulationTime, "duration", cfg.SimulationTime, "how long to run")
	flag.Float64Var(&cfg.ThreadFrequency, "thread-freq", cfg.ThreadFrequency, "per-user thread creations per second")
	flag.Float64Var(&cfg.ReplyFrequency, "reply-freq", cfg.ReplyFrequency, "per-user replies per second")
	flag.Float64Var(&cfg.FlaggedPercentage, "flagged-pct", cfg.FlaggedPercentage, "share of submissions with disallowed content")
	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "base URL of the server under test")
	flag.Parse()

	sim := simulator.NewSimulator(cfg)

	start := time.Now()
	stats := sim.Run(context.Background())

	log.Printf("Simulation finished in %s", time.Since(start).Round(time.Millisecond))
	log.Printf("  Total requests:   %d (%d failed)", stats.TotalRequests, stats.FailedRequests)
	log.Printf("  Threads created:  %d", stats.ThreadsCreated)
	log.Printf("  Replies created:  %d", stats.RepliesCreated)
	log.Printf("  Flagged rejected: %d", stats.FlaggedRejected)
	log.Printf("  Thread views:     %d", stats.ThreadViews)
	log.Printf("  Searches:         %d", stats.Searches)
	log.Printf("  Average latency:  %s", stats.AverageLatency().Round(time.Microsecond))
}
