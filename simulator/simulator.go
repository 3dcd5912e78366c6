// Package simulator drives synthetic forum traffic against a running
// server, for load testing and for exercising the moderation gate with a
// realistic mix of clean and flagged submissions.
package simulator

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"relawan-hub/internal/models"

	"resty.dev/v3"
)

// SimConfig controls the shape of the generated traffic.
type SimConfig struct {
	NumUsers       int
	SimulationTime time.Duration
	// ThreadFrequency and ReplyFrequency are per-user actions per second.
	ThreadFrequency float64
	ReplyFrequency  float64
	ViewFrequency   float64
	SearchFrequency float64
	// FlaggedPercentage is the share of submissions that deliberately
	// contain disallowed content, to exercise the rejection path.
	FlaggedPercentage float64
	ServerURL         string
}

// DefaultConfig is a small mixed workload against a local server.
func DefaultConfig() SimConfig {
	return SimConfig{
		NumUsers:          20,
		SimulationTime:    30 * time.Second,
		ThreadFrequency:   0.1,
		ReplyFrequency:    0.4,
		ViewFrequency:     1.0,
		SearchFrequency:   0.2,
		FlaggedPercentage: 0.1,
		ServerURL:         "http://localhost:8080",
	}
}

// SimStats aggregates outcomes across all simulated users.
type SimStats struct {
	mu               sync.Mutex
	TotalRequests    int64
	FailedRequests   int64
	ThreadsCreated   int64
	RepliesCreated   int64
	FlaggedRejected  int64
	ThreadViews      int64
	Searches         int64
	RequestLatencies []time.Duration
}

func (s *SimStats) record(latency time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalRequests++
	if failed {
		s.FailedRequests++
	}
	s.RequestLatencies = append(s.RequestLatencies, latency)
}

// AverageLatency returns the mean request latency observed so far.
func (s *SimStats) AverageLatency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.RequestLatencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, l := range s.RequestLatencies {
		total += l
	}
	return total / time.Duration(len(s.RequestLatencies))
}

// simUser is one synthetic forum participant.
type simUser struct {
	author models.AuthorInfo
	// threads the user has seen, used as reply and view targets.
	knownThreads []string
}

// Simulator owns the user population and the shared HTTP client.
type Simulator struct {
	config SimConfig
	client *resty.Client
	stats  *SimStats

	mu    sync.Mutex
	users []*simUser
	rng   *rand.Rand
}

// NewSimulator builds a simulator with a generated user population.
func NewSimulator(config SimConfig) *Simulator {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*simUser, config.NumUsers)
	for i := range users {
		users[i] = &simUser{author: randomAuthor(rng, i)}
	}

	return &Simulator{
		config: config,
		client: resty.New().SetBaseURL(config.ServerURL),
		stats:  &SimStats{},
		users:  users,
		rng:    rng,
	}
}

// Run drives all users concurrently until the configured duration elapses
// or ctx is cancelled, then returns the collected stats.
func (s *Simulator) Run(ctx context.Context) *SimStats {
	ctx, cancel := context.WithTimeout(ctx, s.config.SimulationTime)
	defer cancel()

	log.Printf("Simulator: starting %d users against %s for %s",
		s.config.NumUsers, s.config.ServerURL, s.config.SimulationTime)

	var wg sync.WaitGroup
	for _, user := range s.users {
		wg.Add(1)
		go func(u *simUser) {
			defer wg.Done()
			s.runUser(ctx, u)
		}(user)
	}
	wg.Wait()

	if err := s.client.Close(); err != nil {
		log.Printf("Simulator: error closing client: %v", err)
	}

	return s.stats
}

// runUser loops on a per-user tick, picking one weighted action each time.
func (s *Simulator) runUser(ctx context.Context, user *simUser) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.step(ctx, user)
		}
	}
}

func (s *Simulator) step(ctx context.Context, user *simUser) {
	roll := func(freq float64) bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.rng.Float64() < freq
	}

	switch {
	case roll(s.config.ThreadFrequency):
		s.createThread(ctx, user)
	case roll(s.config.ReplyFrequency):
		s.createReply(ctx, user)
	case roll(s.config.SearchFrequency):
		s.searchThreads(ctx)
	case roll(s.config.ViewFrequency):
		s.viewThread(ctx, user)
	}
}

// shareThread makes a thread id visible to another random user, so replies
// cluster on popular threads instead of each user replying only to itself.
func (s *Simulator) shareThread(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	other := s.users[s.rng.Intn(len(s.users))]
	other.knownThreads = append(other.knownThreads, threadID)
}

func (s *Simulator) pickKnownThread(user *simUser) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(user.knownThreads) == 0 {
		return "", false
	}
	return user.knownThreads[s.rng.Intn(len(user.knownThreads))], true
}
