package simulator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"relawan-hub/internal/models"
)

var threadTitles = []string{
	"Volunteers needed for river cleanup",
	"Weekend food distribution, who can join?",
	"Looking for a first aid trainer",
	"Donation drive for flood victims",
	"Monthly community meetup thread",
	"Tips for organizing a blood donor event",
}

var cleanContents = []string{
	"We are gathering at the east gate on Saturday morning, bring gloves.",
	"I can offer transport for up to six people from the city center.",
	"Last month we collected 40 boxes of supplies, let's beat that.",
	"Does anyone have experience coordinating with the local health office?",
	"Happy to help with registration and logistics on the day.",
}

// flaggedContents trip the keyword filter on purpose, so the rejection path
// sees traffic too.
var flaggedContents = []string{
	"this is offensive material that should not pass",
	"check out this judi online site for easy money",
	"obvious spam message, please ignore",
}

func randomAuthor(rng *rand.Rand, index int) models.AuthorInfo {
	names := []string{"Ann", "Budi", "Citra", "Dewi", "Eko", "Farah", "Gilang", "Hana"}
	name := names[rng.Intn(len(names))]
	return models.AuthorInfo{
		UserID: fmt.Sprintf("sim-user-%d", index),
		Name:   fmt.Sprintf("%s %d", name, index),
	}
}

func (s *Simulator) pickContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng.Float64() < s.config.FlaggedPercentage {
		return flaggedContents[s.rng.Intn(len(flaggedContents))]
	}
	return cleanContents[s.rng.Intn(len(cleanContents))]
}

func (s *Simulator) pickTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return threadTitles[s.rng.Intn(len(threadTitles))]
}

func (s *Simulator) createThread(ctx context.Context, user *simUser) {
	start := time.Now()

	var result models.SubmissionResult
	res, err := s.client.R().
		WithContext(ctx).
		SetBody(map[string]interface{}{
			"title":    s.pickTitle(),
			"content":  s.pickContent(),
			"userId":   user.author.UserID,
			"userName": user.author.Name,
		}).
		SetResult(&result).
		Post("/api/threads")

	failed := err != nil || res.IsError()
	s.stats.record(time.Since(start), failed)
	if failed {
		log.Printf("Simulator: create thread failed: %v", err)
		return
	}

	s.stats.mu.Lock()
	if result.Success {
		s.stats.ThreadsCreated++
	} else {
		s.stats.FlaggedRejected++
	}
	s.stats.mu.Unlock()

	if result.Success {
		s.mu.Lock()
		user.knownThreads = append(user.knownThreads, result.NewThreadID)
		s.mu.Unlock()
		s.shareThread(result.NewThreadID)
	}
}

func (s *Simulator) createReply(ctx context.Context, user *simUser) {
	threadID, ok := s.pickKnownThread(user)
	if !ok {
		return
	}

	start := time.Now()

	var result models.SubmissionResult
	res, err := s.client.R().
		WithContext(ctx).
		SetBody(map[string]interface{}{
			"threadId": threadID,
			"content":  s.pickContent(),
			"userId":   user.author.UserID,
			"userName": user.author.Name,
		}).
		SetResult(&result).
		Post("/api/posts")

	failed := err != nil || res.IsError()
	s.stats.record(time.Since(start), failed)
	if failed {
		return
	}

	s.stats.mu.Lock()
	if result.Success {
		s.stats.RepliesCreated++
	} else {
		s.stats.FlaggedRejected++
	}
	s.stats.mu.Unlock()
}

func (s *Simulator) viewThread(ctx context.Context, user *simUser) {
	threadID, ok := s.pickKnownThread(user)
	if !ok {
		s.listThreads(ctx, user)
		return
	}

	start := time.Now()
	res, err := s.client.R().
		WithContext(ctx).
		Get("/api/threads/" + threadID)

	failed := err != nil || res.IsError()
	s.stats.record(time.Since(start), failed)
	if !failed {
		s.stats.mu.Lock()
		s.stats.ThreadViews++
		s.stats.mu.Unlock()
	}
}

// listThreads refreshes a user's known-thread pool from the index.
func (s *Simulator) listThreads(ctx context.Context, user *simUser) {
	start := time.Now()

	var threads []models.Thread
	res, err := s.client.R().
		WithContext(ctx).
		SetResult(&threads).
		Get("/api/threads")

	failed := err != nil || res.IsError()
	s.stats.record(time.Since(start), failed)
	if failed {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, thread := range threads {
		user.knownThreads = append(user.knownThreads, thread.ID)
	}
}

func (s *Simulator) searchThreads(ctx context.Context) {
	start := time.Now()

	terms := []string{"volunteer", "donation", "cleanup", "meetup"}
	s.mu.Lock()
	term := terms[s.rng.Intn(len(terms))]
	s.mu.Unlock()

	res, err := s.client.R().
		WithContext(ctx).
		SetQueryParam("q", term).
		SetQueryParam("type", "threads").
		Get("/api/search")

	failed := err != nil || res.IsError()
	s.stats.record(time.Since(start), failed)
	if !failed {
		s.stats.mu.Lock()
		s.stats.Searches++
		s.stats.mu.Unlock()
	}
}
