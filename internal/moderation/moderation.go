// Package moderation gates submitted forum content before it is persisted.
//
// A Checker returns a three-field verdict: whether the content is
// appropriate, an optional human-readable reason, and an optional risk
// score. Any text classifier can sit behind this contract; the default is
// a deterministic keyword filter.
package moderation

import (
	"context"
	"strings"

	"relawan-hub/internal/models"
)

// Checker decides whether submitted content is appropriate for the forum.
type Checker interface {
	Check(ctx context.Context, content string) (*models.ModerationResult, error)
}

const (
	// FlaggedScore is the fixed risk score attached to rejected content.
	FlaggedScore = 0.8
	// CleanScore is the fixed risk score attached to accepted content.
	CleanScore = 0.2

	flaggedReason = "Content contains inappropriate language that violates community guidelines."
)

// defaultDisallowed is the fixed set of disallowed substrings. Matching is
// case-insensitive substring containment over the whole content.
var defaultDisallowed = []string{
	"offensive",
	"hate speech",
	"harassment",
	"kasar",
	"penipuan",
	"judi online",
	"spam",
	"scam",
}

// KeywordChecker is the deterministic moderation variant: no classifier,
// no learned weights, just a disallowed-substring scan.
type KeywordChecker struct {
	disallowed []string
}

// NewKeywordChecker returns a checker over the default disallowed set.
func NewKeywordChecker() *KeywordChecker {
	return &KeywordChecker{disallowed: defaultDisallowed}
}

// NewKeywordCheckerWithList returns a checker over a custom disallowed set.
func NewKeywordCheckerWithList(disallowed []string) *KeywordChecker {
	return &KeywordChecker{disallowed: disallowed}
}

// Check scans the lower-cased content for disallowed substrings. It never
// returns an error.
func (c *KeywordChecker) Check(_ context.Context, content string) (*models.ModerationResult, error) {
	lowered := strings.ToLower(content)

	for _, word := range c.disallowed {
		if strings.Contains(lowered, word) {
			return &models.ModerationResult{
				IsAppropriate: false,
				Reason:        flaggedReason,
				Score:         FlaggedScore,
			}, nil
		}
	}

	return &models.ModerationResult{
		IsAppropriate: true,
		Score:         CleanScore,
	}, nil
}
