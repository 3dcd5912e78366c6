package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordCheckerFlagsDisallowedContent(t *testing.T) {
	checker := NewKeywordChecker()

	verdict, err := checker.Check(context.Background(), "this is offensive material")
	assert.NoError(t, err)
	assert.False(t, verdict.IsAppropriate)
	assert.Equal(t, FlaggedScore, verdict.Score)
	assert.NotEmpty(t, verdict.Reason)
}

func TestKeywordCheckerAcceptsCleanContent(t *testing.T) {
	checker := NewKeywordChecker()

	verdict, err := checker.Check(context.Background(), "Looking for volunteers to help with flood relief in Jakarta")
	assert.NoError(t, err)
	assert.True(t, verdict.IsAppropriate)
	assert.Equal(t, CleanScore, verdict.Score)
	assert.Empty(t, verdict.Reason)
}

func TestKeywordCheckerIsCaseInsensitive(t *testing.T) {
	checker := NewKeywordChecker()

	verdict, err := checker.Check(context.Background(), "Beware of this SCAM going around")
	assert.NoError(t, err)
	assert.False(t, verdict.IsAppropriate)
}

func TestKeywordCheckerMatchesSubstrings(t *testing.T) {
	checker := NewKeywordChecker()

	// "spam" embedded inside a longer word still trips the filter.
	verdict, err := checker.Check(context.Background(), "my inbox is full of spammy messages")
	assert.NoError(t, err)
	assert.False(t, verdict.IsAppropriate)
}

func TestKeywordCheckerCustomList(t *testing.T) {
	checker := NewKeywordCheckerWithList([]string{"forbidden"})

	verdict, err := checker.Check(context.Background(), "this is offensive material")
	assert.NoError(t, err)
	assert.True(t, verdict.IsAppropriate, "default keywords should not apply to a custom list")

	verdict, err = checker.Check(context.Background(), "a forbidden topic")
	assert.NoError(t, err)
	assert.False(t, verdict.IsAppropriate)
}

func TestKeywordCheckerEmptyContent(t *testing.T) {
	checker := NewKeywordChecker()

	verdict, err := checker.Check(context.Background(), "")
	assert.NoError(t, err)
	assert.True(t, verdict.IsAppropriate)
}
