package actors

import (
	"context"
	"fmt"
	"log"
	"time"

	"relawan-hub/internal/events"
	"relawan-hub/internal/models"
	"relawan-hub/internal/moderation"
	"relawan-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Message types for submission workflow operations
type (
	CreateThreadMsg struct {
		Title       string
		Content     string
		Author      models.AuthorInfo
		Attachments []models.Attachment
	}

	CreateReplyMsg struct {
		ThreadID    string
		Content     string
		Author      models.AuthorInfo
		Attachments []models.Attachment
	}

	DeleteThreadMsg struct {
		ThreadID string
	}
)

// Store is the persistence surface the workflow needs. *database.MongoDB
// satisfies it; tests substitute a fake.
type Store interface {
	SaveThread(ctx context.Context, thread *models.Thread) error
	SavePost(ctx context.Context, post *models.Post) error
	GetThread(ctx context.Context, id string) (*models.Thread, error)
	BumpThreadActivity(ctx context.Context, threadID string, lastActivity time.Time) error
	DeleteThread(ctx context.Context, threadID string) error
}

const (
	// snippetLength caps originalPostContent for thread list display.
	snippetLength = 200

	storeTimeout = 5 * time.Second
)

// ForumActor runs the submission workflow: sanitize, moderate, persist,
// signal. Validation happens at the handler boundary before a message
// reaches this actor, so by the time a message arrives its fields are
// structurally sound.
type ForumActor struct {
	store     Store
	checker   moderation.Checker
	failOpen  bool
	publisher events.Publisher
	metrics   *utils.MetricsCollector
	sanitizer *bluemonday.Policy
}

// NewForumActor creates the workflow actor. failOpen controls what happens
// when the moderation checker itself fails: approve with a note (the
// original policy) or reject.
func NewForumActor(store Store, checker moderation.Checker, failOpen bool, publisher events.Publisher, metrics *utils.MetricsCollector) actor.Actor {
	return &ForumActor{
		store:     store,
		checker:   checker,
		failOpen:  failOpen,
		publisher: publisher,
		metrics:   metrics,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Receive handles incoming messages
func (a *ForumActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ForumActor started")
	case *actor.Stopping:
		log.Printf("ForumActor stopping")
	case *actor.Stopped:
		log.Printf("ForumActor stopped")
	case *CreateThreadMsg:
		a.handleCreateThread(context, msg)
	case *CreateReplyMsg:
		a.handleCreateReply(context, msg)
	case *DeleteThreadMsg:
		a.handleDeleteThread(context, msg)
	default:
		log.Printf("ForumActor: Unknown message type: %T", msg)
	}
}

func (a *ForumActor) handleCreateThread(actorCtx actor.Context, msg *CreateThreadMsg) {
	startTime := time.Now()

	content := a.sanitizer.Sanitize(msg.Content)

	verdict, rejected := a.moderate(content)
	if rejected != nil {
		actorCtx.Respond(rejected)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	now := time.Now().UTC()
	postID := uuid.New().String()
	threadID := uuid.New().String()

	post := &models.Post{
		ID:          postID,
		ThreadID:    threadID,
		Author:      msg.Author,
		Content:     content,
		Timestamp:   now,
		Likes:       0,
		Reports:     0,
		Attachments: msg.Attachments,
	}

	thread := &models.Thread{
		ID:                  threadID,
		Title:               msg.Title,
		Author:              msg.Author,
		OriginalPostContent: truncateRunes(content, snippetLength),
		OriginalPostID:      postID,
		CreatedAt:           now,
		LastActivity:        now,
		ReplyCount:          0,
		ViewCount:           0,
	}

	// Post first, then thread: originalPostId must never point at a post
	// that was not written. The pair is not atomic; see DeleteThread for
	// the cascade that cleans up half-written threads.
	if err := a.store.SavePost(ctx, post); err != nil {
		a.metrics.IncrementErrors(utils.ErrDatabase)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save post", err))
		return
	}
	if err := a.store.SaveThread(ctx, thread); err != nil {
		a.metrics.IncrementErrors(utils.ErrDatabase)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save thread", err))
		return
	}

	log.Printf("ForumActor: Created thread %s with opening post %s", threadID, postID)

	a.publisher.ForumStale()
	a.publisher.ThreadStale(threadID)

	a.metrics.AddOperationLatency("create_thread", time.Since(startTime))
	actorCtx.Respond(&models.SubmissionResult{
		Success:     true,
		Message:     "Thread submitted successfully!",
		NewThreadID: threadID,
		Thread:      thread,
		Post:        post,
		Moderation:  verdict,
	})
}

func (a *ForumActor) handleCreateReply(actorCtx actor.Context, msg *CreateReplyMsg) {
	startTime := time.Now()

	content := a.sanitizer.Sanitize(msg.Content)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	// Locked threads reject replies. A missing thread does not: the post
	// is still written and the aggregate update skipped further down.
	if thread, err := a.store.GetThread(ctx, msg.ThreadID); err == nil && thread.IsLocked {
		actorCtx.Respond(utils.NewAppError(utils.ErrThreadLocked, "Thread is locked", nil))
		return
	}

	verdict, rejected := a.moderate(content)
	if rejected != nil {
		actorCtx.Respond(rejected)
		return
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:          uuid.New().String(),
		ThreadID:    msg.ThreadID,
		Author:      msg.Author,
		Content:     content,
		Timestamp:   now,
		Likes:       0,
		Reports:     0,
		Attachments: msg.Attachments,
	}

	if err := a.store.SavePost(ctx, post); err != nil {
		a.metrics.IncrementErrors(utils.ErrDatabase)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save reply", err))
		return
	}

	if err := a.store.BumpThreadActivity(ctx, msg.ThreadID, now); err != nil {
		if utils.IsErrorCode(err, utils.ErrThreadNotFound) {
			log.Printf("ForumActor: Thread %s not found for reply count update", msg.ThreadID)
		} else {
			a.metrics.IncrementErrors(utils.ErrDatabase)
			actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update thread activity", err))
			return
		}
	}

	log.Printf("ForumActor: Created reply %s in thread %s", post.ID, msg.ThreadID)

	a.publisher.ThreadStale(msg.ThreadID)
	a.publisher.ForumStale()

	a.metrics.AddOperationLatency("create_reply", time.Since(startTime))
	actorCtx.Respond(&models.SubmissionResult{
		Success:    true,
		Message:    "Reply submitted successfully!",
		Post:       post,
		Moderation: verdict,
	})
}

func (a *ForumActor) handleDeleteThread(actorCtx actor.Context, msg *DeleteThreadMsg) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := a.store.DeleteThread(ctx, msg.ThreadID); err != nil {
		if utils.IsErrorCode(err, utils.ErrThreadNotFound) {
			actorCtx.Respond(err)
			return
		}
		a.metrics.IncrementErrors(utils.ErrDatabase)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete thread", err))
		return
	}

	a.publisher.ThreadStale(msg.ThreadID)
	a.publisher.ForumStale()

	a.metrics.AddOperationLatency("delete_thread", time.Since(startTime))
	actorCtx.Respond(&models.SubmissionResult{
		Success: true,
		Message: "Thread deleted successfully!",
	})
}

// moderate runs the checker and applies the fail-open policy. It returns
// the verdict to attach to a successful result, or a rejection result the
// caller should respond with directly.
func (a *ForumActor) moderate(content string) (*models.ModerationResult, *models.SubmissionResult) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	verdict, err := a.checker.Check(ctx, content)
	if err != nil {
		log.Printf("ForumActor: Moderation check failed: %v", err)
		a.metrics.IncrementErrors(utils.ErrModerationFailure)

		if a.failOpen {
			return &models.ModerationResult{
				IsAppropriate: true,
				Reason:        "Moderation service error, content approved by policy",
			}, nil
		}
		return nil, &models.SubmissionResult{
			Success: false,
			Message: "Content could not be verified. Please try again later.",
		}
	}

	if !verdict.IsAppropriate {
		reason := verdict.Reason
		if reason == "" {
			reason = "Please review community guidelines."
		}
		return nil, &models.SubmissionResult{
			Success:    false,
			Message:    fmt.Sprintf("Your content was flagged. Reason: %s", reason),
			Moderation: verdict,
		}
	}

	return verdict, nil
}

// truncateRunes returns the first n characters of s. Rune-based so a
// multi-byte character is never split mid-sequence.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
