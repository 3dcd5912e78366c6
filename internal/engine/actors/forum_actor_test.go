package actors

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"relawan-hub/internal/events"
	"relawan-hub/internal/models"
	"relawan-hub/internal/moderation"
	"relawan-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for exercising the workflow without a
// database.
type fakeStore struct {
	mu      sync.Mutex
	threads map[string]*models.Thread
	posts   map[string]*models.Post

	savePostErr   error
	saveThreadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		threads: make(map[string]*models.Thread),
		posts:   make(map[string]*models.Post),
	}
}

func (f *fakeStore) SaveThread(_ context.Context, thread *models.Thread) error {
	if f.saveThreadErr != nil {
		return f.saveThreadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *thread
	f.threads[thread.ID] = &copied
	return nil
}

func (f *fakeStore) SavePost(_ context.Context, post *models.Post) error {
	if f.savePostErr != nil {
		return f.savePostErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakeStore) GetThread(_ context.Context, id string) (*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	thread, ok := f.threads[id]
	if !ok {
		return nil, utils.NewThreadNotFoundError(id)
	}
	copied := *thread
	return &copied, nil
}

func (f *fakeStore) BumpThreadActivity(_ context.Context, threadID string, lastActivity time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	thread, ok := f.threads[threadID]
	if !ok {
		return utils.NewThreadNotFoundError(threadID)
	}
	thread.LastActivity = lastActivity
	thread.ReplyCount++
	return nil
}

func (f *fakeStore) DeleteThread(_ context.Context, threadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.threads[threadID]; !ok {
		return utils.NewThreadNotFoundError(threadID)
	}
	delete(f.threads, threadID)
	for id, post := range f.posts {
		if post.ThreadID == threadID {
			delete(f.posts, id)
		}
	}
	return nil
}

// failingChecker simulates a moderation service outage.
type failingChecker struct{}

func (failingChecker) Check(context.Context, string) (*models.ModerationResult, error) {
	return nil, errors.New("moderation service unavailable")
}

func spawnForumActor(t *testing.T, store Store, checker moderation.Checker, failOpen bool) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewForumActor(store, checker, failOpen, events.NoopPublisher{}, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)
	return system, pid
}

func submit(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func TestCreateThreadPersistsThreadAndOpeningPost(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	author := models.AuthorInfo{UserID: "u1", Name: "Ann"}
	result := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Hello",
		Content: "World",
		Author:  author,
	})

	submission, ok := result.(*models.SubmissionResult)
	require.True(t, ok, "expected SubmissionResult, got %T", result)
	assert.True(t, submission.Success)
	assert.NotEmpty(t, submission.NewThreadID)
	require.NotNil(t, submission.Thread)
	require.NotNil(t, submission.Post)

	thread := store.threads[submission.NewThreadID]
	require.NotNil(t, thread)
	assert.Equal(t, "Hello", thread.Title)
	assert.Equal(t, author, thread.Author)
	assert.Equal(t, 0, thread.ReplyCount)
	assert.Equal(t, 0, thread.ViewCount)
	assert.Equal(t, thread.CreatedAt, thread.LastActivity)

	post := store.posts[thread.OriginalPostID]
	require.NotNil(t, post, "opening post must exist under originalPostId")
	assert.Equal(t, thread.ID, post.ThreadID)
	assert.Equal(t, "World", post.Content)
	assert.Equal(t, "World", thread.OriginalPostContent)
	require.NotNil(t, submission.Moderation)
	assert.True(t, submission.Moderation.IsAppropriate)
}

func TestCreateThreadTruncatesOpeningContentSnippet(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	longContent := strings.Repeat("a", 250)
	result := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Long one",
		Content: longContent,
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	})

	submission := result.(*models.SubmissionResult)
	require.True(t, submission.Success)

	thread := store.threads[submission.NewThreadID]
	assert.Len(t, thread.OriginalPostContent, 200)

	// The full content is preserved on the post itself.
	post := store.posts[thread.OriginalPostID]
	assert.Len(t, post.Content, 250)
}

func TestCreateThreadRejectedByModeration(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	result := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Rant",
		Content: "this is offensive material",
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	})

	submission := result.(*models.SubmissionResult)
	assert.False(t, submission.Success)
	assert.Contains(t, submission.Message, "flagged")
	assert.Empty(t, submission.NewThreadID)

	// Nothing is persisted on rejection.
	assert.Empty(t, store.threads)
	assert.Empty(t, store.posts)
}

func TestCreateThreadFailOpenApprovesOnCheckerError(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, failingChecker{}, true)

	result := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Hello",
		Content: "World",
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	})

	submission := result.(*models.SubmissionResult)
	assert.True(t, submission.Success)
	require.NotNil(t, submission.Moderation)
	assert.True(t, submission.Moderation.IsAppropriate)
	assert.NotEmpty(t, submission.Moderation.Reason)
	assert.Len(t, store.threads, 1)
}

func TestCheckerOutageCountedSeparatelyFromRejections(t *testing.T) {
	store := newFakeStore()
	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewForumActor(store, failingChecker{}, true, events.NoopPublisher{}, metrics)
	})
	pid := system.Root.Spawn(props)

	result := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Hello",
		Content: "World",
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	})
	require.True(t, result.(*models.SubmissionResult).Success)

	assert.Equal(t, 1.0, errorCount(t, metrics, utils.ErrModerationFailure))
	assert.Equal(t, 0.0, errorCount(t, metrics, utils.ErrContentRejected))
}

func errorCount(t *testing.T, metrics *utils.MetricsCollector, code string) float64 {
	t.Helper()
	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "relawanhub_errors_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "code" && label.GetValue() == code {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestCreateThreadFailClosedRejectsOnCheckerError(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, failingChecker{}, false)

	result := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Hello",
		Content: "World",
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	})

	submission := result.(*models.SubmissionResult)
	assert.False(t, submission.Success)
	assert.Empty(t, store.threads)
	assert.Empty(t, store.posts)
}

func TestCreateReplyBumpsThreadActivity(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	created := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Hello",
		Content: "World",
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	}).(*models.SubmissionResult)
	require.True(t, created.Success)
	threadID := created.NewThreadID

	before := store.threads[threadID].LastActivity

	result := submit(t, system, pid, &CreateReplyMsg{
		ThreadID: threadID,
		Content:  "Count me in, happy to help",
		Author:   models.AuthorInfo{UserID: "u2", Name: "Budi"},
	})

	submission := result.(*models.SubmissionResult)
	assert.True(t, submission.Success)
	require.NotNil(t, submission.Post)
	assert.Equal(t, threadID, submission.Post.ThreadID)

	thread := store.threads[threadID]
	assert.Equal(t, 1, thread.ReplyCount)
	assert.False(t, thread.LastActivity.Before(before))
}

func TestCreateReplyToMissingThreadStillPersistsPost(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	result := submit(t, system, pid, &CreateReplyMsg{
		ThreadID: "no-such-thread",
		Content:  "Replying into the void here",
		Author:   models.AuthorInfo{UserID: "u2", Name: "Budi"},
	})

	submission := result.(*models.SubmissionResult)
	assert.True(t, submission.Success, "missing parent thread is logged, not fatal")
	assert.Len(t, store.posts, 1)
}

func TestCreateReplyToLockedThread(t *testing.T) {
	store := newFakeStore()
	store.threads["t1"] = &models.Thread{ID: "t1", Title: "Archived", IsLocked: true}
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	result := submit(t, system, pid, &CreateReplyMsg{
		ThreadID: "t1",
		Content:  "Can I still join this one?",
		Author:   models.AuthorInfo{UserID: "u2", Name: "Budi"},
	})

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected AppError, got %T", result)
	assert.Equal(t, utils.ErrThreadLocked, appErr.Code)
	assert.Empty(t, store.posts)
}

func TestCreateReplyRejectedByModeration(t *testing.T) {
	store := newFakeStore()
	store.threads["t1"] = &models.Thread{ID: "t1", Title: "Hello"}
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	result := submit(t, system, pid, &CreateReplyMsg{
		ThreadID: "t1",
		Content:  "pure spam content right here",
		Author:   models.AuthorInfo{UserID: "u2", Name: "Budi"},
	})

	submission := result.(*models.SubmissionResult)
	assert.False(t, submission.Success)
	assert.Empty(t, store.posts)
	assert.Equal(t, 0, store.threads["t1"].ReplyCount)
}

func TestDeleteThread(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	created := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Hello",
		Content: "World",
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	}).(*models.SubmissionResult)
	require.True(t, created.Success)

	result := submit(t, system, pid, &DeleteThreadMsg{ThreadID: created.NewThreadID})
	submission := result.(*models.SubmissionResult)
	assert.True(t, submission.Success)
	assert.Empty(t, store.threads)
	assert.Empty(t, store.posts, "opening post is removed with its thread")
}

func TestDeleteMissingThread(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	result := submit(t, system, pid, &DeleteThreadMsg{ThreadID: "no-such-thread"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected AppError, got %T", result)
	assert.Equal(t, utils.ErrThreadNotFound, appErr.Code)
}

func TestCreateThreadStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.savePostErr = errors.New("connection reset")
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	result := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Hello",
		Content: "World",
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	})

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected AppError, got %T", result)
	assert.Equal(t, utils.ErrDatabase, appErr.Code)
	assert.Empty(t, store.threads, "thread is not written when the opening post fails")
}

func TestSanitizerStripsMarkup(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnForumActor(t, store, moderation.NewKeywordChecker(), true)

	result := submit(t, system, pid, &CreateThreadMsg{
		Title:   "Hello",
		Content: `Hi <script>alert("x")</script>there`,
		Author:  models.AuthorInfo{UserID: "u1", Name: "Ann"},
	})

	submission := result.(*models.SubmissionResult)
	require.True(t, submission.Success)
	assert.NotContains(t, submission.Post.Content, "<script>")
}
