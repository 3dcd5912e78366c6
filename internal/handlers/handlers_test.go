package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"relawan-hub/internal/database"
	"relawan-hub/internal/engine"
	"relawan-hub/internal/events"
	"relawan-hub/internal/middleware"
	"relawan-hub/internal/models"
	"relawan-hub/internal/moderation"
	"relawan-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/gorilla/mux"
)

// workflowStore is an in-memory stand-in for the thread, post and volunteer
// collections, implementing both the workflow's store and the handlers'
// read/mutate surface.
type workflowStore struct {
	mu         sync.Mutex
	threads    map[string]*models.Thread
	posts      map[string]*models.Post
	volunteers map[string]*models.Volunteer
}

func newWorkflowStore() *workflowStore {
	return &workflowStore{
		threads:    make(map[string]*models.Thread),
		posts:      make(map[string]*models.Post),
		volunteers: make(map[string]*models.Volunteer),
	}
}

func (f *workflowStore) SaveThread(_ context.Context, thread *models.Thread) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *thread
	f.threads[thread.ID] = &copied
	return nil
}

func (f *workflowStore) SavePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *workflowStore) GetThread(_ context.Context, id string) (*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	thread, ok := f.threads[id]
	if !ok {
		return nil, utils.NewThreadNotFoundError(id)
	}
	copied := *thread
	return &copied, nil
}

func (f *workflowStore) BumpThreadActivity(_ context.Context, threadID string, lastActivity time.Time) error {
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

func (f *workflowStore) DeleteThread(_ context.Context, threadID string) error {
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

func (f *workflowStore) GetAllThreads(_ context.Context) ([]*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	threads := make([]*models.Thread, 0, len(f.threads))
	for _, thread := range f.threads {
		copied := *thread
		threads = append(threads, &copied)
	}
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].LastActivity.After(threads[j].LastActivity)
	})
	return threads, nil
}

func (f *workflowStore) GetThreadPosts(_ context.Context, threadID string) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := make([]*models.Post, 0)
	for _, post := range f.posts {
		if post.ThreadID == threadID {
			copied := *post
			posts = append(posts, &copied)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Timestamp.Before(posts[j].Timestamp)
	})
	return posts, nil
}

func (f *workflowStore) IncrementThreadViews(_ context.Context, threadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	thread, ok := f.threads[threadID]
	if !ok {
		return utils.NewThreadNotFoundError(threadID)
	}
	thread.ViewCount++
	return nil
}

func (f *workflowStore) SearchThreads(_ context.Context, query string) ([]*models.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lowered := strings.ToLower(query)
	matches := make([]*models.Thread, 0)
	for _, thread := range f.threads {
		if strings.Contains(strings.ToLower(thread.Title), lowered) ||
			strings.Contains(strings.ToLower(thread.OriginalPostContent), lowered) {
			copied := *thread
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func (f *workflowStore) CountThreads(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.threads)), nil
}

func (f *workflowStore) GetPost(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, utils.NewPostNotFoundError(id)
	}
	copied := *post
	return &copied, nil
}

func (f *workflowStore) GetUserPosts(_ context.Context, userID string) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := make([]*models.Post, 0)
	for _, post := range f.posts {
		if post.Author.UserID == userID {
			copied := *post
			posts = append(posts, &copied)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
	return posts, nil
}

func (f *workflowStore) SearchPosts(_ context.Context, query string) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lowered := strings.ToLower(query)
	matches := make([]*models.Post, 0)
	for _, post := range f.posts {
		if strings.Contains(strings.ToLower(post.Content), lowered) {
			copied := *post
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func (f *workflowStore) IncrementPostCounters(_ context.Context, postID string, likesDelta, reportsDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return utils.NewPostNotFoundError(postID)
	}
	post.Likes += likesDelta
	post.Reports += reportsDelta
	return nil
}

func (f *workflowStore) UpdatePostContent(_ context.Context, postID, content string, editedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return utils.NewPostNotFoundError(postID)
	}
	post.Content = content
	post.EditedAt = &editedAt
	return nil
}

func (f *workflowStore) DeletePost(_ context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[postID]; !ok {
		return utils.NewPostNotFoundError(postID)
	}
	delete(f.posts, postID)
	return nil
}

func (f *workflowStore) CountPosts(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.posts)), nil
}

func (f *workflowStore) ListVolunteers(_ context.Context, filter database.VolunteerFilter) ([]*models.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := make([]*models.Volunteer, 0)
	for _, v := range f.volunteers {
		if filter.Province != "" && v.Province != filter.Province {
			continue
		}
		if filter.City != "" && v.City != filter.City {
			continue
		}
		copied := *v
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func (f *workflowStore) GetVolunteer(_ context.Context, id string) (*models.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.volunteers[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Volunteer not found: "+id, nil)
	}
	copied := *v
	return &copied, nil
}

// newTestServer wires a Server around an in-memory store and a router with
// the same middleware chain the real server uses.
func newTestServer(authRequired bool) (*Server, *workflowStore, *mux.Router) {
	store := newWorkflowStore()
	metrics := utils.NewMetricsCollector()
	checker := moderation.NewKeywordChecker()

	system := actor.NewActorSystem()
	forumEngine := engine.NewEngine(system, &engine.Dependencies{
		Store:     store,
		Checker:   checker,
		FailOpen:  true,
		Publisher: events.NoopPublisher{},
		Metrics:   metrics,
	})

	sessions := middleware.NewSessionManager("test-secret", authRequired)
	server := NewServer(system, forumEngine, metrics, store, checker, sessions)

	router := mux.NewRouter()
	router.Use(sessions.Middleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/threads", server.HandleListThreads()).Methods(http.MethodGet)
	api.HandleFunc("/threads", server.HandleCreateThread()).Methods(http.MethodPost)
	api.HandleFunc("/threads/{threadId}", server.HandleGetThread()).Methods(http.MethodGet)
	api.HandleFunc("/threads/{threadId}", server.HandleDeleteThread()).Methods(http.MethodDelete)
	api.HandleFunc("/posts", server.HandleCreateReply()).Methods(http.MethodPost)
	api.HandleFunc("/moderation", server.HandleModeration()).Methods(http.MethodPost)
	api.HandleFunc("/session", server.HandleCreateSession()).Methods(http.MethodPost)

	return server, store, router
}
