package handlers

import (
	"context"
	"reflect"
	"strings"
	"time"

	"relawan-hub/internal/database"
	"relawan-hub/internal/engine"
	"relawan-hub/internal/middleware"
	"relawan-hub/internal/models"
	"relawan-hub/internal/moderation"
	"relawan-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-playground/validator/v10"
)

// Store is the persistence surface the handlers read and mutate directly,
// outside the submission workflow. *database.MongoDB satisfies it; tests
// substitute a fake.
type Store interface {
	GetAllThreads(ctx context.Context) ([]*models.Thread, error)
	GetThread(ctx context.Context, id string) (*models.Thread, error)
	GetThreadPosts(ctx context.Context, threadID string) ([]*models.Post, error)
	IncrementThreadViews(ctx context.Context, threadID string) error
	SearchThreads(ctx context.Context, query string) ([]*models.Thread, error)
	CountThreads(ctx context.Context) (int64, error)

	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetUserPosts(ctx context.Context, userID string) ([]*models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]*models.Post, error)
	IncrementPostCounters(ctx context.Context, postID string, likesDelta, reportsDelta int) error
	UpdatePostContent(ctx context.Context, postID, content string, editedAt time.Time) error
	DeletePost(ctx context.Context, postID string) error
	CountPosts(ctx context.Context) (int64, error)

	ListVolunteers(ctx context.Context, filter database.VolunteerFilter) ([]*models.Volunteer, error)
	GetVolunteer(ctx context.Context, id string) (*models.Volunteer, error)
}

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Store          Store
	Checker        moderation.Checker
	Sessions       *middleware.SessionManager
	RequestTimeout time.Duration

	validate *validator.Validate
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	forumEngine *engine.Engine,
	metrics *utils.MetricsCollector,
	store Store,
	checker moderation.Checker,
	sessions *middleware.SessionManager,
) *Server {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report validation errors under the json field name clients sent,
	// not the Go struct field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         forumEngine,
		Metrics:        metrics,
		Store:          store,
		Checker:        checker,
		Sessions:       sessions,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
		validate:       validate,
	}
}
