package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"relawan-hub/internal/config"
	"relawan-hub/internal/database"
	"relawan-hub/internal/engine"
	"relawan-hub/internal/events"
	"relawan-hub/internal/handlers"
	"relawan-hub/internal/middleware"
	"relawan-hub/internal/models"
	"relawan-hub/internal/moderation"
	"relawan-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize MongoDB connection
	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongodb.Close(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	// Initialize metrics
	metrics := utils.NewMetricsCollector()

	// Select the moderation checker
	var checker moderation.Checker
	switch cfg.Moderation.Provider {
	case "remote":
		remote := moderation.NewRemoteChecker(cfg.Moderation.RemoteURL)
		defer remote.Close()
		checker = remote
		log.Printf("Using remote moderation service at %s", cfg.Moderation.RemoteURL)
	default:
		checker = moderation.NewKeywordChecker()
		log.Printf("Using keyword moderation")
	}

	// Connect the stale-signal publisher, or run without one
	var publisher events.Publisher
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS at %s: %v", cfg.NATSURL, err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		log.Printf("Publishing stale events to NATS at %s", cfg.NATSURL)
	} else {
		publisher = events.NoopPublisher{}
	}

	// Seed the volunteer directory if a seed file is configured
	if cfg.VolunteerSeedFile != "" {
		if err := seedVolunteers(mongodb, cfg.VolunteerSeedFile); err != nil {
			log.Fatalf("Failed to seed volunteers from %s: %v", cfg.VolunteerSeedFile, err)
		}
	}

	// Initialize actor system and workflow engine
	system := actor.NewActorSystem()
	forumEngine := engine.NewEngine(system, &engine.Dependencies{
		Store:     mongodb,
		Checker:   checker,
		FailOpen:  cfg.Moderation.FailOpen,
		Publisher: publisher,
		Metrics:   metrics,
	})

	// Session tokens for write endpoints
	sessions := middleware.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.Required)
	if cfg.Auth.Required {
		log.Printf("Session tokens are required on write endpoints")
	}

	// Create server instance
	server := handlers.NewServer(system, forumEngine, metrics, mongodb, checker, sessions)

	// Set up routes
	router := mux.NewRouter()
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))
	router.Use(sessions.Middleware)

	router.HandleFunc("/health", server.HandleHealth()).Methods(http.MethodGet)
	if cfg.Server.MetricsEnabled {
		router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/threads", server.HandleListThreads()).Methods(http.MethodGet)
	api.HandleFunc("/threads", server.HandleCreateThread()).Methods(http.MethodPost)
	api.HandleFunc("/threads/{threadId}", server.HandleGetThread()).Methods(http.MethodGet)
	api.HandleFunc("/threads/{threadId}", server.HandleDeleteThread()).Methods(http.MethodDelete)

	api.HandleFunc("/posts", server.HandleListPosts()).Methods(http.MethodGet)
	api.HandleFunc("/posts", server.HandleCreateReply()).Methods(http.MethodPost)
	api.HandleFunc("/posts/{postId}", server.HandleGetPost()).Methods(http.MethodGet)
	api.HandleFunc("/posts/{postId}", server.HandlePatchPost()).Methods(http.MethodPatch)
	api.HandleFunc("/posts/{postId}", server.HandleDeletePost()).Methods(http.MethodDelete)
	api.HandleFunc("/users/{userId}/posts", server.HandleUserPosts()).Methods(http.MethodGet)

	api.HandleFunc("/search", server.HandleSearch()).Methods(http.MethodGet)
	api.HandleFunc("/moderation", server.HandleModeration()).Methods(http.MethodPost)
	api.HandleFunc("/forum/stats", server.HandleStats()).Methods(http.MethodGet)

	api.HandleFunc("/volunteers", server.HandleListVolunteers()).Methods(http.MethodGet)
	api.HandleFunc("/volunteers/{volunteerId}", server.HandleGetVolunteer()).Methods(http.MethodGet)

	api.HandleFunc("/session", server.HandleCreateSession()).Methods(http.MethodPost)

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// seedVolunteers loads directory entries from a JSON file and upserts them, so
// repeated startups do not duplicate entries.
func seedVolunteers(mongodb *database.MongoDB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var volunteers []models.Volunteer
	if err := json.Unmarshal(data, &volunteers); err != nil {
		return fmt.Errorf("invalid volunteer seed file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mongodb.SeedVolunteers(ctx, volunteers); err != nil {
		return err
	}

	log.Printf("Seeded %d volunteers from %s", len(volunteers), path)
	return nil
}
