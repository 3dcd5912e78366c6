package handlers

import (
	"net/http"
	"time"

	"relawan-hub/internal/models"
	"relawan-hub/internal/utils"
)

// SessionRequest exchanges an author identity for a signed session token.
type SessionRequest struct {
	UserID    string `json:"userId" validate:"required"`
	Name      string `json:"name" validate:"required"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// HandleHealth reports service status along with basic forum counts.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threadCount, err := s.Store.CountThreads(r.Context())
		if err != nil {
			http.Error(w, "Failed to get thread count", http.StatusInternalServerError)
			return
		}

		postCount, err := s.Store.CountPosts(r.Context())
		if err != nil {
			http.Error(w, "Failed to get post count", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":       "healthy",
			"thread_count": threadCount,
			"post_count":   postCount,
			"server_time":  time.Now(),
		})
	}
}

// HandleStats returns forum totals for the dashboard.
func (s *Server) HandleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("stats")

		totalThreads, err := s.Store.CountThreads(r.Context())
		if err != nil {
			s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch stats", err))
			return
		}

		totalPosts, err := s.Store.CountPosts(r.Context())
		if err != nil {
			s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch stats", err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]int64{
			"totalThreads": totalThreads,
			"totalPosts":   totalPosts,
		})
	}
}

// HandleCreateSession issues a session token for the given identity.
func (s *Server) HandleCreateSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("create_session")

		var req SessionRequest
		errorFields, err := s.decodeAndValidate(r, &req)
		if err != nil {
			if errorFields != nil {
				writeJSON(w, http.StatusBadRequest, &models.SubmissionResult{
					Success:     false,
					Message:     "Validation failed. Please check the fields.",
					ErrorFields: errorFields,
				})
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		token, err := s.Sessions.GenerateToken(models.AuthorInfo{
			UserID:    req.UserID,
			Name:      req.Name,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			http.Error(w, "Failed to generate session token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}
