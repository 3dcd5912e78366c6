package handlers

import (
	"log"
	"net/http"

	"relawan-hub/internal/engine/actors"
	"relawan-hub/internal/models"
	"relawan-hub/internal/utils"

	"github.com/gorilla/mux"
)

// NewThreadRequest is a new-thread submission. Title presence is what
// distinguishes a thread from a reply; title and content lengths are
// unconstrained.
type NewThreadRequest struct {
	Title         string              `json:"title" validate:"required"`
	Content       string              `json:"content"`
	UserID        string              `json:"userId" validate:"required"`
	UserName      string              `json:"userName" validate:"required"`
	UserAvatarURL string              `json:"userAvatarUrl" validate:"omitempty,url"`
	Attachments   []models.Attachment `json:"attachments"`
}

// HandleListThreads returns all threads ordered by last activity.
func (s *Server) HandleListThreads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("list_threads")

		threads, err := s.Store.GetAllThreads(r.Context())
		if err != nil {
			s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch threads", err))
			return
		}

		writeJSON(w, http.StatusOK, threads)
	}
}

// HandleGetThread returns a thread with its posts. Fetching bumps the view
// counter; a refresh counts again.
func (s *Server) HandleGetThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("get_thread")
		threadID := mux.Vars(r)["threadId"]

		if err := s.Store.IncrementThreadViews(r.Context(), threadID); err != nil {
			// Non-fatal: the 404 surfaces from the fetch below.
			log.Printf("Failed to increment views for thread %s: %v", threadID, err)
		}

		thread, err := s.Store.GetThread(r.Context(), threadID)
		if err != nil {
			if appErr, ok := err.(*utils.AppError); ok {
				s.writeAppError(w, appErr)
			} else {
				s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch thread", err))
			}
			return
		}

		posts, err := s.Store.GetThreadPosts(r.Context(), threadID)
		if err != nil {
			s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch posts", err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"thread": thread,
			"posts":  posts,
		})
	}
}

// HandleCreateThread runs the submission workflow for a new thread.
func (s *Server) HandleCreateThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("create_thread")

		var req NewThreadRequest
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

		if !s.authorMatchesSession(r, req.UserID) {
			http.Error(w, "Session user does not match payload author", http.StatusForbidden)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetForumActor(), &actors.CreateThreadMsg{
			Title:   req.Title,
			Content: req.Content,
			Author: models.AuthorInfo{
				UserID:    req.UserID,
				Name:      req.UserName,
				AvatarURL: req.UserAvatarURL,
			},
			Attachments: req.Attachments,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			s.writeAppError(w, utils.NewActorTimeoutError("ForumActor"))
			return
		}

		s.respondWorkflowResult(w, result, http.StatusCreated)
	}
}

// HandleDeleteThread removes a thread and cascades to its posts.
func (s *Server) HandleDeleteThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("delete_thread")
		threadID := mux.Vars(r)["threadId"]

		future := s.Context.RequestFuture(s.Engine.GetForumActor(), &actors.DeleteThreadMsg{
			ThreadID: threadID,
		}, s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			s.writeAppError(w, utils.NewActorTimeoutError("ForumActor"))
			return
		}

		s.respondWorkflowResult(w, result, http.StatusOK)
	}
}
