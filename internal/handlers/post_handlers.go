package handlers

import (
	"net/http"
	"time"

	"relawan-hub/internal/engine/actors"
	"relawan-hub/internal/models"
	"relawan-hub/internal/utils"

	"github.com/gorilla/mux"
)

// NewReplyRequest is a reply submission. Unlike threads, reply content has
// explicit length bounds.
type NewReplyRequest struct {
	ThreadID      string              `json:"threadId" validate:"required"`
	Content       string              `json:"content" validate:"required,min=5,max=5000"`
	UserID        string              `json:"userId" validate:"required"`
	UserName      string              `json:"userName" validate:"required"`
	UserAvatarURL string              `json:"userAvatarUrl" validate:"omitempty,url"`
	Attachments   []models.Attachment `json:"attachments"`
}

// PatchPostRequest adjusts post counters or edits content. Likes and
// reports are deltas applied atomically, not absolute values.
type PatchPostRequest struct {
	Likes   *int   `json:"likes"`
	Reports *int   `json:"reports"`
	Content string `json:"content"`
}

// HandleListPosts returns posts for a thread (oldest first) or for a user
// (newest first).
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("list_posts")

		threadID := r.URL.Query().Get("threadId")
		userID := r.URL.Query().Get("userId")

		switch {
		case threadID != "":
			posts, err := s.Store.GetThreadPosts(r.Context(), threadID)
			if err != nil {
				s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch posts", err))
				return
			}
			writeJSON(w, http.StatusOK, posts)

		case userID != "":
			posts, err := s.Store.GetUserPosts(r.Context(), userID)
			if err != nil {
				s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch posts", err))
				return
			}
			writeJSON(w, http.StatusOK, posts)

		default:
			http.Error(w, "Either threadId or userId is required", http.StatusBadRequest)
		}
	}
}

// HandleGetPost returns a single post by ID.
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("get_post")
		postID := mux.Vars(r)["postId"]

		post, err := s.Store.GetPost(r.Context(), postID)
		if err != nil {
			if appErr, ok := err.(*utils.AppError); ok {
				s.writeAppError(w, appErr)
			} else {
				s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch post", err))
			}
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

// HandleCreateReply runs the submission workflow for a reply.
func (s *Server) HandleCreateReply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("create_reply")

		var req NewReplyRequest
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

		future := s.Context.RequestFuture(s.Engine.GetForumActor(), &actors.CreateReplyMsg{
			ThreadID: req.ThreadID,
			Content:  req.Content,
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

// HandlePatchPost applies like/report deltas and content edits.
func (s *Server) HandlePatchPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("patch_post")
		postID := mux.Vars(r)["postId"]

		var req PatchPostRequest
		if _, err := s.decodeAndValidate(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Likes != nil || req.Reports != nil {
			likes, reports := 0, 0
			if req.Likes != nil {
				likes = *req.Likes
			}
			if req.Reports != nil {
				reports = *req.Reports
			}
			if err := s.Store.IncrementPostCounters(r.Context(), postID, likes, reports); err != nil {
				if appErr, ok := err.(*utils.AppError); ok {
					s.writeAppError(w, appErr)
				} else {
					s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to update post", err))
				}
				return
			}
		}

		if req.Content != "" {
			if err := s.Store.UpdatePostContent(r.Context(), postID, req.Content, time.Now().UTC()); err != nil {
				if appErr, ok := err.(*utils.AppError); ok {
					s.writeAppError(w, appErr)
				} else {
					s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to update post", err))
				}
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Post updated successfully"})
	}
}

// HandleDeletePost removes a single post.
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("delete_post")
		postID := mux.Vars(r)["postId"]

		if err := s.Store.DeletePost(r.Context(), postID); err != nil {
			if appErr, ok := err.(*utils.AppError); ok {
				s.writeAppError(w, appErr)
			} else {
				s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to delete post", err))
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
	}
}

// HandleUserPosts returns all posts authored by a user, newest first.
func (s *Server) HandleUserPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("user_posts")
		userID := mux.Vars(r)["userId"]

		posts, err := s.Store.GetUserPosts(r.Context(), userID)
		if err != nil {
			s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch user posts", err))
			return
		}

		writeJSON(w, http.StatusOK, posts)
	}
}
