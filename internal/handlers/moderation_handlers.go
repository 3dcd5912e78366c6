package handlers

import (
	"net/http"

	"relawan-hub/internal/models"
	"relawan-hub/internal/utils"
)

// ModerationRequest asks for a verdict on a piece of content without
// submitting it.
type ModerationRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleModeration exposes the moderation check directly, for previewing a
// verdict before submission.
func (s *Server) HandleModeration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("moderation")

		var req ModerationRequest
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

		verdict, err := s.Checker.Check(r.Context(), req.Content)
		if err != nil {
			s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Error moderating content", err))
			return
		}

		writeJSON(w, http.StatusOK, verdict)
	}
}
