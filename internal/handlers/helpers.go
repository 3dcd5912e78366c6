package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"relawan-hub/internal/middleware"
	"relawan-hub/internal/models"
	"relawan-hub/internal/utils"

	"github.com/go-playground/validator/v10"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeAppError(w http.ResponseWriter, appErr *utils.AppError) {
	s.Metrics.IncrementErrors(appErr.Code)
	http.Error(w, appErr.Message, utils.AppErrorToHTTPStatus(appErr.Code))
}

// decodeAndValidate decodes a JSON body into req and validates it. On
// validation failure it returns a per-field error map keyed by the json
// field name.
func (s *Server) decodeAndValidate(r *http.Request, req interface{}) (map[string]string, error) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return nil, errors.New("invalid request format")
	}

	if err := s.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return nil, err
		}

		errorFields := make(map[string]string)
		for _, fieldErr := range validationErrs {
			errorFields[fieldErr.Field()] = fieldErrorMessage(fieldErr)
		}
		return errorFields, errors.New("validation failed")
	}

	return nil, nil
}

func fieldErrorMessage(fieldErr validator.FieldError) string {
	// Field() reports the json tag name via the registered tag name func.
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return field + " is required."
	case "min":
		return field + " must be at least " + fieldErr.Param() + " characters."
	case "max":
		return field + " must be " + fieldErr.Param() + " characters or less."
	case "url":
		return field + " must be a valid URL."
	default:
		return field + " is invalid."
	}
}

// authorMatchesSession rejects write payloads whose author id differs from
// the session token's subject. Only enforced when a session is present.
func (s *Server) authorMatchesSession(r *http.Request, userID string) bool {
	author, ok := middleware.GetAuthorFromContext(r.Context())
	if !ok {
		return true
	}
	return strings.EqualFold(author.UserID, userID)
}

// respondWorkflowResult converts an actor response into an HTTP response.
// successStatus is used for a successful submission; moderation rejections
// come back as a SubmissionResult with Success=false and are reported with
// 200, mirroring the uniform result shape of the workflow boundary.
func (s *Server) respondWorkflowResult(w http.ResponseWriter, result interface{}, successStatus int) {
	switch res := result.(type) {
	case *utils.AppError:
		s.writeAppError(w, res)
	case *models.SubmissionResult:
		if res.Success {
			writeJSON(w, successStatus, res)
		} else {
			s.Metrics.IncrementErrors(utils.ErrContentRejected)
			writeJSON(w, http.StatusOK, res)
		}
	default:
		http.Error(w, "Unexpected workflow response", http.StatusInternalServerError)
	}
}
