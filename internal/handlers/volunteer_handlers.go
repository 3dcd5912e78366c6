package handlers

import (
	"net/http"

	"relawan-hub/internal/database"
	"relawan-hub/internal/utils"

	"github.com/gorilla/mux"
)

// HandleListVolunteers returns directory entries, optionally filtered by
// province, city and a free-text query.
func (s *Server) HandleListVolunteers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("list_volunteers")

		filter := database.VolunteerFilter{
			Province: r.URL.Query().Get("province"),
			City:     r.URL.Query().Get("city"),
			Query:    r.URL.Query().Get("q"),
		}

		volunteers, err := s.Store.ListVolunteers(r.Context(), filter)
		if err != nil {
			s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch volunteers", err))
			return
		}

		writeJSON(w, http.StatusOK, volunteers)
	}
}

// HandleGetVolunteer returns a single directory entry.
func (s *Server) HandleGetVolunteer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("get_volunteer")
		volunteerID := mux.Vars(r)["volunteerId"]

		volunteer, err := s.Store.GetVolunteer(r.Context(), volunteerID)
		if err != nil {
			if appErr, ok := err.(*utils.AppError); ok {
				s.writeAppError(w, appErr)
			} else {
				s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to fetch volunteer", err))
			}
			return
		}

		writeJSON(w, http.StatusOK, volunteer)
	}
}
