package handlers

import (
	"net/http"

	"relawan-hub/internal/utils"
)

// HandleSearch performs a case-insensitive substring search over threads
// (title and opening content) or posts (content).
func (s *Server) HandleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests("search")

		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, "Search query is required", http.StatusBadRequest)
			return
		}

		searchType := r.URL.Query().Get("type")
		if searchType == "" {
			searchType = "threads"
		}

		switch searchType {
		case "threads":
			threads, err := s.Store.SearchThreads(r.Context(), query)
			if err != nil {
				s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to search threads", err))
				return
			}
			writeJSON(w, http.StatusOK, threads)

		case "posts":
			posts, err := s.Store.SearchPosts(r.Context(), query)
			if err != nil {
				s.writeAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to search posts", err))
				return
			}
			writeJSON(w, http.StatusOK, posts)

		default:
			http.Error(w, "Invalid search type", http.StatusBadRequest)
		}
	}
}
