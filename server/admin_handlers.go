package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// IsEnabledHandler reports whether 2FA is enabled for a user.
func (s *Server) IsEnabledHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		if userID == "" {
			respondError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		enabled, err := s.adminService.IsEnabled(r.Context(), userID)
		if err != nil {
			log.Error().Err(err).Str("userId", userID).Msg("2FA enabled check failed")
			respondError(w, http.StatusInternalServerError, "Failed to check if 2FA is enabled for user")
			return
		}

		respond(w, http.StatusOK, enabled)
	}
}

// ResetHandler forcibly clears a user's active and pending MFA state.
func (s *Server) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		if userID == "" {
			respondError(w, http.StatusBadRequest, "User ID is required")
			return
		}

		if err := s.adminService.Reset(r.Context(), userID); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to reset 2FA for user")
			return
		}

		respond(w, http.StatusOK, true)
	}
}
