package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stepupauth/go-mfa-server/mfa"
)

// GetConfigHandler returns the materialized global configuration.
func (s *Server) GetConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.configService.GetConfig(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("2FA configuration read failed")
			respondError(w, http.StatusInternalServerError, "Failed to load 2FA configuration")
			return
		}

		respond(w, http.StatusOK, cfg)
	}
}

// UpdateConfigHandler applies a partial configuration update and returns the
// post-merge value.
func (s *Server) UpdateConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch mfa.ConfigPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		cfg, err := s.configService.UpdateConfig(r.Context(), patch)
		if err != nil {
			log.Error().Err(err).Msg("2FA configuration update failed")
			respondError(w, http.StatusInternalServerError, "Failed to update 2FA configuration")
			return
		}

		respond(w, http.StatusOK, cfg)
	}
}
