package server

import (
	"encoding/json"
	"net/http"
)

// envelope is the wire shape of every response: {data, error}. Error is a
// short human-readable string, never internal detail.
type envelope struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data, Error: nil})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: nil, Error: &message})
}
