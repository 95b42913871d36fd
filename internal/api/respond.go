// Package api exposes the two services over HTTP. Handlers are thin: they
// pull identifiers off the route, call an orchestrator, and write the
// resulting envelope. The outcome-kind to HTTP-code mapping lives here and
// only here; the orchestrators know nothing about HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/chorusproject/chorus/internal/status"
)

// response is the wire envelope. Path echoes the request the same way the
// responses always have ("PUT /likeSong/alice/42").
type response struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func httpCode(kind status.Kind) int {
	switch kind {
	case status.OK:
		return http.StatusOK
	case status.NotFound:
		return http.StatusNotFound
	case status.MissingParameter:
		return http.StatusBadRequest
	case status.AlreadyExists, status.Conflict:
		return http.StatusConflict
	default: // Unavailable, PartialFailure
		return http.StatusBadGateway
	}
}

// writeStatus writes the envelope for st with its mapped HTTP code.
func writeStatus(w http.ResponseWriter, r *http.Request, st status.Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode(st.Kind))
	_ = json.NewEncoder(w).Encode(response{
		Path:    r.Method + " " + r.URL.Path,
		Status:  string(st.Kind),
		Message: st.Message,
		Data:    st.Data,
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"OK"}`))
}
