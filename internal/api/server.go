// Package api exposes the settlement core over a JSON HTTP surface. The
// handlers hold no state of their own: everything goes through the
// RentService controller and the session gate.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/rentmate/internal/middleware"
	"github.com/mmynk/rentmate/internal/roster"
	"github.com/mmynk/rentmate/internal/service"
	"github.com/mmynk/rentmate/internal/session"
)

// Server routes API requests to the settlement core.
type Server struct {
	svc  *service.RentService
	gate *session.Gate
	mux  *http.ServeMux
}

// NewServer builds the route table. Everything past the session gate
// requires a valid Bearer session token.
func NewServer(svc *service.RentService, gate *session.Gate, tokens *session.TokenManager) *Server {
	s := &Server{svc: svc, gate: gate, mux: http.NewServeMux()}
	auth := middleware.RequireAuth(tokens)

	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /api/session", s.handleSessionState)
	s.mux.HandleFunc("POST /api/session/start", s.handleSessionStart)
	s.mux.HandleFunc("POST /api/session/verify", s.handleSessionVerify)
	s.mux.HandleFunc("POST /api/session/restart", s.handleSessionRestart)

	protect := func(pattern string, h http.HandlerFunc) {
		s.mux.Handle(pattern, auth(h))
	}
	protect("POST /api/session/complete", s.handleSessionComplete)
	protect("POST /api/room", s.handleSetRoom)
	protect("GET /api/summary", s.handleSummary)
	protect("POST /api/roommates", s.handleAddRoommate)
	protect("DELETE /api/roommates/{id}", s.handleRemoveRoommate)
	protect("POST /api/bills", s.handleRecordBill)
	protect("POST /api/months/close", s.handleCloseMonth)
	protect("GET /api/months", s.handleListMonths)
	protect("GET /api/export/message", s.handleExportMessage)
	protect("GET /api/export/sms", s.handleExportSMS)
	protect("GET /api/export/vcard/{id}", s.handleExportVCard)
	protect("GET /api/export/document", s.handleExportDocument)
	protect("POST /api/clear", s.handleClearAll)

	return s
}

// Handler returns the routed handler, without outer middleware.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps core sentinel errors to HTTP statuses. Validation
// rejections are expected user-input states: 4xx, never 5xx.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, roster.ErrUnknownRoommate):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidCode),
		errors.Is(err, session.ErrNoPendingCode):
		status = http.StatusUnauthorized
	case errors.Is(err, session.ErrWrongStep):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decode parses the JSON request body into v.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
