// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/reviewly/backend/internal/auth"
	"github.com/reviewly/backend/internal/service"
	"github.com/reviewly/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store    *store.SQLiteStore
	practice *service.PracticeService
	auth     *auth.Service
	logger   *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(s *store.SQLiteStore, practice *service.PracticeService, authSvc *auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		store:    s,
		practice: practice,
		auth:     authSvc,
		logger:   logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into v. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, entity+" not found", http.StatusNotFound)
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	http.Error(w, "internal error", http.StatusInternalServerError)
	return true
}

// sessionFrom resolves the bearer token, if any. Anonymous requests get
// a nil session.
func (h *Handler) sessionFrom(r *http.Request) *auth.Session {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil
	}
	session, ok := h.auth.Resolve(token)
	if !ok {
		return nil
	}
	return session
}

// requireAuth wraps a handler that needs a logged-in session.
func (h *Handler) requireAuth(next func(w http.ResponseWriter, r *http.Request, session *auth.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.sessionFrom(r)
		if session == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r, session)
	}
}

// requireAdmin wraps a handler that needs an admin session.
func (h *Handler) requireAdmin(next func(w http.ResponseWriter, r *http.Request, session *auth.Session)) http.HandlerFunc {
	return h.requireAuth(func(w http.ResponseWriter, r *http.Request, session *auth.Session) {
		if !session.IsAdmin() {
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}
		next(w, r, session)
	})
}
