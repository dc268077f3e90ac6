package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/reviewly/backend/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	UserKey string `json:"user_key"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	UserKey   string    `json:"user_key"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// register creates a learner account.
// @Summary      Register
// @Description  Create an account. The user key is derived from the email.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Credentials"
// @Success      201   {object}  userResponse
// @Failure      400   {string}  string
// @Failure      409   {string}  string  "email already registered"
// @Router       /auth/register [post]
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.Register(req.Email, req.Password, "")
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, userResponse{
		UserKey: user.UserKey,
		Email:   user.Email,
		Role:    user.Role,
	})
}

// login verifies credentials and opens a session.
// @Summary      Log in
// @Description  Exchange email and password for a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {string}  string
// @Router       /auth/login [post]
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.Error("login failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		Token:     session.Token,
		UserKey:   session.UserKey,
		Email:     session.Email,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	})
}

// logout destroys the caller's session.
// @Summary      Log out
// @Tags         Auth
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func (h *Handler) logout(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	h.auth.Logout(session.Token)
	w.WriteHeader(http.StatusNoContent)
}

// me returns the account behind the bearer token.
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {string}  string
// @Router       /auth/me [get]
func (h *Handler) me(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	respondJSON(w, http.StatusOK, userResponse{
		UserKey: session.UserKey,
		Email:   session.Email,
		Role:    session.Role,
	})
}
