package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/grupomm-oficial/mm-frota/internal/auth"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
)

// Authenticator checks credentials and issues tokens.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService Authenticator
	validate    *validator.Validate
	log         logrus.FieldLogger
}

// NewAuthHandler creates a new authentication handler. authService may be
// nil when tokens are issued by an external provider.
func NewAuthHandler(authService Authenticator, log logrus.FieldLogger) *AuthHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthHandler{authService: authService, validate: validator.New(), log: log}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.authService == nil {
		writeError(w, http.StatusNotFound, "Password login is disabled")
		return
	}

	var loginReq models.LoginRequest
	if err := decode(r, h.validate, &loginReq); err != nil {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	resp, err := h.authService.Login(r.Context(), loginReq.Username, loginReq.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case errors.Is(err, auth.ErrUserInactive):
		writeError(w, http.StatusUnauthorized, "Account is deactivated")
		return
	case err != nil:
		h.log.WithError(err).WithField("username", loginReq.Username).Error("login failed")
		writeError(w, http.StatusServiceUnavailable, "Login unavailable")
		return
	}

	h.log.WithField("user_id", resp.User.ID).Info("user logged in")
	writeJSON(w, http.StatusOK, resp)
}

// Me returns the calling actor
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}
