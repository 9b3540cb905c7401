package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users  *service.UserService
	logger zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users *service.UserService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger.With().Str("component", "auth_handler").Logger(),
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse returns the token together with the user's public profile.
type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, token, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
