package http

import (
	"log/slog"
	"net/http"

	"github.com/eleven-jw/ecom-lab/pkg/validator"

	"github.com/eleven-jw/ecom-lab/internal/domain"
	"github.com/eleven-jw/ecom-lab/internal/gateway"
	"github.com/eleven-jw/ecom-lab/internal/service"
)

// AuthHandler handles HTTP requests for session endpoints.
type AuthHandler struct {
	sessions *service.SessionManager
	gateway  *gateway.Gateway
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(sessions *service.SessionManager, gw *gateway.Gateway, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		gateway:  gw,
		logger:   logger,
	}
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"fullName" validate:"required,min=1,max=200"`
	InviteCode string `json:"inviteCode"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	session, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: session})
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	session, err := h.sessions.Register(r.Context(), req.Email, req.Password, req.FullName, req.InviteCode)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: session})
}

// Refresh handles POST /api/v1/auth/refresh. The stored refresh token is
// exchanged for a new pair; concurrent calls share one exchange.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Refresh(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "refreshed"}})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "logged_out"}})
}

// GetProfile handles GET /api/v1/auth/profile. The profile is fetched from
// the backend through the gateway, so an expired access token is renewed and
// retried transparently; the fresh copy is folded back into the session.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := h.gateway.GetJSON(r.Context(), "/auth/profile", &profile); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.sessions.ReplaceProfile(r.Context(), &profile); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: profile})
}

// UpdateProfile handles PUT /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update domain.ProfileUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	user, err := h.sessions.UpdateProfile(r.Context(), update)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}
