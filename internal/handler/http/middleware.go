package http

import (
	"net/http"
	"strings"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
	"github.com/eleven-jw/ecom-lab/pkg/middleware"

	"github.com/eleven-jw/ecom-lab/internal/domain"
	"github.com/eleven-jw/ecom-lab/internal/service"
)

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession guards ledger commands. The bearer token is decoded locally
// for its claims and must match the active session's user; the backend
// remains the authority on token validity for outbound calls.
func RequireSession(sessions *service.SessionManager) func(http.Handler) http.Handler {
	return middleware.Auth(func(token string) (*middleware.Claims, error) {
		claims, err := sessions.DecodeAccessToken(token)
		if err != nil {
			return nil, err
		}

		user := sessions.CurrentUser()
		if user == nil || user.ID != claims.Subject {
			return nil, apperrors.Unauthorized("token does not match the active session")
		}

		// A token minted after a tier change is fresher than the cached
		// profile copy; unknown tier claims fall back to the profile.
		tier := user.Tier
		if domain.IsValidTier(claims.Tier) {
			tier = claims.Tier
		}

		return &middleware.Claims{
			UserID: user.ID,
			Email:  user.Email,
			Tier:   tier,
		}, nil
	})
}
