package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
)

// Claims represents the claims carried by a backend-issued access token.
type Claims struct {
	Email string `json:"email"`
	Tier  string `json:"tier"`
	jwt.RegisteredClaims
}

// Decoder extracts claims from backend-issued tokens without verifying the
// signature. The backend authoritatively validates tokens on every call; the
// client only needs the subject and expiry for local bookkeeping.
type Decoder struct {
	parser *jwt.Parser
}

// NewDecoder creates a token decoder.
func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// Decode returns the full claims of an access token without verifying them.
// Pure and local, no network round-trip. Tokens without a subject are
// rejected; every backend-issued token carries the user ID there.
func (d *Decoder) Decode(token string) (*Claims, error) {
	claims, err := d.decode(token)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, apperrors.Unauthorized("token has no subject")
	}
	return claims, nil
}

// ExpiresAt returns the expiry of an access token, or the zero time if the
// token carries no expiry claim.
func (d *Decoder) ExpiresAt(token string) (time.Time, error) {
	claims, err := d.decode(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

func (d *Decoder) decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return nil, apperrors.Unauthorized("malformed access token")
	}
	return claims, nil
}
