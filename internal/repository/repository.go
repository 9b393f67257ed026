package repository

import (
	"context"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

// SessionStore persists the session record. The record is the only durable
// cross-restart resource and is always read and written as one unit so the
// profile and tokens can never be torn apart by a partial write.
type SessionStore interface {
	// Load returns the persisted session, or a not-found error if none exists.
	Load(ctx context.Context) (*domain.Session, error)

	// Save writes the session as a single atomic record.
	Save(ctx context.Context, session *domain.Session) error

	// Clear erases the persisted record.
	Clear(ctx context.Context) error
}
