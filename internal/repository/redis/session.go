package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

const sessionKey = "ecom-lab-auth"

// SessionStore implements repository.SessionStore using Redis. The whole
// {user, tokens} record lives under a single namespaced key.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Load retrieves the persisted session record.
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("session", sessionKey)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if session.User == nil || session.Tokens == nil {
		// A record missing either half is corrupt; treat it as absent.
		return nil, apperrors.NotFound("session", sessionKey)
	}

	return &session, nil
}

// Save writes the session record. No TTL: the session lives until logout or
// until the backend rejects its refresh token.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// Clear erases the persisted record.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
