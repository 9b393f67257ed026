package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/auth"
	"github.com/eleven-jw/ecom-lab/internal/domain"
	"github.com/eleven-jw/ecom-lab/internal/event"
	"github.com/eleven-jw/ecom-lab/internal/repository"
)

// AuthBackend is the slice of the auth client the session manager needs.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, email, password, fullName, inviteCode string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Session, error)
}

// SessionManager owns the authenticated identity and its token pair. The user
// and tokens always transition together: both set on login/register/refresh,
// both cleared on logout. Every mutation rewrites the persisted record as one
// unit.
type SessionManager struct {
	backend  AuthBackend
	store    repository.SessionStore
	decoder  *auth.Decoder
	producer *event.Producer
	logger   *slog.Logger

	mu      sync.RWMutex
	session *domain.Session

	// refreshGroup collapses concurrent refresh attempts into one network
	// call so sibling requests never rotate the refresh token out from
	// under each other.
	refreshGroup singleflight.Group
}

// NewSessionManager creates a session manager.
func NewSessionManager(
	backend AuthBackend,
	store repository.SessionStore,
	decoder *auth.Decoder,
	producer *event.Producer,
	logger *slog.Logger,
) *SessionManager {
	return &SessionManager{
		backend:  backend,
		store:    store,
		decoder:  decoder,
		producer: producer,
		logger:   logger,
	}
}

// Restore loads the persisted session record, if any, so a process restart
// resumes the previous session. A missing record is not an error.
func (s *SessionManager) Restore(ctx context.Context) error {
	session, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session restored",
		slog.String("user_id", session.User.ID),
		slog.String("tier", session.User.Tier),
	)

	if exp, err := s.decoder.ExpiresAt(session.Tokens.AccessToken); err == nil && !exp.IsZero() && exp.Before(time.Now()) {
		s.logger.InfoContext(ctx, "restored access token is past its expiry, next backend call will refresh",
			slog.Time("expired_at", exp),
		)
	}
	return nil
}

// Login exchanges credentials for a session, replacing any current session
// atomically in memory and in the persisted record.
func (s *SessionManager) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}

	session, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.establish(ctx, session); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", session.User.ID),
		slog.String("tier", session.User.Tier),
	)
	return session.Clone(), nil
}

// Register creates an account and establishes a session exactly like login.
// The invite code is forwarded untouched; the backend maps it to a tier.
func (s *SessionManager) Register(ctx context.Context, email, password, fullName, inviteCode string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}
	if fullName == "" {
		return nil, apperrors.InvalidInput("full name is required")
	}

	session, err := s.backend.Register(ctx, email, password, fullName, inviteCode)
	if err != nil {
		return nil, err
	}

	if err := s.establish(ctx, session); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", session.User.ID),
		slog.String("tier", session.User.Tier),
	)
	return session.Clone(), nil
}

// Refresh exchanges the stored refresh token for a new token pair and swaps
// it into the session. Concurrent callers share a single in-flight exchange:
// all of them observe the same outcome, and exactly one network call is made.
// The exchange is detached from the initiating caller's context, so a caller
// abandoning its request cannot abort a rotation other callers are waiting on.
func (s *SessionManager) Refresh(ctx context.Context) error {
	_, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		// The flight outlives whichever caller happened to start it.
		// Trace and log values carry over; cancellation does not.
		ctx := context.WithoutCancel(ctx)

		s.mu.RLock()
		current := s.session
		s.mu.RUnlock()

		if current == nil {
			return nil, apperrors.Unauthorized("no active session")
		}

		session, err := s.backend.Refresh(ctx, current.Tokens.RefreshToken)
		if err != nil {
			return nil, err
		}

		if err := s.establish(ctx, session); err != nil {
			return nil, err
		}

		s.logger.InfoContext(ctx, "session refreshed",
			slog.String("user_id", session.User.ID),
		)
		return nil, nil
	})
	return err
}

// UpdateProfile merges the given fields into the current profile and
// re-persists the record. Calling with no active session is a caller error.
func (s *SessionManager) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.Unauthorized("no active session")
	}

	s.session.User.Apply(update)

	if err := s.store.Save(ctx, s.session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated",
		slog.String("user_id", s.session.User.ID),
	)

	user := *s.session.User
	return &user, nil
}

// ReplaceProfile swaps in a freshly fetched profile wholesale and re-persists
// the record, keeping the stored copy in step with the backend.
func (s *SessionManager) ReplaceProfile(ctx context.Context, profile *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return apperrors.Unauthorized("no active session")
	}

	user := *profile
	s.session.User = &user

	if err := s.store.Save(ctx, s.session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Logout clears the in-memory session and erases the persisted record.
// A logout with no active session is a no-op.
func (s *SessionManager) Logout(ctx context.Context) error {
	return s.endSession(ctx, false)
}

// ForceLogout destroys the session after a failed refresh. This is the only
// path that ends a session without an explicit user action.
func (s *SessionManager) ForceLogout(ctx context.Context) error {
	return s.endSession(ctx, true)
}

func (s *SessionManager) endSession(ctx context.Context, forced bool) error {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	if session == nil {
		return nil
	}

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session record: %w", err)
	}

	if err := s.producer.PublishSessionEnded(ctx, session.User.ID, forced); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session.ended event",
			slog.String("user_id", session.User.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "session ended",
		slog.String("user_id", session.User.ID),
		slog.Bool("forced", forced),
	)
	return nil
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (s *SessionManager) CurrentUser() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	user := *s.session.User
	return &user
}

// AccessToken returns the current access token, or "" with no session.
func (s *SessionManager) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return ""
	}
	return s.session.Tokens.AccessToken
}

// IsAuthenticated reports whether a session is active.
func (s *SessionManager) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// DecodeAccessToken returns the claims of a token without a network
// round-trip. The claims are unverified; the backend remains the authority
// on token validity.
func (s *SessionManager) DecodeAccessToken(token string) (*auth.Claims, error) {
	return s.decoder.Decode(token)
}

// establish installs a new session in memory and persists it as one record.
func (s *SessionManager) establish(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if err := s.store.Save(ctx, session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	if err := s.producer.PublishSessionStarted(ctx, session.User); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session.started event",
			slog.String("user_id", session.User.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}
