package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
	"github.com/eleven-jw/ecom-lab/pkg/httpclient"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// AuthClient talks to the auth backend's session endpoints.
type AuthClient struct {
	httpClient HTTPDoer
	baseURL    string
	logger     *slog.Logger
}

// NewAuthClient creates an auth backend client.
func NewAuthClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *AuthClient {
	return &AuthClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"fullName"`
	InviteCode string `json:"inviteCode,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login exchanges credentials for a session. A 401 from the backend maps to a
// single invalid-credentials error that never reveals which field was wrong.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("call auth login: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "auth")
	}

	return decodeSession(resp)
}

// Register creates an account and establishes a session exactly like login.
// The invite code is passed through untouched; the backend owns the mapping
// from codes to membership tiers.
func (c *AuthClient) Register(ctx context.Context, email, password, fullName, inviteCode string) (*domain.Session, error) {
	resp, err := c.post(ctx, "/auth/register", registerRequest{
		Email:      email,
		Password:   password,
		FullName:   fullName,
		InviteCode: inviteCode,
	})
	if err != nil {
		return nil, fmt.Errorf("call auth register: %w", err)
	}

	if resp.StatusCode == http.StatusConflict {
		drain(resp)
		return nil, apperrors.AlreadyExists("account", "email", email)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "auth")
	}

	return decodeSession(resp)
}

// Refresh exchanges a refresh token for a new session. Safe to call
// opportunistically: a valid refresh token always yields a fresh pair.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	resp, err := c.post(ctx, "/auth/refresh", refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("call auth refresh: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "auth")
	}

	return decodeSession(resp)
}

// Profile fetches the profile of the access token's bearer.
func (c *AuthClient) Profile(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/profile", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call auth profile: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "auth")
	}
	defer resp.Body.Close()

	var profile domain.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}
	return &profile, nil
}

func (c *AuthClient) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(ctx, req)
}

func decodeSession(resp *http.Response) (*domain.Session, error) {
	defer resp.Body.Close()

	var session domain.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if session.User == nil || session.Tokens == nil {
		return nil, fmt.Errorf("auth response missing user or tokens")
	}
	return &session, nil
}

func drain(resp *http.Response) {
	_ = resp.Body.Close()
}
