package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/eleven-jw/ecom-lab/pkg/httpclient"

	"github.com/eleven-jw/ecom-lab/internal/client"
)

// Session is the slice of the session manager the gateway consults.
type Session interface {
	AccessToken() string
	Refresh(ctx context.Context) error
	ForceLogout(ctx context.Context) error
}

// Gateway wraps authenticated outbound calls to the backend. Every request
// carries the current access token; an authorization rejection triggers one
// shared refresh and one retry with the new token. If the refresh fails the
// session is destroyed and the original rejection is surfaced. Bodies are byte
// slices so the retry re-sends an identical payload.
type Gateway struct {
	httpClient client.HTTPDoer
	baseURL    string
	session    Session
	logger     *slog.Logger
}

// New creates a request gateway.
func New(httpClient client.HTTPDoer, baseURL string, session Session, logger *slog.Logger) *Gateway {
	return &Gateway{
		httpClient: httpClient,
		baseURL:    baseURL,
		session:    session,
		logger:     logger,
	}
}

// Do executes an authenticated request against the backend. The response is
// returned as-is for non-auth failures; the caller owns the body.
func (g *Gateway) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	resp, err := g.send(ctx, method, path, body, g.session.AccessToken())
	if err != nil {
		return nil, err
	}

	if !httpclient.IsAuthFailure(resp.StatusCode) {
		return resp, nil
	}

	// The rejection body is consumed now so it can be surfaced if the
	// refresh fails; the retry builds a fresh request anyway.
	rejection := httpclient.ParseResponseError(resp, "backend")

	if err := g.session.Refresh(ctx); err != nil {
		g.logger.WarnContext(ctx, "refresh failed after authorization rejection, ending session",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		if logoutErr := g.session.ForceLogout(ctx); logoutErr != nil {
			g.logger.ErrorContext(ctx, "forced logout failed",
				slog.String("error", logoutErr.Error()),
			)
		}
		return nil, rejection
	}

	// Retry exactly once with the new token. Whatever comes back is final.
	retryResp, err := g.send(ctx, method, path, body, g.session.AccessToken())
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "request retried after token refresh",
		slog.String("path", path),
		slog.Int("status", retryResp.StatusCode),
	)
	return retryResp, nil
}

// Get executes an authenticated GET request.
func (g *Gateway) Get(ctx context.Context, path string) (*http.Response, error) {
	return g.Do(ctx, http.MethodGet, path, nil)
}

// GetJSON executes an authenticated GET and decodes the response into target.
func (g *Gateway) GetJSON(ctx context.Context, path string, target any) error {
	resp, err := g.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "backend")
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

func (g *Gateway) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call backend %s %s: %w", method, path, err)
	}
	return resp, nil
}
