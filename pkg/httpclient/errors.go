package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"
)

// BackendErrorResponse mirrors the error body returned by the catalog/auth
// backend: a bare {"message": "..."} object.
type BackendErrorResponse struct {
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the response body carries the backend's
// {"message"} shape, the message is preserved. Otherwise a generic error is
// returned with the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var backend BackendErrorResponse
	if json.Unmarshal(bodyBytes, &backend) == nil && backend.Message != "" {
		return mapBackendError(resp.StatusCode, backend.Message, serviceName)
	}

	// Fallback: unstructured error body.
	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
}

// mapBackendError translates the backend's HTTP status code and message into
// an AppError that preserves the error semantics.
func mapBackendError(status int, message, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.AlreadyExists(serviceName, "resource", message)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualifiedMsg)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualifiedMsg)
	case status == http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    "SERVICE_UNAVAILABLE",
			Message: qualifiedMsg,
			Status:  http.StatusServiceUnavailable,
			Err:     apperrors.ErrServiceUnavail,
		}
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, status, message)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsAuthFailure returns true if the HTTP status code indicates the request was
// rejected for authorization reasons and is a candidate for refresh-and-retry.
func IsAuthFailure(status int) bool {
	return status == http.StatusUnauthorized
}
