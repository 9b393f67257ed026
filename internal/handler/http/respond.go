package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/eleven-jw/ecom-lab/pkg/httputil"
)

// The handler package reuses the shared response envelope so the
// storefront core speaks the same wire format as every other service.
type (
	response      = httputil.Response
	errorResponse = httputil.ErrorResponse
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	httputil.WriteJSON(w, status, v)
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	httputil.WriteError(w, r, err, logger)
}

func writeValidationError(w http.ResponseWriter, err error) {
	httputil.WriteValidationError(w, err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return false
	}
	return true
}
