package middleware

import (
	"log/slog"
	"net/http"

	"github.com/eleven-jw/ecom-lab/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context,
// enriched with correlation_id, user_id, trace_id, and span_id.
// Handlers retrieve it with logger.FromContext. Mount it after
// RequestLogging and Tracing so those fields are already present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if userID := UserIDFromContext(ctx); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}

			enriched := logger.WithContext(ctx, base)
			next.ServeHTTP(w, r.WithContext(logger.NewContext(ctx, enriched)))
		})
	}
}
