package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/corplearning/backend/internal/logger"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic into a 500 response and logs it.
// The response echoes the request id so a participant can quote it to support.
func RecoveryMiddleware(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.FromContext(r.Context(), base).Error("panic recovered",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("error", rec),
						zap.Stack("stack"),
					)

					body := map[string]string{"error": "internal server error"}
					if id := GetRequestID(r.Context()); id != "" {
						body["requestId"] = id
					}
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
