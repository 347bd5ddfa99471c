package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/corplearning/backend/internal/logger"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultMaxRequestSize caps request bodies; every write endpoint takes a small JSON document
const DefaultMaxRequestSize int64 = 1 << 20

// JSONBodyMiddleware guards request bodies: a body must be JSON and at most maxRequestSize bytes.
// Bodiless requests such as lesson completions pass through untouched.
func JSONBodyMiddleware(maxRequestSize int64) func(http.Handler) http.Handler {
	allowJSON := chimiddleware.AllowContentType("application/json")

	return func(next http.Handler) http.Handler {
		guarded := allowJSON(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxRequestSize {
				logger.FromContext(r.Context(), logger.Logger).Info("request body rejected",
					zap.String("path", r.URL.Path),
					zap.Int64("content_length", r.ContentLength),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				json.NewEncoder(w).Encode(map[string]string{"error": "request body too large"})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			guarded.ServeHTTP(w, r)
		})
	}
}
