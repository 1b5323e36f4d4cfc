// Package middleware provides HTTP middleware for the write endpoint.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/Decron/SheetFire/internal/wire"
)

// SecretAuth returns middleware that validates the x-app-secret header
// against the server-held secret. The check runs before the handler
// reads any of the body, and uses a constant-time comparison. A missing
// or mismatched secret is a 401 with a plain-text body.
func SecretAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(wire.SecretHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				slog.Warn("auth: bad or missing secret",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "unauthorized: bad or missing "+wire.SecretHeader+" header", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
