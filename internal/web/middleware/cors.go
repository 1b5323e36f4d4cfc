package middleware

import "net/http"

// CORS sets the endpoint's cross-origin policy on every response. The
// endpoint is called from browser-hosted grid add-ons, so the origin is
// open; the shared secret is the actual gate.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, x-app-secret")
		h.Set("Access-Control-Max-Age", "3600")
		next.ServeHTTP(w, r)
	})
}
