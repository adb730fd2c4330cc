package middleware

import "net/http"

// AllowAnyOrigin adds "Access-Control-Allow-Origin: *" to every response,
// including errors and panics recovered further down the chain. The catalog
// has no credentials to protect, so any origin may read it.
func AllowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}
