package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDHeader is the header the catalog UI sends to identify its user. It is
// listed in the models preflight reply.
const UserIDHeader = "X-User-Id"

// maxUserIDLen bounds what ends up in log lines.
const maxUserIDLen = 128

// UserID copies the X-User-Id header into the request context so the access
// log can attribute requests. The value is not verified and grants nothing;
// requests without it pass through unchanged.
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
			if len(id) > maxUserIDLen {
				id = id[:maxUserIDLen]
			}
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext returns the caller-supplied user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
