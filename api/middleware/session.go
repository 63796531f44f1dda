package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const sessionIDHeader = "X-Session-Id"

type sessionContextKey struct{}

// Session resolves the caller's cart session. Anonymous shoppers get a
// fresh ID; the header is always echoed back so clients can persist it.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionIDHeader)
			if sessionID == "" || uuid.Validate(sessionID) != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := context.WithValue(r.Context(), sessionContextKey{}, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session ID set by Session, or "".
func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionContextKey{}).(string)
	return sessionID
}
