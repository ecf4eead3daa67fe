package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/glossworks/booking-engine/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDHeader carries the authenticated caller's id. The API gateway
// validates the token and forwards the identity in this header.
const UserIDHeader = "X-User-ID"

// Auth extracts the caller identity from the request headers and stores it
// in the request context. Requests without a parseable identity are refused.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "missing user identity")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "invalid user identity")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the authenticated caller id stored by Auth.
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
