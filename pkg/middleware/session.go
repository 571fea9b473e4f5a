package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/logger"
)

type sessionContextKey string

const sessionIDKey sessionContextKey = "session_id"

// SessionHeader is the header that carries the storefront session identifier.
const SessionHeader = "X-Session-ID"

// Session returns middleware that requires an X-Session-ID header on every
// request and stores its value in the request context. Each browser session
// owns its own cart, preorder, and wishlist state, so a request without a
// session identifier cannot be served.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    "MISSING_SESSION",
					"message": "X-Session-ID header is required",
				})
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			ctx = logger.WithSessionID(ctx, sessionID)

			w.Header().Set(SessionHeader, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session ID stored by the Session middleware.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}
