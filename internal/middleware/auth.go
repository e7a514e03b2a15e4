package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/newswire/newswire-go/internal/crypto"
	"github.com/newswire/newswire-go/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionAuth returns middleware that requires a valid session cookie. The
// response never distinguishes a missing cookie from a tampered or expired
// token.
func SessionAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := sessions.Require(r)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts the authenticated session claims from the
// request context.
func SessionFromContext(ctx context.Context) (*crypto.Claims, bool) {
	claims, ok := ctx.Value(sessionKey).(*crypto.Claims)
	return claims, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
