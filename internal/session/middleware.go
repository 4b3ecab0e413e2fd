package session

import (
	"context"
	"net/http"
	"strings"

	"karmashare/internal/pkg/logx"
)

// contextKey scopes context values to this package.
type contextKey string

// contextPayloadKey is the key under which the parsed session Payload is
// stored in the request context.
const contextPayloadKey contextKey = "session_payload"

// IdentityExtractorMiddleware extracts and validates a session JWT from the
// Authorization header and injects the Payload into the request context. It
// never interrupts the request: a missing or invalid token leaves the caller
// anonymous, which is a legitimate state for share-link viewers.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}
			tokenString := parts[1]

			payload, err := ParseToken(tokenString, secretKey)

			if err != nil {
				logx.Warn("Invalid or expired session token provided, treating as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromRequest extracts the authenticated session Payload from the request
// context. A nil return means the caller is anonymous.
func FromRequest(r *http.Request) *Payload {
	payload, ok := r.Context().Value(contextPayloadKey).(*Payload)

	if !ok {
		return nil
	}

	return payload
}
