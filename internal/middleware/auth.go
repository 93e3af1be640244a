package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mmynk/rentmate/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// PhoneKey is the context key for the authenticated session's phone number.
const PhoneKey contextKey = "phone"

// GetPhone extracts the session phone number from the context.
// Returns empty string if not found.
func GetPhone(ctx context.Context) string {
	phone, _ := ctx.Value(PhoneKey).(string)
	return phone
}

// RequireAuth validates the Bearer session token on every request and adds
// the session phone number to the request context. Requests without a valid
// token get 401 with a JSON error body.
func RequireAuth(tokens *session.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, session.ErrMissingToken)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, session.ErrInvalidToken)
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				unauthorized(w, session.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), PhoneKey, claims.Phone)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
