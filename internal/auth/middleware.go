package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "userID", id), ANY package that knows the string
// "userID" can read or shadow your value. A package-private type prevents
// collisions: only this package can create a key of type contextKey.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAccess enforces authentication with an access token.
//
// It reads "Authorization: Bearer <token>" from the request, verifies the
// JWT as an access token, and stores the user ID in the request context.
// Missing, malformed, expired, or wrong-type tokens all end the chain with
// 401 and the same generic body.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → M1 → M2 → Handler.
func RequireAccess(tokens *TokenService) func(http.Handler) http.Handler {
	return requireToken(tokens, TokenTypeAccess)
}

// RequireRefresh enforces a refresh token. Used only by the token refresh
// endpoint — an access token presented there is rejected just like a
// refresh token presented anywhere else.
func RequireRefresh(tokens *TokenService) func(http.Handler) http.Handler {
	return requireToken(tokens, TokenTypeRefresh)
}

func requireToken(tokens *TokenService, tokenType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userIDFromRequest(r, tokens, tokenType)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns (0, false) if no middleware stored one — which on a
// protected route means a wiring bug, not an anonymous caller.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// userIDFromRequest extracts and verifies the bearer token.
//
// The scheme comparison is case-insensitive ("Bearer" / "bearer") per
// RFC 6750, but the token itself is passed through untouched.
func userIDFromRequest(r *http.Request, tokens *TokenService, tokenType string) (int64, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, errors.New("auth: missing Authorization header")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return 0, errors.New("auth: malformed Authorization header")
	}

	return tokens.Verify(strings.TrimSpace(token), tokenType)
}
