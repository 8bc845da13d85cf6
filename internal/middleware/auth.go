package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/tempnest/tempnest/internal/auth"
)

// sessionCookieName is the cookie the login handler sets; the client is a
// browser SPA, so the name is part of the API contract.
const sessionCookieName = "token"

// RequireAuth verifies the session-token cookie and attaches the caller's
// identity to the request context. Failures are terminal 401s; the client
// must re-authenticate.
func RequireAuth(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "unauthorized")
				return
			}

			identity, err := issuer.Verify(cookie.Value)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := auth.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
