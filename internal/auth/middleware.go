package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Middleware returns an HTTP middleware that verifies bearer tokens and
// attaches the caller's identity to the request context.
//
// When required is true, requests without a token are rejected with 401
// and requests with a bad token with 403. When required is false, a
// missing token passes through anonymously but a bad token is still
// rejected, so a stale token never silently downgrades to anonymous.
func Middleware(tm *TokenManager, required bool, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if required {
					writeAuthError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tm.Verify(tokenString)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("token verification failed")
				writeAuthError(w, http.StatusForbidden, "Forbidden: Invalid or expired token")
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:   claims.UserID,
				Username: claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
