package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/adbilling/internal/infrastructure/auth"
)

type claimsKey struct{}

// ServiceAuth rejects requests without a valid service bearer token. Every
// caller of the API is another service, never an end user.
func ServiceAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, http.StatusUnauthorized, "unauthenticated", "missing authorization header")
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || scheme != "Bearer" {
				reject(w, http.StatusUnauthorized, "unauthenticated", "authorization header must be a bearer token")
				return
			}

			claims, err := jwtManager.Verify(token)
			if err != nil {
				reject(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole admits callers whose role allows acting as required.
func RequireRole(required auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				reject(w, http.StatusUnauthorized, "unauthenticated", "no caller on request")
				return
			}

			if !claims.Role.Allows(required) {
				reject(w, http.StatusForbidden, "forbidden", "role "+string(claims.Role)+" may not call this endpoint")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the calling service verified by ServiceAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}
