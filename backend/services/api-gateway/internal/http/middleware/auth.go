package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
)

type contextKey string

const claimsKey contextKey = "claims"

// Decoder verifies bearer credentials.
type Decoder interface {
	Decode(raw string) (*token.Claims, error)
}

// AuthMiddleware validates the bearer token and stores its claims on the request context.
func AuthMiddleware(decoder Decoder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, errs.KindInvalidCredential, "missing authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				reject(w, errs.KindInvalidCredential, "invalid authorization header")
				return
			}

			claims, err := decoder.Decode(parts[1])
			if err != nil {
				if errs.Is(err, errs.KindExpired) {
					reject(w, errs.KindExpired, "token expired")
					return
				}
				reject(w, errs.KindInvalidCredential, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets through only requests whose verified role is role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				reject(w, errs.KindInvalidCredential, "unauthorized")
				return
			}
			if claims.Role != role {
				reject(w, errs.KindNotAuthorized, role+" role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext retrieves verified claims from request context.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok && claims != nil
}
