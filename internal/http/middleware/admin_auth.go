package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/eksdesign/stand-platform/internal/intake"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const adminClaimsKey contextKey = "adminClaims"

// Admin panel roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// AdminClaims are carried by admin panel session tokens.
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AdminJWT enforces an HMAC-signed JWT with an admin or editor role.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				intake.WriteError(w, http.StatusUnauthorized, "admin auth disabled")
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				intake.WriteError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := AdminClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				intake.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if claims.Role != RoleAdmin && claims.Role != RoleEditor {
				intake.WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after AdminJWT.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := AdminClaimsFromContext(r.Context())
			if !ok || claims.Role != role {
				intake.WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminClaimsFromContext returns admin JWT claims if present.
func AdminClaimsFromContext(ctx context.Context) (AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(AdminClaims)
	return claims, ok
}
