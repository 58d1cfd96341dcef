package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// PrincipalContextKey is the context key for the authenticated caller
	PrincipalContextKey ContextKey = "principal"
)

// FailureRecorder counts rejected credentials by reason.
type FailureRecorder interface {
	AuthFailed(reason string)
}

// AuthMiddleware creates an authentication middleware. recorder may be nil.
func AuthMiddleware(jwtManager *auth.JWTManager, recorder FailureRecorder) func(http.Handler) http.Handler {
	fail := func(w http.ResponseWriter, reason, message string) {
		if recorder != nil {
			recorder.AuthFailed(reason)
		}
		http.Error(w, message, http.StatusUnauthorized)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				fail(w, "missing", "missing authorization header")
				return
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				fail(w, "malformed", "invalid authorization header format")
				return
			}

			claims, err := jwtManager.Verify(tokenString)
			if err != nil {
				reason := "invalid"
				if err == domain.ErrExpiredToken {
					reason = "expired"
				}
				fail(w, reason, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalContextKey, claims.Principal())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			allowed := true
			switch minRole {
			case domain.RoleAdmin:
				allowed = principal.Role.CanDelete()
			case domain.RoleOperator:
				allowed = principal.Role.CanCreate()
			case domain.RoleViewer:
				// All authenticated callers can read
			}

			if !allowed {
				http.Error(w, domain.ErrInsufficientRole.Error(), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext extracts the authenticated caller from context
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(*domain.Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
