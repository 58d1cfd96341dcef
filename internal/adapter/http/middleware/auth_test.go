package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/infrastructure/auth"
)

type recordingFailures struct {
	reasons []string
}

func (r *recordingFailures) AuthFailed(reason string) {
	r.reasons = append(r.reasons, reason)
}

func tokenFor(t *testing.T, manager *auth.JWTManager, role domain.Role) string {
	t.Helper()

	token, err := manager.Generate(&domain.Principal{ID: "u-1", Email: "u@example.com", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_SetsPrincipal(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)

	var got *domain.Principal
	handler := AuthMiddleware(manager, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, manager, domain.RoleViewer))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, domain.RoleViewer, got.Role)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Minute)

	tests := []struct {
		name   string
		header string
		reason string
	}{
		{name: "missing header", header: "", reason: "missing"},
		{name: "not bearer", header: "Basic abc", reason: "malformed"},
		{name: "garbage token", header: "Bearer not-a-token", reason: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures := &recordingFailures{}
			handler := AuthMiddleware(manager, failures)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, []string{tt.reason}, failures.reasons)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		minRole domain.Role
		role    domain.Role
		status  int
	}{
		{name: "viewer reads", minRole: domain.RoleViewer, role: domain.RoleViewer, status: http.StatusOK},
		{name: "viewer cannot add", minRole: domain.RoleOperator, role: domain.RoleViewer, status: http.StatusForbidden},
		{name: "operator adds", minRole: domain.RoleOperator, role: domain.RoleOperator, status: http.StatusOK},
		{name: "operator cannot delete", minRole: domain.RoleAdmin, role: domain.RoleOperator, status: http.StatusForbidden},
		{name: "admin deletes", minRole: domain.RoleAdmin, role: domain.RoleAdmin, status: http.StatusOK},
	}

	manager := auth.NewJWTManager("secret", time.Minute)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(manager, nil)(RequireRole(tt.minRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, manager, tt.role))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestRequireRole_WithoutPrincipal(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleViewer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
