package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cofix/internal/apperrors"
	handlers "cofix/internal/handler"
	"cofix/internal/logger"
	"cofix/internal/service"
)

type stubValidator struct {
	claims map[string]*service.Claims
}

func (s stubValidator) ValidateToken(token string) (*service.Claims, error) {
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, apperrors.Unauthorized("validate token", "invalid token")
}

func identityHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, role, _ := handlers.IdentityFromContext(r.Context())
		w.Header().Set("X-Email", email)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := stubValidator{claims: map[string]*service.Claims{
		"good": {Email: "a@x.com", Role: service.RoleUser},
	}}
	h := AuthMiddleware(tokens)(identityHandler())

	tests := []struct {
		name           string
		path           string
		header         string
		expectedStatus int
		expectedEmail  string
	}{
		{name: "public signup", path: "/api/signup", expectedStatus: http.StatusOK},
		{name: "public admin login", path: "/api/admin/login", expectedStatus: http.StatusOK},
		{name: "health is outside api", path: "/health", expectedStatus: http.StatusOK},
		{name: "missing header", path: "/api/issues", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/api/issues", header: "Basic good", expectedStatus: http.StatusUnauthorized},
		{name: "bad token", path: "/api/issues", header: "Bearer bad", expectedStatus: http.StatusUnauthorized},
		{name: "valid token", path: "/api/issues", header: "Bearer good", expectedStatus: http.StatusOK, expectedEmail: "a@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedEmail, rr.Header().Get("X-Email"))
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	h := RoleMiddleware("/api/admin/", service.RoleAdmin)(identityHandler())

	serve := func(path, role string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if role != "" {
			req = req.WithContext(handlers.WithIdentity(req.Context(), "x@x.com", role))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, serve("/api/admin/issues", service.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serve("/api/admin/issues", service.RoleUser))
	assert.Equal(t, http.StatusUnauthorized, serve("/api/admin/issues", ""))
	assert.Equal(t, http.StatusOK, serve("/api/admin/login", ""))
	assert.Equal(t, http.StatusOK, serve("/api/issues", service.RoleUser))
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware([]string{"http://localhost:5173"})(identityHandler())

	t.Run("allowed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin is not", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
		req.Header.Set("Origin", "http://evil.com")
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/issues", nil)
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-Role"))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "info", "json")

	h := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/api/issues"`)
}

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.NotFoundHandler(), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
