package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	handlers "cofix/internal/handler"
	"cofix/internal/service"
)

type Middleware func(http.Handler) http.Handler

// TokenValidator is the part of service.AuthService the middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

var publicPaths = []string{
	"/api/signup",
	"/api/login",
	"/api/admin/signup",
	"/api/admin/login",
}

// IsPublic reports whether path can be called without a token. Only /api is
// protected.
func IsPublic(path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return true
	}
	return slices.Contains(publicPaths, strings.TrimSuffix(path, "/"))
}

// AuthMiddleware verifies the bearer token and stores the caller on the context.
func AuthMiddleware(tokens TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || IsPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.WriteError(w, "authorization required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				handlers.WriteError(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				handlers.WriteError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := handlers.WithIdentity(r.Context(), claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleMiddleware guards every protected path under prefix with the given roles.
func RoleMiddleware(prefix string, allowedRoles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || !strings.HasPrefix(r.URL.Path, prefix) || IsPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			_, role, ok := handlers.IdentityFromContext(r.Context())
			if !ok {
				handlers.WriteError(w, "authorization required", http.StatusUnauthorized)
				return
			}

			if !slices.Contains(allowedRoles, role) {
				handlers.WriteError(w, "access denied", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware echoes the request origin when it is in allowedOrigins.
func CORSMiddleware(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Chain wraps h so that the first middleware is the innermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
