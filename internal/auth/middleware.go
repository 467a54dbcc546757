// internal/auth/middleware.go

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

// Middleware provides authentication middleware
type Middleware struct {
	service Service
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(service Service) *Middleware {
	return &Middleware{service: service}
}

// Authenticate protects routes that require a caller identity
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			utils.ErrorResponse(w, "unauthenticated", "Missing or invalid authorization header", http.StatusUnauthorized)
			return
		}

		identity, err := m.service.Verify(r.Context(), token)
		if err != nil {
			utils.ErrorResponse(w, "unauthenticated", "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", identity.UserID)
		ctx = context.WithValue(ctx, "handle", identity.Handle)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate is for routes where anonymous access is allowed.
// A valid token adds the viewer identity; a missing or bad token degrades
// to anonymous instead of failing.
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.service.Verify(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", identity.UserID)
		ctx = context.WithValue(ctx, "handle", identity.Handle)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// GetUserIDFromContext extracts the authenticated user ID from the request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value("userID").(int64)
	return userID, ok
}

// GetHandleFromContext extracts the authenticated handle from the request context
func GetHandleFromContext(ctx context.Context) (string, bool) {
	handle, ok := ctx.Value("handle").(string)
	return handle, ok
}
