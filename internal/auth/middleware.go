// internal/auth/middleware.go

package auth

import (
	"net/http"
	"strings"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
)

// Middleware provides authentication middleware
type Middleware struct {
	service Service
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(service Service) *Middleware {
	return &Middleware{
		service: service,
	}
}

// Authenticate admits registrant tokens and stores the user id on the context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return m.requireRole(utils.RoleUser, next)
}

// RequireAdmin admits admin console tokens only
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.requireRole(utils.RoleAdmin, next)
}

func (m *Middleware) requireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			utils.ErrorResponse(w, "Missing or invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.service.ValidateToken(r.Context(), token)
		if err != nil {
			utils.ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		if claims.Role != role {
			utils.ErrorResponse(w, "Insufficient permissions", http.StatusForbidden)
			return
		}
		if role == utils.RoleUser && claims.UserID <= 0 {
			utils.ErrorResponse(w, "Invalid token subject", http.StatusUnauthorized)
			return
		}

		ctx := utils.WithIdentity(r.Context(), claims.UserID, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads a "Bearer <token>" Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
