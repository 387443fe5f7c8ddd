package security

import (
	"strings"

	"github.com/creditbridge/credit-risk-engine/internal/database"
	apperrors "github.com/creditbridge/credit-risk-engine/internal/errors"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	ContextClaimsKey     = "auth_claims"
	ContextEmployeeIDKey = "employee_id"
)

// AuthRequired validates the Bearer token and stores the session
// claims in the request context.
func AuthRequired(auth *database.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Error(apperrors.NewAuthError("missing authorization header", nil))
			c.Abort()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.Error(apperrors.NewAuthError("authorization header must be a Bearer token", nil))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			c.Error(apperrors.NewAuthError("invalid or expired session token", err))
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextEmployeeIDKey, claims.Subject)
		c.Next()
	}
}

// RequirePermission enforces a permission string on a route. Must run
// after AuthRequired. The ALL grant passes every check.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.Error(apperrors.NewAuthError("no session on request", nil))
			c.Abort()
			return
		}

		if !claims.HasPermission(permission) {
			c.Error(apperrors.NewPermissionError(permission))
			c.Abort()
			return
		}

		c.Next()
	}
}

// ClaimsFromContext retrieves the session claims set by AuthRequired.
func ClaimsFromContext(c *gin.Context) (*database.Claims, bool) {
	value, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*database.Claims)
	return claims, ok
}
