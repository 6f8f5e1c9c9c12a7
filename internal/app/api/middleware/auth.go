package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/keurgym/membership/pkg/response"
)

// OperatorClaims is the token payload the dashboard's auth layer issues for
// gym operators. This service only validates; issuing lives elsewhere.
type OperatorClaims struct {
	OperatorID string `json:"operator_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// OperatorAuthMiddleware guards admin command routes with a bearer token.
// The operator id is stored on the context for audit logging.
func OperatorAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "bearer token required"))
			return
		}

		claims := &OperatorClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid or expired token"))
			return
		}
		if claims.Role != "operator" && claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "operator role required"))
			return
		}

		c.Set("operator_id", claims.OperatorID)
		c.Next()
	}
}

// OperatorID returns the authenticated operator id, empty when unauthenticated.
func OperatorID(c *gin.Context) string {
	if v, ok := c.Get("operator_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
