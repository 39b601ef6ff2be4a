// Package auth provides optional bearer-token authentication for the query
// endpoint. With no secret configured every request is anonymous.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/insightloop/bizquery/internal/errors"
)

// Middleware validates HS256 bearer tokens when a secret is configured
type Middleware struct {
	secret string
}

// NewMiddleware creates an auth middleware. An empty secret disables
// authentication.
func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: secret}
}

// Enabled reports whether requests must carry a token
func (m *Middleware) Enabled() bool {
	return m.secret != ""
}

// Handler returns the gin middleware function
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthenticated(c)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(m.secret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthenticated(c)
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Set("subject", sub)
			}
		}

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	authErr := errors.NewNotAuthenticatedError()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       authErr.Code,
			"message":    authErr.Message,
			"suggestion": authErr.Suggestion,
		},
	})
}
