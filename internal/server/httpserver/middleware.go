package httpserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wayfarer-app/wayfarer/internal/common"
	"github.com/wayfarer-app/wayfarer/internal/server/auth"
)

// contextUserIDKey is the Gin context key under which the middleware stores
// the authenticated user's ID.
const contextUserIDKey = "userId"

// requireAccessToken verifies the bearer access token on protected routes.
// Verification is codec-only: access tokens are stateless and never looked
// up in the token store.
func (s *Server) requireAccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			authenticationError(c, common.ErrInvalidToken.Error())
			return
		}

		claims, err := s.codec.Verify(strings.TrimPrefix(header, "Bearer "), auth.TokenTypeAccess)
		if err != nil {
			authenticationError(c, common.ErrInvalidToken.Error())
			return
		}

		c.Set(contextUserIDKey, claims.UserID)
		c.Next()
	}
}
