package middleware

import (
	"strings"

	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware is a JWT bearer-token authentication middleware.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, utils.UNAUTHORIZED, "authorization header is missing, please log in again")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			utils.Error(c, utils.UNAUTHORIZED, "authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			utils.Error(c, utils.UNAUTHORIZED, "invalid token, please log in again")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			utils.Error(c, utils.UNAUTHORIZED, "wrong token type")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// AdminMiddleware rejects non-admin principals. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.Error(c, utils.UNAUTHORIZED, "not logged in")
			c.Abort()
			return
		}

		if role.(string) != "admin" {
			utils.Error(c, utils.FORBIDDEN, "admin privileges required")
			c.Abort()
			return
		}

		c.Next()
	}
}
