package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"blog-cms/helper"
)

// AccessTokenCookie carries the session token for browser clients.
const AccessTokenCookie = "access_token"

const userIDKey = "user_id"

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware accepts a token from the access_token cookie or a Bearer header.
func AuthMiddleware(secret string, h *helper.HTTPHelper) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString := bearerOrCookie(c)
		if tokenString == "" {
			h.SendUnauthorizedError(c, "Authentication required")
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid || claims.UserID == 0 {
			h.SendUnauthorizedError(c, "Token is not valid")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// UserID returns the authenticated user set by AuthMiddleware.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func bearerOrCookie(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(header, "Bearer "); token != header {
		return strings.TrimSpace(token)
	}
	return ""
}
