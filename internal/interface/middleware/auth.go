package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gharbhada/gharbhada-api/pkg/helpers"
	"github.com/gharbhada/gharbhada-api/pkg/response"
)

// Auth validates the access token and ensures a live session exists in
// Redis. On success it sets userID, userEmail, and userRole in the Gin
// context. Suspension drops the session, so a suspended account fails
// here even with a still-valid token.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set("userID", data["user_id"])
		c.Set("userEmail", data["email"])
		c.Set("userRole", data["role"])
		c.Next()
	}
}

// RequireAdmin gates a route group on the admin role. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != "admin" {
			response.Error[any](c, http.StatusForbidden, "admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
