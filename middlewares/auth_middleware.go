// middlewares/auth_middleware.go
package middlewares

import (
	"net/http"
	"strings"

	"github.com/udaypartap979/calorie-counter/utils"

	"github.com/gin-gonic/gin"
)

// DashboardAuth resolves an optional signed dashboard grant (?token= or
// Authorization: Bearer) into a userID on the context. A request may instead
// carry an explicit userId; the handler decides which form it requires. A
// token that is present but invalid is rejected outright.
func DashboardAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenString = strings.TrimPrefix(h, "Bearer ")
			}
		}

		if tokenString != "" {
			userID, err := utils.ParseDashboardToken(tokenString)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.Set("userID", userID)
		}

		c.Next()
	}
}
