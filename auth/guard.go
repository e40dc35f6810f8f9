package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cineblog/models"
	"cineblog/views"
)

// AdminUserID is the account allowed to manage posts: the first one ever
// registered. Swap IsAdmin for a role column if accounts ever get deleted.
const AdminUserID = 1

func IsAdmin(user *models.User) bool {
	return user != nil && user.ID == AdminUserID
}

// RequireAdmin answers 403 to everyone but the admin, signed in or not.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(CurrentUser(c)) {
			views.Error(c, http.StatusForbidden, "You are not allowed to do that.")
			c.Abort()
			return
		}
		c.Next()
	}
}
