package middleware

import (
	"net/http"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const CheckProfileKey = "profile"
const UnreadCountKey = "unread_count"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		// A session can outlive its user row. LoadUser runs earlier, so a
		// valid login always has the user on the context by now.
		if _, exists := c.Get(CheckUserKey); !exists {
			session.Clear()
			session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoadUser retrieves the session user and their profile and sets both on
// the context. Runs before every route; downstream middleware and handlers
// read the context instead of hitting the session again.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			if result := db.DB.First(&user, userID); result.Error == nil {
				c.Set(CheckUserKey, &user)

				var profile models.Profile
				if err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
					c.Set(CheckProfileKey, &profile)
				}

				// Fetch unread notification count for the navbar badge
				var count int64
				db.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", user.ID, false).Count(&count)
				c.Set(UnreadCountKey, count)
			}
		}
		c.Next()
	}
}
