package middleware

import (
	"net/http"
	"strings"

	"github.com/jsurrea/PicScape/internal/models"

	"github.com/gin-gonic/gin"
)

const profileEditPath = "/me"
const logoutPath = "/logout"

// ProfileCompletion redirects authenticated users who have not finished
// their profile to the edit screen. A profile counts as finished only when
// it has BOTH a picture and a biography. The edit and logout endpoints are
// always reachable so users can actually complete the profile or leave.
func ProfileCompletion() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user *models.User
		if u, exists := c.Get(CheckUserKey); exists {
			user = u.(*models.User)
		}
		var profile *models.Profile
		if p, exists := c.Get(CheckProfileKey); exists {
			profile = p.(*models.Profile)
		}

		if gateAllows(user, profile, c.Request.URL.Path) {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, profileEditPath)
		c.Abort()
	}
}

// gateAllows is the whole gating decision: a pure function of the current
// identity and the requested path, with no retained state across requests.
func gateAllows(user *models.User, profile *models.Profile, path string) bool {
	if user == nil {
		return true // anonymous: the auth layer decides, not the gate
	}
	if user.IsStaff {
		return true
	}
	if strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/media/") {
		return true // assets are served outside the gate
	}
	if profile != nil && profile.Complete() {
		return true
	}
	if path == profileEditPath || path == logoutPath {
		return true
	}
	return false
}
