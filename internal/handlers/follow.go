package handlers

import (
	"errors"
	"net/http"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/middleware"
	"github.com/jsurrea/PicScape/internal/models"
	"github.com/jsurrea/PicScape/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FollowHandler struct{}

func NewFollowHandler() *FollowHandler {
	return &FollowHandler{}
}

// Toggle - GET /f/:username
// Same unique-pair flip as the like toggle, keyed on (follower, followee).
// Following yourself is rejected outright.
func (h *FollowHandler) Toggle(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	username := c.Param("username")

	var target models.User
	if err := db.DB.Where("username = ?", username).First(&target).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	if target.ID == user.ID {
		RenderError(c, http.StatusBadRequest, "You cannot follow yourself")
		return
	}

	created := false
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		if err := tx.Where("follower_id = ? AND followee_id = ?", user.ID, target.ID).First(&existing).Error; err == nil {
			return tx.Delete(&existing).Error
		}
		if err := tx.Create(&models.Follow{FollowerID: user.ID, FolloweeID: target.ID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save your follow")
		return
	}

	if created {
		services.NotifyFollowedAsync(&target, user)
	}

	c.Redirect(http.StatusFound, "/u/"+target.Username)
}
