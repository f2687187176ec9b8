package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/middleware"
	"github.com/jsurrea/PicScape/internal/models"
	"github.com/jsurrea/PicScape/internal/services"
	"github.com/jsurrea/PicScape/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LikeHandler struct{}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{}
}

// Toggle - GET /l/:id
// Flips membership of the (user, post) pair: one row deleted when present,
// one row inserted when absent, then back to the detail view. The
// check-then-act runs in a single transaction; a duplicate insert racing
// past the check is absorbed by the unique index on the pair.
func (h *LikeHandler) Toggle(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	id := utils.StringToInt(c.Param("id"))
	if id <= 0 {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}
	postID := uint(id)

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	created := false
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		if err := tx.Where("user_id = ? AND post_id = ?", user.ID, postID).First(&existing).Error; err == nil {
			return tx.Delete(&existing).Error
		}
		if err := tx.Create(&models.Like{UserID: user.ID, PostID: postID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent toggle inserted first; the pair is present,
				// which is all the unique index promises.
				return nil
			}
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save your like")
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("post:detail:shared:%d", postID))

	if created {
		services.NotifyLikedAsync(&post, user)
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", postID))
}
