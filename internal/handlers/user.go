package handlers

import (
	"net/http"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/middleware"
	"github.com/jsurrea/PicScape/internal/models"
	"github.com/jsurrea/PicScape/internal/services"
	"github.com/jsurrea/PicScape/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	storage *services.PhotoStorage
}

func NewUserHandler() *UserHandler {
	return &UserHandler{
		storage: services.NewPhotoStorage(),
	}
}

// Profile - GET /u/:username
// Public profile: the user's posts plus counters derived from the relation
// tables at read time. Nothing here trusts a stored counter.
func (h *UserHandler) Profile(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	var profile models.Profile
	if err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}
	profile.User = user

	db.DB.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&profile.PostsCount)
	db.DB.Model(&models.Follow{}).Where("followee_id = ?", user.ID).Count(&profile.FollowersCount)
	db.DB.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&profile.FollowingCount)

	viewerID := currentUserID(c)
	if viewerID != 0 && viewerID != user.ID {
		var follow models.Follow
		profile.IsFollowing = db.DB.Where("follower_id = ? AND followee_id = ?", viewerID, user.ID).First(&follow).Error == nil
	}

	var posts []models.Post
	db.DB.Preload("User").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&posts)

	fillLikesCounts(posts)
	fillLiking(posts, viewerID)

	Render(c, http.StatusOK, "users/detail.html", gin.H{
		"Title":         "@" + user.Username,
		"User":          user,
		"Profile":       profile,
		"BiographyHTML": utils.RenderBiography(profile.Biography),
		"Posts":         posts,
	})
}

// ShowEdit - GET /me
func (h *UserHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var profile models.Profile
	if err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Profile not found")
		return
	}

	Render(c, http.StatusOK, "users/me.html", gin.H{
		"Title":   "Edit profile",
		"User":    user,
		"Profile": profile,
		"Success": c.Query("success") == "1",
	})
}

// Update - POST /me
// Website, biography and phone come from the form; the picture is an
// optional upload stored as users/pictures/<username>.<ext>, overwriting
// any previous one.
func (h *UserHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var profile models.Profile
	if err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Profile not found")
		return
	}

	profile.Website = c.PostForm("website")
	profile.Biography = c.PostForm("biography")
	profile.PhoneNumber = c.PostForm("phone_number")

	if file, header, err := c.Request.FormFile("picture"); err == nil {
		defer file.Close()
		pictureURL, err := h.storage.SaveProfilePicture(file, header, user.Username)
		if err != nil {
			Render(c, http.StatusBadRequest, "users/me.html", gin.H{
				"Error":   uploadErrorMessage(err),
				"User":    user,
				"Profile": profile,
			})
			return
		}
		profile.Picture = pictureURL
	}

	if err := db.DB.Save(&profile).Error; err != nil {
		Render(c, http.StatusInternalServerError, "users/me.html", gin.H{
			"Error":   "Could not save your profile",
			"User":    user,
			"Profile": profile,
		})
		return
	}

	c.Redirect(http.StatusFound, "/me?success=1")
}
