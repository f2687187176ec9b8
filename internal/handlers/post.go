package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/middleware"
	"github.com/jsurrea/PicScape/internal/models"
	"github.com/jsurrea/PicScape/internal/services"
	"github.com/jsurrea/PicScape/internal/utils"

	"github.com/gin-gonic/gin"
)

const feedPerPage = 5

type PostHandler struct {
	storage *services.PhotoStorage
}

func NewPostHandler() *PostHandler {
	return &PostHandler{
		storage: services.NewPhotoStorage(),
	}
}

// fillLikesCounts batch-fills LikesCount for a page of posts with a single
// grouped count query.
func fillLikesCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type CountResult struct {
		PostID uint
		Count  int64
	}
	var results []CountResult
	db.DB.Model(&models.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int64)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].LikesCount = countMap[posts[i].ID]
	}
}

// fillLiking marks the posts the viewer has liked, one IN query for the page.
func fillLiking(posts []models.Post, userID uint) {
	if len(posts) == 0 || userID == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var liked []uint
	db.DB.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked)

	likedMap := make(map[uint]bool, len(liked))
	for _, id := range liked {
		likedMap[id] = true
	}

	for i := range posts {
		posts[i].IsLiking = likedMap[posts[i].ID]
	}
}

func currentUserID(c *gin.Context) uint {
	if user, exists := c.Get(middleware.CheckUserKey); exists && user != nil {
		return user.(*models.User).ID
	}
	return 0
}

// Feed - GET /feed, newest first, five posts per page.
func (h *PostHandler) Feed(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	offset := (page - 1) * feedPerPage

	var total int64
	db.DB.Model(&models.Post{}).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(feedPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	db.DB.Preload("User").
		Order("created_at DESC").
		Limit(feedPerPage).
		Offset(offset).
		Find(&posts)

	fillLikesCounts(posts)
	fillLiking(posts, currentUserID(c))

	Render(c, http.StatusOK, "posts/feed.html", gin.H{
		"Title":       "Feed",
		"Posts":       posts,
		"CurrentPage": page,
		"TotalPages":  totalPages,
	})
}

// detailSnapshot is the viewer-independent part of a detail page. It is
// cached by value; requests never see each other's page maps.
type detailSnapshot struct {
	Post       models.Post
	LikesCount int64
}

// pageData builds a fresh render map for one request, layering the
// viewer-private IsLiking flag over the shared snapshot.
func (snap detailSnapshot) pageData(userID uint) gin.H {
	return gin.H{
		"Title":      snap.Post.Title,
		"Post":       snap.Post,
		"LikesCount": snap.LikesCount,
		"IsLiking":   isLiking(userID, snap.Post.ID),
	}
}

// Detail - GET /posts/:id
// The shared portion (post, author, like count) is cached briefly; every
// request, cache hit or miss, renders through its own map so concurrent
// viewers never write to shared state.
func (h *PostHandler) Detail(c *gin.Context) {
	id := utils.StringToInt(c.Param("id"))
	if id <= 0 {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}
	postID := uint(id)
	userID := currentUserID(c)

	cacheKey := fmt.Sprintf("post:detail:shared:%d", postID)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if snap, ok := cached.(detailSnapshot); ok {
			Render(c, http.StatusOK, "posts/detail.html", snap.pageData(userID))
			return
		}
	}

	var post models.Post
	if err := db.DB.Preload("User").First(&post, postID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	var likesCount int64
	db.DB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likesCount)
	post.LikesCount = likesCount

	snap := detailSnapshot{Post: post, LikesCount: likesCount}
	utils.GetCache().Set(cacheKey, snap, 5*time.Minute)

	Render(c, http.StatusOK, "posts/detail.html", snap.pageData(userID))
}

func isLiking(userID, postID uint) bool {
	if userID == 0 {
		return false
	}
	var like models.Like
	return db.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error == nil
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "posts/new.html", gin.H{
		"Title": "New post",
	})
}

// Create - POST /p/new, multipart {title, photo}; redirects to the detail
// view on success.
func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	title := c.PostForm("title")
	if title == "" {
		Render(c, http.StatusBadRequest, "posts/new.html", gin.H{"Error": "Title is required"})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		Render(c, http.StatusBadRequest, "posts/new.html", gin.H{"Error": "A photo is required", "PostTitle": title})
		return
	}
	defer file.Close()

	photoURL, err := h.storage.SavePostPhoto(file, header, user.Username)
	if err != nil {
		Render(c, http.StatusBadRequest, "posts/new.html", gin.H{"Error": uploadErrorMessage(err), "PostTitle": title})
		return
	}

	post := models.Post{
		UserID: user.ID,
		Title:  title,
		Photo:  photoURL,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		Render(c, http.StatusInternalServerError, "posts/new.html", gin.H{"Error": "Could not publish the post", "PostTitle": title})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", post.ID))
}

func uploadErrorMessage(err error) string {
	switch err {
	case services.ErrNotAnImage:
		return "Only image files are allowed"
	case services.ErrTooLarge:
		return "Images can be at most 10MB"
	default:
		return "Upload failed, please try again"
	}
}
