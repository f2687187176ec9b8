package router

import (
	"net/http"

	"github.com/jsurrea/PicScape/internal/handlers"
	"github.com/jsurrea/PicScape/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	likeHandler := handlers.NewLikeHandler()
	followHandler := handlers.NewFollowHandler()
	userHandler := handlers.NewUserHandler()
	notificationHandler := handlers.NewNotificationHandler()

	// Public Routes
	r.GET("/signup", authHandler.ShowSignup)
	r.POST("/signup", authHandler.Signup)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/feed")
	})

	// Protected Routes: session required, then the profile-completion gate
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired(), middleware.ProfileCompletion())
	{
		authorized.GET("/feed", postHandler.Feed)
		authorized.GET("/p/new", postHandler.ShowCreate)
		authorized.POST("/p/new", postHandler.Create)
		authorized.GET("/posts/:id", postHandler.Detail)
		authorized.GET("/l/:id", likeHandler.Toggle)

		authorized.GET("/u/:username", userHandler.Profile)
		authorized.GET("/f/:username", followHandler.Toggle)

		authorized.GET("/me", userHandler.ShowEdit)
		authorized.POST("/me", userHandler.Update)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
	}
}
