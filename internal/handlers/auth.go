package handlers

import (
	"net/http"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/models"
	"github.com/jsurrea/PicScape/internal/services"
	"github.com/jsurrea/PicScape/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "auth/signup.html", nil)
}

// signupError re-renders the signup form with an inline error and the
// submitted values, nothing persisted.
func signupError(c *gin.Context, message string) {
	Render(c, http.StatusBadRequest, "auth/signup.html", gin.H{
		"Error":     message,
		"Username":  c.PostForm("username"),
		"Email":     c.PostForm("email"),
		"FirstName": c.PostForm("first_name"),
		"LastName":  c.PostForm("last_name"),
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	confirmation := c.PostForm("password_confirmation")
	firstName := c.PostForm("first_name")
	lastName := c.PostForm("last_name")
	email := c.PostForm("email")

	if len(username) < 4 {
		signupError(c, "Username must be at least 4 characters")
		return
	}
	if password == "" || password != confirmation {
		signupError(c, "Passwords don't match")
		return
	}
	if email == "" {
		signupError(c, "Email is required")
		return
	}

	var taken int64
	db.DB.Model(&models.User{}).Where("username = ?", username).Count(&taken)
	if taken > 0 {
		signupError(c, "Username is already in use")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	// User and Profile land together or not at all: the gate relies on
	// every account having exactly one profile row.
	user := models.User{
		Username:  username,
		Email:     email,
		Password:  hash,
		FirstName: firstName,
		LastName:  lastName,
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: user.ID}).Error
	})
	if err != nil {
		signupError(c, "Username or email is already in use")
		return
	}

	h.mailService.SendWelcomeEmail(email, username)

	Render(c, http.StatusOK, "auth/login.html", gin.H{"Success": "Account created, please log in"})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid username and password"})
		return
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid username and password"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/feed")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}
