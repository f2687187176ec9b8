package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/middleware"
	"github.com/jsurrea/PicScape/internal/models"
	"github.com/jsurrea/PicScape/internal/router"
	"github.com/jsurrea/PicScape/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// newTestRouter wires the real middleware chain and routes against a fresh
// in-memory database, with HTML rendering stubbed out to JSON so tests can
// inspect what a view would receive.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("MEDIA_ROOT", t.TempDir())

	dsn := fmt.Sprintf("file:picscape_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	db.DB = conn
	utils.GetCache().Purge()

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("picscape_session", store))
	r.HTMLRender = stubHTMLRender{}
	r.Use(middleware.LoadUser())
	router.RegisterRoutes(r)
	return r
}

// stubHTMLRender replaces the multitemplate renderer: it emits the template
// name and the handler's render data as JSON.
type stubHTMLRender struct{}

func (stubHTMLRender) Instance(name string, data any) render.Render {
	return stubPage{name: name, data: data}
}

type stubPage struct {
	name string
	data any
}

func (p stubPage) Render(w http.ResponseWriter) error {
	return json.NewEncoder(w).Encode(map[string]any{"template": p.name, "data": p.data})
}

func (p stubPage) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}

// renderPayload is the superset of view data the tests care about.
type renderPayload struct {
	Template string `json:"template"`
	Data     struct {
		Posts         []models.Post         `json:"Posts"`
		Post          models.Post           `json:"Post"`
		CurrentPage   int                   `json:"CurrentPage"`
		TotalPages    int                   `json:"TotalPages"`
		LikesCount    int64                 `json:"LikesCount"`
		IsLiking      bool                  `json:"IsLiking"`
		Profile       models.Profile        `json:"Profile"`
		Notifications []models.Notification `json:"Notifications"`
		Error         string                `json:"Error"`
	} `json:"data"`
}

func decodePayload(t *testing.T, w *httptest.ResponseRecorder) renderPayload {
	t.Helper()
	var payload renderPayload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode render payload: %v\nbody: %s", err, w.Body.String())
	}
	return payload
}

// createUser persists a user plus profile. complete controls whether the
// profile passes the completion gate.
func createUser(t *testing.T, username string, complete bool) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	profile := models.Profile{UserID: user.ID}
	if complete {
		profile.Picture = "/media/users/pictures/" + username + ".jpg"
		profile.Biography = "Hello, I take photos."
	}
	if err := db.DB.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile for %s: %v", username, err)
	}
	return &user
}

func createPost(t *testing.T, user *models.User, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := models.Post{
		UserID:    user.ID,
		Title:     title,
		Photo:     fmt.Sprintf("/media/posts/photos/%s-%s.jpg", user.Username, title),
		CreatedAt: createdAt,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post %q: %v", title, err)
	}
	return &post
}

// login performs a real POST /login and returns the session cookies.
func login(t *testing.T, r *gin.Engine, username string) []*http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("login for %s: got status %d, want %d", username, w.Code, http.StatusFound)
	}
	return w.Result().Cookies()
}

func get(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// multipartBody builds a multipart form with string fields plus one file
// part carrying an explicit content type.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename, contentType string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write form field %s: %v", k, err)
		}
	}
	if fileField != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, filename))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("failed to write file content: %v", err)
		}
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

// waitFor polls until cond returns true; async side effects like
// notifications land on goroutines.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
