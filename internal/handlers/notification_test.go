package handlers_test

import (
	"net/http"
	"testing"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/models"
)

func TestNotificationListShowsOwnNewestFirst(t *testing.T) {
	r := newTestRouter(t)
	alice := createUser(t, "alice", true)
	bob := createUser(t, "bob", true)
	cookies := login(t, r, "alice")

	db.DB.Create(&models.Notification{
		UserID: alice.ID, ActorID: &bob.ID,
		Type: models.NotificationTypeFollowUser, Reason: "@bob started following you",
	})
	db.DB.Create(&models.Notification{
		UserID: alice.ID, ActorID: &bob.ID,
		Type: models.NotificationTypeLikePost, Reason: "@bob liked your photo",
	})
	// Someone else's notification never shows up.
	db.DB.Create(&models.Notification{
		UserID: bob.ID, ActorID: &alice.ID,
		Type: models.NotificationTypeFollowUser, Reason: "@alice started following you",
	})

	w := get(r, "/notifications", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	payload := decodePayload(t, w)
	if len(payload.Data.Notifications) != 2 {
		t.Fatalf("got %d notifications, want 2", len(payload.Data.Notifications))
	}
	for _, n := range payload.Data.Notifications {
		if n.UserID != alice.ID {
			t.Errorf("notification %d belongs to user %d, not the viewer", n.ID, n.UserID)
		}
		if n.Actor.Username != "bob" {
			t.Errorf("actor not preloaded, got username %q", n.Actor.Username)
		}
	}
}

func TestReadAllMarksOnlyOwnAsRead(t *testing.T) {
	r := newTestRouter(t)
	alice := createUser(t, "alice", true)
	bob := createUser(t, "bob", true)
	cookies := login(t, r, "alice")

	db.DB.Create(&models.Notification{UserID: alice.ID, ActorID: &bob.ID, Type: models.NotificationTypeLikePost})
	db.DB.Create(&models.Notification{UserID: bob.ID, ActorID: &alice.ID, Type: models.NotificationTypeLikePost})

	w := postForm(r, "/notifications/read-all", nil, cookies)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/notifications" {
		t.Fatalf("got %d -> %q, want 302 -> /notifications", w.Code, w.Header().Get("Location"))
	}

	var unreadAlice, unreadBob int64
	db.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", alice.ID, false).Count(&unreadAlice)
	db.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", bob.ID, false).Count(&unreadBob)
	if unreadAlice != 0 {
		t.Errorf("viewer still has %d unread notifications", unreadAlice)
	}
	if unreadBob != 1 {
		t.Errorf("another user's unread count changed to %d, want 1", unreadBob)
	}
}
