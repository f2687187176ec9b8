package services

import (
	"fmt"

	"github.com/jsurrea/PicScape/internal/db"
	"github.com/jsurrea/PicScape/internal/models"
)

// NotifyLiked records a notification for the post author when someone
// likes their photo. Self-likes produce nothing.
func NotifyLiked(post *models.Post, actor *models.User) {
	if post.UserID == actor.ID {
		return
	}
	notification := models.Notification{
		UserID:  post.UserID,
		ActorID: &actor.ID,
		Type:    models.NotificationTypeLikePost,
		Reason:  fmt.Sprintf("@%s liked your photo “%s”", actor.Username, post.Title),
	}
	db.DB.Create(&notification)
}

// NotifyFollowed records a notification for a user who gained a follower.
func NotifyFollowed(followee *models.User, actor *models.User) {
	if followee.ID == actor.ID {
		return
	}
	notification := models.Notification{
		UserID:  followee.ID,
		ActorID: &actor.ID,
		Type:    models.NotificationTypeFollowUser,
		Reason:  fmt.Sprintf("@%s started following you", actor.Username),
	}
	db.DB.Create(&notification)
}

// NotifyLikedAsync fires NotifyLiked on a goroutine; toggles should not
// wait on notification writes.
func NotifyLikedAsync(post *models.Post, actor *models.User) {
	p, a := *post, *actor
	go NotifyLiked(&p, &a)
}

// NotifyFollowedAsync fires NotifyFollowed on a goroutine.
func NotifyFollowedAsync(followee *models.User, actor *models.User) {
	f, a := *followee, *actor
	go NotifyFollowed(&f, &a)
}
