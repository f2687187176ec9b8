package models

import (
	"time"
)

// Profile extends a User with the public-facing bits. Exactly one row per
// user, created together with the account at signup.
type Profile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Website     string    `gorm:"size:200" json:"website"`
	Biography   string    `gorm:"type:text" json:"biography"`
	PhoneNumber string    `gorm:"size:20" json:"phone_number"`
	Picture     string    `json:"picture"` // media URL, empty until uploaded
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Not database columns: derived at read time, never stored
	PostsCount     int64 `gorm:"-" json:"posts_count"`
	FollowersCount int64 `gorm:"-" json:"followers_count"`
	FollowingCount int64 `gorm:"-" json:"following_count"`
	IsFollowing    bool  `gorm:"-" json:"is_following"`
}

// Complete reports whether the profile passes the completion gate.
// Both fields are required, not either one.
func (p *Profile) Complete() bool {
	return p.Picture != "" && p.Biography != ""
}
