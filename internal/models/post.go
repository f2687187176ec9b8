package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Photo     string    `gorm:"not null" json:"photo"` // media URL
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Not database columns, filled per query
	LikesCount int64 `gorm:"-" json:"likes_count"`
	IsLiking   bool  `gorm:"-" json:"is_liking"`
}
