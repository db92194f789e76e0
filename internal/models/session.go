package models

import (
	"time"

	"gorm.io/gorm"
)

type SessionVisibility string

const (
	VisibilityEveryone  SessionVisibility = "everyone"
	VisibilityFollowers SessionVisibility = "followers"
	VisibilityPrivate   SessionVisibility = "private"
)

// Valid reports whether v is one of the three enumerated visibility levels.
func (v SessionVisibility) Valid() bool {
	switch v {
	case VisibilityEveryone, VisibilityFollowers, VisibilityPrivate:
		return true
	}
	return false
}

// Session is a finalized tracked activity period.
type Session struct {
	ID              uint64            `gorm:"primarykey" json:"id"`
	UserID          uint64            `gorm:"not null;index" json:"user_id"`
	ActivityTypeID  uint64            `gorm:"not null" json:"activity_type_id"`
	Title           string            `gorm:"type:varchar(255);not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description"`
	DurationSeconds int64             `gorm:"not null" json:"duration_seconds"`
	StartedAt       time.Time         `json:"started_at"`
	Visibility      SessionVisibility `gorm:"type:varchar(20);not null;default:'everyone';index" json:"visibility"`
	SupportCount    int               `gorm:"not null;default:0" json:"support_count"`
	CommentCount    int               `gorm:"not null;default:0" json:"comment_count"`
	Tags            []string          `gorm:"serializer:json" json:"tags"`
	Images          []string          `gorm:"serializer:json" json:"images"`
	CreatedAt       time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relations
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ActivityType ActivityType `gorm:"foreignKey:ActivityTypeID" json:"activity_type,omitempty"`
}

// SessionSupport records that a user supported a session. The composite key
// keeps support unique per (session, user) pair.
type SessionSupport struct {
	SessionID uint64    `gorm:"primarykey" json:"session_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionComment struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	SessionID uint64         `gorm:"not null;index" json:"session_id"`
	UserID    uint64         `gorm:"not null" json:"user_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
