package models

import (
	"time"
)

// ActivityType is an activity category a session can be filed under. System
// types are seeded at boot and immutable; custom types belong to a single
// user and are capped by a per-user quota.
type ActivityType struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Icon         string    `gorm:"type:varchar(50);not null" json:"icon"`
	DefaultColor string    `gorm:"type:varchar(20);not null" json:"default_color"`
	Category     string    `gorm:"type:varchar(100)" json:"category"`
	Description  string    `gorm:"type:text" json:"description"`
	IsSystem     bool      `gorm:"not null;default:false;index" json:"is_system"`
	UserID       *uint64   `gorm:"index" json:"user_id"`
	Order        int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserActivityPreference tracks how often a user files sessions under a type.
// One row per (user, type); upserted on every use.
type UserActivityPreference struct {
	UserID         uint64    `gorm:"primarykey" json:"user_id"`
	ActivityTypeID uint64    `gorm:"primarykey" json:"activity_type_id"`
	UseCount       int       `gorm:"not null;default:0" json:"use_count"`
	LastUsedAt     time.Time `json:"last_used_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	ActivityType ActivityType `gorm:"foreignKey:ActivityTypeID" json:"activity_type,omitempty"`
}
