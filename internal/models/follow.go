package models

import "time"

// Follow is one edge of the social graph: follower sees followee's sessions
// in their following feed.
type Follow struct {
	FollowerID uint64    `gorm:"primarykey" json:"follower_id"`
	FolloweeID uint64    `gorm:"primarykey" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}
