package models

import (
	"time"

	"gorm.io/gorm"
)

type GroupPrivacy string

const (
	GroupPrivacyPublic  GroupPrivacy = "public"
	GroupPrivacyPrivate GroupPrivacy = "private"
)

// Valid reports whether p is a known privacy level.
func (p GroupPrivacy) Valid() bool {
	return p == GroupPrivacyPublic || p == GroupPrivacyPrivate
}

// Group is loaded, mutated, and saved as a single aggregate. Membership and
// admin lists are IDSets serialized into the row, so join/leave is a full
// read-modify-write with last-writer-wins semantics at the database.
type Group struct {
	ID              uint64         `gorm:"primarykey" json:"id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	Category        string         `gorm:"type:varchar(100);index" json:"category"`
	Privacy         GroupPrivacy   `gorm:"type:varchar(20);not null;default:'public'" json:"privacy"`
	MemberIDs       IDSet          `gorm:"serializer:json" json:"member_ids"`
	AdminIDs        IDSet          `gorm:"serializer:json" json:"admin_ids"`
	CreatedByUserID uint64         `gorm:"not null" json:"created_by_user_id"`
	Location        string         `gorm:"type:varchar(255)" json:"location"`
	ImageURL        string         `gorm:"type:varchar(512)" json:"image_url"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewGroup constructs a group with the creator normalized into both the
// member and admin sets. The creator is always a member; leave operations
// never remove them.
func NewGroup(name, description, category string, privacy GroupPrivacy, creatorID uint64) *Group {
	g := &Group{
		Name:            name,
		Description:     description,
		Category:        category,
		Privacy:         privacy,
		CreatedByUserID: creatorID,
	}
	g.MemberIDs.Add(creatorID)
	g.AdminIDs.Add(creatorID)
	return g
}

// MemberCount returns the number of members.
func (g *Group) MemberCount() int {
	return g.MemberIDs.Len()
}

// IsMember reports whether userID belongs to the group.
func (g *Group) IsMember(userID uint64) bool {
	return g.MemberIDs.Contains(userID)
}

// IsAdmin reports whether userID administers the group.
func (g *Group) IsAdmin(userID uint64) bool {
	return g.AdminIDs.Contains(userID)
}

// IsOwner reports whether userID created the group.
func (g *Group) IsOwner(userID uint64) bool {
	return g.CreatedByUserID == userID
}
