package dto

import (
	"time"

	"github.com/tempofeed/tempofeed-api/internal/models"
)

// GroupDTO represents a group in API responses
type GroupDTO struct {
	ID              uint64              `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	Category        string              `json:"category,omitempty"`
	Privacy         models.GroupPrivacy `json:"privacy"`
	MemberCount     int                 `json:"member_count"`
	CreatedByUserID uint64              `json:"created_by_user_id"`
	Location        string              `json:"location,omitempty"`
	ImageURL        string              `json:"image_url,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// GroupDetailDTO adds the caller-specific membership view
type GroupDetailDTO struct {
	GroupDTO
	MemberIDs []uint64 `json:"member_ids"`
	AdminIDs  []uint64 `json:"admin_ids"`
	IsMember  bool     `json:"is_member"`
	IsAdmin   bool     `json:"is_admin"`
	IsOwner   bool     `json:"is_owner"`
}

// ToGroupDTO converts a Group model to GroupDTO
func ToGroupDTO(group models.Group) GroupDTO {
	return GroupDTO{
		ID:              group.ID,
		Name:            group.Name,
		Description:     group.Description,
		Category:        group.Category,
		Privacy:         group.Privacy,
		MemberCount:     group.MemberCount(),
		CreatedByUserID: group.CreatedByUserID,
		Location:        group.Location,
		ImageURL:        group.ImageURL,
		CreatedAt:       group.CreatedAt,
	}
}

// ToGroupDTOs converts a slice of groups
func ToGroupDTOs(groups []models.Group) []GroupDTO {
	dtos := make([]GroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = ToGroupDTO(g)
	}
	return dtos
}

// ToGroupDetailDTO converts a group to the detailed, viewer-aware DTO
func ToGroupDetailDTO(group models.Group, viewerID uint64) GroupDetailDTO {
	return GroupDetailDTO{
		GroupDTO:  ToGroupDTO(group),
		MemberIDs: group.MemberIDs.Values(),
		AdminIDs:  group.AdminIDs.Values(),
		IsMember:  group.IsMember(viewerID),
		IsAdmin:   group.IsAdmin(viewerID),
		IsOwner:   group.IsOwner(viewerID),
	}
}
