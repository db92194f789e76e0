package dto

import (
	"time"

	"github.com/tempofeed/tempofeed-api/internal/models"
)

// ActivityTypeDTO represents an activity category in API responses
type ActivityTypeDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	DefaultColor string `json:"default_color"`
	Category     string `json:"category,omitempty"`
	Description  string `json:"description,omitempty"`
	IsSystem     bool   `json:"is_system"`
	Order        int    `json:"order"`
}

// ActivityPreferenceDTO represents a usage preference in API responses
type ActivityPreferenceDTO struct {
	ActivityTypeID uint64           `json:"activity_type_id"`
	UseCount       int              `json:"use_count"`
	LastUsedAt     time.Time        `json:"last_used_at"`
	ActivityType   *ActivityTypeDTO `json:"activity_type,omitempty"`
}

// ToActivityTypeDTO converts an ActivityType model to ActivityTypeDTO
func ToActivityTypeDTO(at models.ActivityType) ActivityTypeDTO {
	return ActivityTypeDTO{
		ID:           at.ID,
		Name:         at.Name,
		Icon:         at.Icon,
		DefaultColor: at.DefaultColor,
		Category:     at.Category,
		Description:  at.Description,
		IsSystem:     at.IsSystem,
		Order:        at.Order,
	}
}

// ToActivityTypeDTOs converts a slice of activity types
func ToActivityTypeDTOs(types []models.ActivityType) []ActivityTypeDTO {
	dtos := make([]ActivityTypeDTO, len(types))
	for i, at := range types {
		dtos[i] = ToActivityTypeDTO(at)
	}
	return dtos
}

// ToActivityPreferenceDTO converts a preference row to its DTO
func ToActivityPreferenceDTO(pref models.UserActivityPreference) ActivityPreferenceDTO {
	d := ActivityPreferenceDTO{
		ActivityTypeID: pref.ActivityTypeID,
		UseCount:       pref.UseCount,
		LastUsedAt:     pref.LastUsedAt,
	}
	if pref.ActivityType.ID != 0 {
		at := ToActivityTypeDTO(pref.ActivityType)
		d.ActivityType = &at
	}
	return d
}

// ToActivityPreferenceDTOs converts a slice of preferences
func ToActivityPreferenceDTOs(prefs []models.UserActivityPreference) []ActivityPreferenceDTO {
	dtos := make([]ActivityPreferenceDTO, len(prefs))
	for i, p := range prefs {
		dtos[i] = ToActivityPreferenceDTO(p)
	}
	return dtos
}
