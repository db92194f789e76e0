package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tempofeed/tempofeed-api/internal/constants"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrActivityTypeNotFound       = errors.New("activity type not found")
	ErrActivityTypeFieldsRequired = errors.New("name, icon, and color are required")
	ErrSystemActivityType         = errors.New("cannot update or delete default activity types")
	ErrCustomActivityTypeQuota    = fmt.Errorf(
		"maximum custom activities reached (%d): delete an existing custom activity to create a new one",
		constants.MaxCustomActivityTypes,
	)
)

// ActivityTypeService manages the union of fixed system activity categories
// and user-defined custom categories. System types are immutable and
// undeletable; custom types are capped at a per-user quota that is re-counted
// on every create.
type ActivityTypeService struct {
	typeRepo repository.ActivityTypeRepository
}

// NewActivityTypeService creates a new ActivityTypeService.
func NewActivityTypeService(typeRepo repository.ActivityTypeRepository) *ActivityTypeService {
	return &ActivityTypeService{
		typeRepo: typeRepo,
	}
}

// CreateActivityTypeInput holds the fields for a new custom type.
type CreateActivityTypeInput struct {
	Name         string
	Icon         string
	DefaultColor string
	Category     string
	Description  string
}

// Create adds a custom activity type for the user. Duplicate names are
// permitted; the quota is the only cap.
func (s *ActivityTypeService) Create(userID uint64, input CreateActivityTypeInput) (*models.ActivityType, error) {
	name := strings.TrimSpace(input.Name)
	icon := strings.TrimSpace(input.Icon)
	color := strings.TrimSpace(input.DefaultColor)
	if name == "" || icon == "" || color == "" {
		return nil, ErrActivityTypeFieldsRequired
	}

	customCount, err := s.typeRepo.CountCustomByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count custom activity types: %w", err)
	}
	if customCount >= constants.MaxCustomActivityTypes {
		return nil, ErrCustomActivityTypeQuota
	}

	systemCount, err := s.typeRepo.CountSystem()
	if err != nil {
		return nil, fmt.Errorf("failed to count system activity types: %w", err)
	}

	at := &models.ActivityType{
		Name:         name,
		Icon:         icon,
		DefaultColor: color,
		Category:     input.Category,
		Description:  input.Description,
		IsSystem:     false,
		UserID:       &userID,
		Order:        int(systemCount) + int(customCount) + 1,
	}

	if err := s.typeRepo.Create(at); err != nil {
		return nil, fmt.Errorf("failed to create activity type: %w", err)
	}

	return at, nil
}

// UpdateActivityTypeInput holds the mutable custom type fields.
type UpdateActivityTypeInput struct {
	Name         *string
	Icon         *string
	DefaultColor *string
	Category     *string
	Description  *string
}

// Update edits a custom activity type. System types reject regardless of
// caller; custom types owned by someone else read as not found.
func (s *ActivityTypeService) Update(id, userID uint64, input UpdateActivityTypeInput) (*models.ActivityType, error) {
	at, err := s.findOwned(id, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrActivityTypeFieldsRequired
		}
		at.Name = strings.TrimSpace(*input.Name)
	}
	if input.Icon != nil {
		if strings.TrimSpace(*input.Icon) == "" {
			return nil, ErrActivityTypeFieldsRequired
		}
		at.Icon = strings.TrimSpace(*input.Icon)
	}
	if input.DefaultColor != nil {
		if strings.TrimSpace(*input.DefaultColor) == "" {
			return nil, ErrActivityTypeFieldsRequired
		}
		at.DefaultColor = strings.TrimSpace(*input.DefaultColor)
	}
	if input.Category != nil {
		at.Category = *input.Category
	}
	if input.Description != nil {
		at.Description = *input.Description
	}

	if err := s.typeRepo.Update(at); err != nil {
		return nil, fmt.Errorf("failed to update activity type: %w", err)
	}

	return at, nil
}

// Delete removes a custom activity type and cascades the owner's usage
// preference for it. Freed quota is usable on the very next create.
func (s *ActivityTypeService) Delete(id, userID uint64) error {
	if _, err := s.findOwned(id, userID); err != nil {
		return err
	}

	if err := s.typeRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete activity type: %w", err)
	}

	if err := s.typeRepo.DeletePreference(userID, id); err != nil {
		return fmt.Errorf("failed to delete activity preference: %w", err)
	}

	return nil
}

// GetAll returns system types unioned with the user's custom types, sorted
// ascending by order.
func (s *ActivityTypeService) GetAll(userID uint64) ([]models.ActivityType, error) {
	types, err := s.typeRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity types: %w", err)
	}
	return types, nil
}

// RecordUse upserts the user's preference for the type, incrementing its use
// count. Called whenever a session is filed under the type.
func (s *ActivityTypeService) RecordUse(userID, typeID uint64) error {
	if err := s.typeRepo.UpsertPreference(userID, typeID); err != nil {
		return fmt.Errorf("failed to record activity use: %w", err)
	}
	return nil
}

// GetPreferences lists the user's activity preferences, most used first.
func (s *ActivityTypeService) GetPreferences(userID uint64) ([]models.UserActivityPreference, error) {
	prefs, err := s.typeRepo.ListPreferencesByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity preferences: %w", err)
	}
	return prefs, nil
}

// findOwned loads a type and rejects system types and other users' custom
// types.
func (s *ActivityTypeService) findOwned(id, userID uint64) (*models.ActivityType, error) {
	at, err := s.typeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityTypeNotFound
		}
		return nil, fmt.Errorf("failed to find activity type: %w", err)
	}

	if at.IsSystem {
		return nil, ErrSystemActivityType
	}
	if at.UserID == nil || *at.UserID != userID {
		return nil, ErrActivityTypeNotFound
	}

	return at, nil
}
