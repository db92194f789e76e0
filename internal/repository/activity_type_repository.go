package repository

import (
	"time"

	"github.com/tempofeed/tempofeed-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormActivityTypeRepository is a GORM implementation of ActivityTypeRepository
type GormActivityTypeRepository struct {
	db *gorm.DB
}

// NewActivityTypeRepository creates a new ActivityTypeRepository
func NewActivityTypeRepository(db *gorm.DB) ActivityTypeRepository {
	return &GormActivityTypeRepository{db: db}
}

// Create creates a new activity type
func (r *GormActivityTypeRepository) Create(at *models.ActivityType) error {
	return r.db.Create(at).Error
}

// FindByID finds an activity type by ID
func (r *GormActivityTypeRepository) FindByID(id uint64) (*models.ActivityType, error) {
	var at models.ActivityType
	if err := r.db.First(&at, id).Error; err != nil {
		return nil, err
	}
	return &at, nil
}

// Update saves an activity type
func (r *GormActivityTypeRepository) Update(at *models.ActivityType) error {
	return r.db.Save(at).Error
}

// Delete removes an activity type
func (r *GormActivityTypeRepository) Delete(id uint64) error {
	return r.db.Delete(&models.ActivityType{}, id).Error
}

// ListForUser returns system types unioned with the user's custom types,
// ascending by order. System types are seeded with order 1..10 so they always
// precede custom ones in the combined view.
func (r *GormActivityTypeRepository) ListForUser(userID uint64) ([]models.ActivityType, error) {
	var types []models.ActivityType
	err := r.db.
		Where("is_system = ?", true).
		Or("user_id = ?", userID).
		Order("sort_order ASC, id ASC").
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// CountCustomByUser counts the user's custom (non-system) types
func (r *GormActivityTypeRepository) CountCustomByUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ActivityType{}).
		Where("user_id = ? AND is_system = ?", userID, false).
		Count(&count).Error
	return count, err
}

// CountSystem counts the seeded system types
func (r *GormActivityTypeRepository) CountSystem() (int64, error) {
	var count int64
	err := r.db.Model(&models.ActivityType{}).
		Where("is_system = ?", true).
		Count(&count).Error
	return count, err
}

// UpsertPreference increments the use count for (userID, typeID), creating
// the row on first use
func (r *GormActivityTypeRepository) UpsertPreference(userID, typeID uint64) error {
	now := time.Now()
	pref := models.UserActivityPreference{
		UserID:         userID,
		ActivityTypeID: typeID,
		UseCount:       1,
		LastUsedAt:     now,
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "activity_type_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"use_count":    gorm.Expr("use_count + 1"),
				"last_used_at": now,
			}),
		}).
		Create(&pref).Error
}

// FindPreference finds a preference row
func (r *GormActivityTypeRepository) FindPreference(userID, typeID uint64) (*models.UserActivityPreference, error) {
	var pref models.UserActivityPreference
	if err := r.db.Where("user_id = ? AND activity_type_id = ?", userID, typeID).
		First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// ListPreferencesByUser lists a user's preferences, most used first
func (r *GormActivityTypeRepository) ListPreferencesByUser(userID uint64) ([]models.UserActivityPreference, error) {
	var prefs []models.UserActivityPreference
	err := r.db.
		Where("user_id = ?", userID).
		Order("use_count DESC, last_used_at DESC").
		Preload("ActivityType").
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// DeletePreference removes the preference row for (userID, typeID)
func (r *GormActivityTypeRepository) DeletePreference(userID, typeID uint64) error {
	return r.db.Where("user_id = ? AND activity_type_id = ?", userID, typeID).
		Delete(&models.UserActivityPreference{}).Error
}
