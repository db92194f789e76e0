package repository

import (
	"github.com/tempofeed/tempofeed-api/internal/models"
	"gorm.io/gorm"
)

// GormFollowRepository is a GORM implementation of FollowRepository
type GormFollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &GormFollowRepository{db: db}
}

// Create records a follow edge
func (r *GormFollowRepository) Create(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

// Delete removes a follow edge
func (r *GormFollowRepository) Delete(followerID, followeeID uint64) error {
	return r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

// Find finds a follow edge
func (r *GormFollowRepository) Find(followerID, followeeID uint64) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&follow).Error; err != nil {
		return nil, err
	}
	return &follow, nil
}

// GetFollowingIDs returns the IDs the user follows
func (r *GormFollowRepository) GetFollowingIDs(userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetFollowerIDs returns the IDs following the user
func (r *GormFollowRepository) GetFollowerIDs(userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListFollowing returns the users the user follows
func (r *GormFollowRepository) ListFollowing(userID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListFollowers returns the users following the user
func (r *GormFollowRepository) ListFollowers(userID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
