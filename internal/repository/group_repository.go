package repository

import (
	"github.com/tempofeed/tempofeed-api/internal/database"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/utils"
	"gorm.io/gorm"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a new group
func (r *GormGroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// FindByID finds a group by ID
func (r *GormGroupRepository) FindByID(id uint64) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Update saves the full group aggregate, member and admin sets included.
// There is no version column: concurrent saves are last-writer-wins.
func (r *GormGroupRepository) Update(group *models.Group) error {
	return r.db.Save(group).Error
}

// Delete soft deletes a group
func (r *GormGroupRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Group{}, id).Error
}

// ListPublic lists public groups, optionally filtered by category
func (r *GormGroupRepository) ListPublic(category string, params utils.PaginationParams) ([]models.Group, int64, error) {
	query := r.db.Model(&models.Group{}).Where("privacy = ?", models.GroupPrivacyPublic)

	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC")
	if params.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(params))
	}

	var groups []models.Group
	if err := listQuery.Find(&groups).Error; err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}

// ListForUser lists every group the user is a member of. Membership lives in
// the serialized member set, so this scans candidate rows and filters in
// memory; group counts are small enough that the document-store-style layout
// wins over a join table here.
func (r *GormGroupRepository) ListForUser(userID uint64) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.Find(&groups).Error; err != nil {
		return nil, err
	}

	member := groups[:0]
	for _, g := range groups {
		if g.IsMember(userID) {
			member = append(member, g)
		}
	}

	return member, nil
}
