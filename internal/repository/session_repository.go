package repository

import (
	"github.com/tempofeed/tempofeed-api/internal/constants"
	"github.com/tempofeed/tempofeed-api/internal/database"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/utils"
	"gorm.io/gorm"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create creates a new session
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// FindByID finds a session by ID with optional preloading
func (r *GormSessionRepository) FindByID(id uint64, preload ...string) (*models.Session, error) {
	var session models.Session
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&session, id).Error; err != nil {
		return nil, err
	}

	return &session, nil
}

// Update saves a session
func (r *GormSessionRepository) Update(session *models.Session) error {
	return r.db.Save(session).Error
}

// Delete soft deletes a session together with its supports and comments
func (r *GormSessionRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionSupport{}).Error; err != nil {
			return err
		}

		if err := tx.Where("session_id = ?", id).Delete(&models.SessionComment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Session{}, id).Error
	})
}

// ListByUser retrieves one user's sessions, most recent first
func (r *GormSessionRepository) ListByUser(filter SessionFilter) ([]models.Session, int64, error) {
	query := r.db.Model(&models.Session{}).Where("user_id = ?", filter.UserID)

	if len(filter.Visibilities) > 0 {
		query = query.Where("visibility IN ?", filter.Visibilities)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC, id DESC")
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	var sessions []models.Session
	if err := listQuery.Preload("ActivityType").Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

// GetFeedForFollowing returns one page of the reverse-chronological feed for
// the audience IDs. Ordering (created_at DESC, id DESC) is a contract of this
// method: callers do not re-sort. The viewer's own sessions are returned at
// every visibility level; followed authors contribute everything but private;
// authors the viewer does not follow contribute only everyone-visible rows.
func (r *GormSessionRepository) GetFeedForFollowing(query FeedQuery) ([]models.Session, bool, error) {
	if len(query.AuthorIDs) == 0 {
		return []models.Session{}, false, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = constants.DefaultFeedPageSize
	}

	visible := r.db.
		Where("user_id = ?", query.ViewerID).
		Or("visibility = ?", models.VisibilityEveryone)
	if len(query.FollowedIDs) > 0 {
		visible = visible.Or(
			"(user_id IN ? AND visibility <> ?)",
			query.FollowedIDs, models.VisibilityPrivate,
		)
	}

	q := r.db.
		Where("user_id IN ?", query.AuthorIDs).
		Where(visible)

	if query.Cursor != nil {
		q = q.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID,
		)
	}

	// Fetch one extra row to detect whether another page exists.
	var sessions []models.Session
	err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Preload("User").
		Preload("ActivityType").
		Find(&sessions).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := false
	if len(sessions) > limit {
		hasMore = true
		sessions = sessions[:limit]
	}

	return sessions, hasMore, nil
}

// CreateSupport records a support
func (r *GormSessionRepository) CreateSupport(support *models.SessionSupport) error {
	return r.db.Create(support).Error
}

// DeleteSupport removes a support record
func (r *GormSessionRepository) DeleteSupport(sessionID, userID uint64) error {
	return r.db.Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.SessionSupport{}).Error
}

// FindSupport finds a support record
func (r *GormSessionRepository) FindSupport(sessionID, userID uint64) (*models.SessionSupport, error) {
	var support models.SessionSupport
	if err := r.db.Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&support).Error; err != nil {
		return nil, err
	}
	return &support, nil
}

// CreateComment creates a comment
func (r *GormSessionRepository) CreateComment(comment *models.SessionComment) error {
	return r.db.Create(comment).Error
}

// ListComments lists comments on a session, oldest first
func (r *GormSessionRepository) ListComments(sessionID uint64, params utils.PaginationParams) ([]models.SessionComment, int64, error) {
	query := r.db.Model(&models.SessionComment{}).Where("session_id = ?", sessionID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at ASC, id ASC")
	if params.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(params))
	}

	var comments []models.SessionComment
	if err := listQuery.Preload("User").Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}
