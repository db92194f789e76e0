package repository

import (
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/utils"
)

// FeedQuery describes one page of a reverse-chronological feed request. The
// repository, not the service, is responsible for ordering (created_at DESC,
// id DESC) and for visibility: the viewer always sees their own sessions at
// every level, authors in FollowedIDs contribute everything but private, and
// any other author (a group co-member the viewer does not follow) contributes
// only everyone-visible sessions.
type FeedQuery struct {
	ViewerID    uint64
	AuthorIDs   []uint64
	FollowedIDs []uint64
	Limit       int
	Cursor      *utils.FeedCursor
}

// SessionFilter holds filtering options for listing a single user's sessions.
type SessionFilter struct {
	UserID uint64
	// Visibilities restricts results to the given levels. Empty means no
	// visibility restriction (owner view).
	Visibilities []models.SessionVisibility
	Pagination   utils.PaginationParams
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create creates a new session
	Create(session *models.Session) error

	// FindByID finds a session by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Session, error)

	// Update saves a session
	Update(session *models.Session) error

	// Delete soft deletes a session
	Delete(id uint64) error

	// ListByUser retrieves one user's sessions with pagination
	ListByUser(filter SessionFilter) ([]models.Session, int64, error)

	// GetFeedForFollowing returns sessions authored by any of the audience
	// IDs, most recent first, plus whether more pages exist
	GetFeedForFollowing(query FeedQuery) ([]models.Session, bool, error)

	// CreateSupport records a support; fails on duplicate (session, user)
	CreateSupport(support *models.SessionSupport) error

	// DeleteSupport removes a support record
	DeleteSupport(sessionID, userID uint64) error

	// FindSupport finds a support record
	FindSupport(sessionID, userID uint64) (*models.SessionSupport, error)

	// CreateComment creates a comment
	CreateComment(comment *models.SessionComment) error

	// ListComments lists comments on a session, oldest first
	ListComments(sessionID uint64, params utils.PaginationParams) ([]models.SessionComment, int64, error)
}

// GroupRepository defines the interface for group data access. Groups are
// whole aggregates: Update persists the entire row including the member and
// admin sets (last-writer-wins, no version check).
type GroupRepository interface {
	// Create creates a new group
	Create(group *models.Group) error

	// FindByID finds a group by ID
	FindByID(id uint64) (*models.Group, error)

	// Update saves the full group aggregate
	Update(group *models.Group) error

	// Delete soft deletes a group
	Delete(id uint64) error

	// ListPublic lists public groups, optionally filtered by category
	ListPublic(category string, params utils.PaginationParams) ([]models.Group, int64, error)

	// ListForUser lists every group the user is a member of
	ListForUser(userID uint64) ([]models.Group, error)
}

// FollowRepository defines the interface for the social graph
type FollowRepository interface {
	// Create records a follow edge
	Create(follow *models.Follow) error

	// Delete removes a follow edge
	Delete(followerID, followeeID uint64) error

	// Find finds a follow edge
	Find(followerID, followeeID uint64) (*models.Follow, error)

	// GetFollowingIDs returns the IDs the user follows
	GetFollowingIDs(userID uint64) ([]uint64, error)

	// GetFollowerIDs returns the IDs following the user
	GetFollowerIDs(userID uint64) ([]uint64, error)

	// ListFollowing returns the users the user follows
	ListFollowing(userID uint64) ([]models.User, error)

	// ListFollowers returns the users following the user
	ListFollowers(userID uint64) ([]models.User, error)
}

// ActivityTypeRepository defines the interface for activity type governance
// and per-user usage preferences
type ActivityTypeRepository interface {
	// Create creates a new activity type
	Create(at *models.ActivityType) error

	// FindByID finds an activity type by ID
	FindByID(id uint64) (*models.ActivityType, error)

	// Update saves an activity type
	Update(at *models.ActivityType) error

	// Delete removes an activity type
	Delete(id uint64) error

	// ListForUser returns system types unioned with the user's custom types,
	// ascending by order
	ListForUser(userID uint64) ([]models.ActivityType, error)

	// CountCustomByUser counts the user's custom (non-system) types
	CountCustomByUser(userID uint64) (int64, error)

	// CountSystem counts the seeded system types
	CountSystem() (int64, error)

	// UpsertPreference increments the use count for (userID, typeID),
	// creating the row on first use
	UpsertPreference(userID, typeID uint64) error

	// FindPreference finds a preference row
	FindPreference(userID, typeID uint64) (*models.UserActivityPreference, error)

	// ListPreferencesByUser lists a user's preferences, most used first
	ListPreferencesByUser(userID uint64) ([]models.UserActivityPreference, error)

	// DeletePreference removes the preference row for (userID, typeID)
	DeletePreference(userID, typeID uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
