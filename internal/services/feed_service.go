package services

import (
	"errors"
	"fmt"

	"github.com/tempofeed/tempofeed-api/internal/constants"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"github.com/tempofeed/tempofeed-api/internal/utils"
)

var (
	ErrUnsupportedFeedType = errors.New("unsupported feed type")
	ErrFeedUserRequired    = errors.New("user id is required")
	ErrInvalidFeedCursor   = errors.New("invalid feed cursor")
)

type FeedType string

const (
	FeedTypeFollowing FeedType = "following"
	FeedTypeGroups    FeedType = "groups"
)

// FeedService composes a user's feed from their own sessions plus followed
// users' (or group co-members') sessions. It builds the audience set plus the
// viewer's following set and delegates ordering, pagination, and per-author
// visibility filtering to the session repository: group co-members the viewer
// does not follow only contribute everyone-visible sessions.
type FeedService struct {
	sessionRepo repository.SessionRepository
	followRepo  repository.FollowRepository
	groupRepo   repository.GroupRepository
}

// NewFeedService creates a new FeedService.
func NewFeedService(sessionRepo repository.SessionRepository, followRepo repository.FollowRepository, groupRepo repository.GroupRepository) *FeedService {
	return &FeedService{
		sessionRepo: sessionRepo,
		followRepo:  followRepo,
		groupRepo:   groupRepo,
	}
}

// GetFeedInput selects the feed type and page.
type GetFeedInput struct {
	Type   FeedType
	Limit  int
	Cursor string
}

// FeedPage is one page of feed results in repository order.
type FeedPage struct {
	Sessions   []models.Session
	HasMore    bool
	NextCursor string
}

// GetFeed returns one page of the requested feed. The requesting user's own
// id is always part of the audience, so a user sees their own sessions, at
// every visibility level, even with an empty following list.
func (s *FeedService) GetFeed(userID uint64, input GetFeedInput) (*FeedPage, error) {
	if userID == 0 {
		return nil, ErrFeedUserRequired
	}

	followingIDs, err := s.followRepo.GetFollowingIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch following ids: %w", err)
	}

	audience, err := s.resolveAudience(userID, input.Type, followingIDs)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = constants.DefaultFeedPageSize
	}
	if limit > constants.MaxFeedPageSize {
		limit = constants.MaxFeedPageSize
	}

	cursor, err := utils.DecodeFeedCursor(input.Cursor)
	if err != nil {
		return nil, ErrInvalidFeedCursor
	}

	sessions, hasMore, err := s.sessionRepo.GetFeedForFollowing(repository.FeedQuery{
		ViewerID:    userID,
		AuthorIDs:   audience,
		FollowedIDs: followingIDs,
		Limit:       limit,
		Cursor:      cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	page := &FeedPage{
		Sessions: sessions,
		HasMore:  hasMore,
	}
	if hasMore && len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		page.NextCursor = utils.EncodeFeedCursor(&utils.FeedCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return page, nil
}

// resolveAudience builds the deduplicated set of author IDs for the feed
// type. The requester is always included first; set semantics guard against a
// self-follow anomaly producing a duplicate.
func (s *FeedService) resolveAudience(userID uint64, feedType FeedType, followingIDs []uint64) ([]uint64, error) {
	switch feedType {
	case FeedTypeFollowing, "":
		return uniqueIDs(append([]uint64{userID}, followingIDs...)), nil

	case FeedTypeGroups:
		groups, err := s.groupRepo.ListForUser(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch groups: %w", err)
		}
		audience := []uint64{userID}
		for _, g := range groups {
			audience = append(audience, g.MemberIDs.Values()...)
		}
		return uniqueIDs(audience), nil

	default:
		return nil, ErrUnsupportedFeedType
	}
}

// uniqueIDs removes duplicate values while preserving order.
func uniqueIDs(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
