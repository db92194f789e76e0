package services

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"github.com/tempofeed/tempofeed-api/internal/utils"
	"gorm.io/gorm"
)

// fakeFollowRepository is an in-memory FollowRepository.
type fakeFollowRepository struct {
	following map[uint64][]uint64
}

func newFakeFollowRepository() *fakeFollowRepository {
	return &fakeFollowRepository{following: make(map[uint64][]uint64)}
}

func (r *fakeFollowRepository) Create(follow *models.Follow) error {
	r.following[follow.FollowerID] = append(r.following[follow.FollowerID], follow.FolloweeID)
	return nil
}

func (r *fakeFollowRepository) Delete(followerID, followeeID uint64) error {
	edges := r.following[followerID]
	for i, id := range edges {
		if id == followeeID {
			r.following[followerID] = append(edges[:i], edges[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFollowRepository) Find(followerID, followeeID uint64) (*models.Follow, error) {
	for _, id := range r.following[followerID] {
		if id == followeeID {
			return &models.Follow{FollowerID: followerID, FolloweeID: followeeID}, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFollowRepository) GetFollowingIDs(userID uint64) ([]uint64, error) {
	return append([]uint64{}, r.following[userID]...), nil
}

func (r *fakeFollowRepository) GetFollowerIDs(userID uint64) ([]uint64, error) {
	var followers []uint64
	for follower, edges := range r.following {
		for _, id := range edges {
			if id == userID {
				followers = append(followers, follower)
			}
		}
	}
	return followers, nil
}

func (r *fakeFollowRepository) ListFollowing(userID uint64) ([]models.User, error) {
	return nil, nil
}

func (r *fakeFollowRepository) ListFollowers(userID uint64) ([]models.User, error) {
	return nil, nil
}

// fakeFeedSessionRepository implements SessionRepository over a fixed slice.
// It records the last FeedQuery so tests can assert the audience set the
// service built.
type fakeFeedSessionRepository struct {
	sessions  []models.Session
	lastQuery repository.FeedQuery
}

func (r *fakeFeedSessionRepository) Create(session *models.Session) error { return nil }
func (r *fakeFeedSessionRepository) Update(session *models.Session) error { return nil }
func (r *fakeFeedSessionRepository) Delete(id uint64) error               { return nil }

func (r *fakeFeedSessionRepository) FindByID(id uint64, preload ...string) (*models.Session, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFeedSessionRepository) ListByUser(filter repository.SessionFilter) ([]models.Session, int64, error) {
	return nil, 0, nil
}

func (r *fakeFeedSessionRepository) GetFeedForFollowing(query repository.FeedQuery) ([]models.Session, bool, error) {
	r.lastQuery = query

	if len(query.AuthorIDs) == 0 {
		return []models.Session{}, false, nil
	}

	audience := make(map[uint64]bool, len(query.AuthorIDs))
	for _, id := range query.AuthorIDs {
		audience[id] = true
	}
	followed := make(map[uint64]bool, len(query.FollowedIDs))
	for _, id := range query.FollowedIDs {
		followed[id] = true
	}

	var matched []models.Session
	for _, s := range r.sessions {
		if !audience[s.UserID] {
			continue
		}
		if s.UserID != query.ViewerID && s.Visibility != models.VisibilityEveryone {
			if !followed[s.UserID] || s.Visibility == models.VisibilityPrivate {
				continue
			}
		}
		if query.Cursor != nil {
			if s.CreatedAt.After(query.Cursor.CreatedAt) {
				continue
			}
			if s.CreatedAt.Equal(query.Cursor.CreatedAt) && s.ID >= query.Cursor.ID {
				continue
			}
		}
		matched = append(matched, s)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	limit := query.Limit
	hasMore := len(matched) > limit
	if hasMore {
		matched = matched[:limit]
	}

	return matched, hasMore, nil
}

func (r *fakeFeedSessionRepository) CreateSupport(support *models.SessionSupport) error { return nil }
func (r *fakeFeedSessionRepository) DeleteSupport(sessionID, userID uint64) error       { return nil }

func (r *fakeFeedSessionRepository) FindSupport(sessionID, userID uint64) (*models.SessionSupport, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFeedSessionRepository) CreateComment(comment *models.SessionComment) error { return nil }

func (r *fakeFeedSessionRepository) ListComments(sessionID uint64, params utils.PaginationParams) ([]models.SessionComment, int64, error) {
	return nil, 0, nil
}

func feedSession(id, userID uint64, visibility models.SessionVisibility, createdAt time.Time) models.Session {
	return models.Session{
		ID:         id,
		UserID:     userID,
		Title:      "session",
		Visibility: visibility,
		CreatedAt:  createdAt,
	}
}

func TestFeedService_OwnPrivateSessionWithNoFollowing(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	sessionRepo := &fakeFeedSessionRepository{
		sessions: []models.Session{
			feedSession(1, 7, models.VisibilityPrivate, now),
		},
	}
	service := NewFeedService(sessionRepo, newFakeFollowRepository(), newFakeGroupRepository())

	page, err := service.GetFeed(7, GetFeedInput{})
	require.NoError(t, err)

	// With an empty following list the audience is exactly the requester, and
	// their own private sessions are still visible.
	require.Equal(t, []uint64{7}, sessionRepo.lastQuery.AuthorIDs)
	require.Len(t, page.Sessions, 1)
	require.Equal(t, uint64(1), page.Sessions[0].ID)
	require.False(t, page.HasMore)
	require.Empty(t, page.NextCursor)
}

func TestFeedService_AudienceIncludesFollowedUsers(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	sessionRepo := &fakeFeedSessionRepository{
		sessions: []models.Session{
			feedSession(1, 2, models.VisibilityEveryone, now.Add(-time.Minute)),
			feedSession(2, 3, models.VisibilityEveryone, now),
			feedSession(3, 4, models.VisibilityEveryone, now), // not followed
		},
	}
	followRepo := newFakeFollowRepository()
	followRepo.following[1] = []uint64{2, 3}

	service := NewFeedService(sessionRepo, followRepo, newFakeGroupRepository())

	page, err := service.GetFeed(1, GetFeedInput{Type: FeedTypeFollowing})
	require.NoError(t, err)

	require.Equal(t, []uint64{1, 2, 3}, sessionRepo.lastQuery.AuthorIDs)
	require.Len(t, page.Sessions, 2)
	require.Equal(t, uint64(2), page.Sessions[0].ID)
	require.Equal(t, uint64(1), page.Sessions[1].ID)
}

func TestFeedService_SelfFollowDoesNotDuplicate(t *testing.T) {
	sessionRepo := &fakeFeedSessionRepository{}
	followRepo := newFakeFollowRepository()
	followRepo.following[1] = []uint64{1, 2}

	service := NewFeedService(sessionRepo, followRepo, newFakeGroupRepository())

	_, err := service.GetFeed(1, GetFeedInput{})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, sessionRepo.lastQuery.AuthorIDs)
}

func TestFeedService_OtherUsersPrivateSessionsHidden(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	sessionRepo := &fakeFeedSessionRepository{
		sessions: []models.Session{
			feedSession(1, 2, models.VisibilityPrivate, now),
			feedSession(2, 2, models.VisibilityEveryone, now.Add(-time.Minute)),
		},
	}
	followRepo := newFakeFollowRepository()
	followRepo.following[1] = []uint64{2}

	service := NewFeedService(sessionRepo, followRepo, newFakeGroupRepository())

	page, err := service.GetFeed(1, GetFeedInput{})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 1)
	require.Equal(t, uint64(2), page.Sessions[0].ID)
}

func TestFeedService_Pagination(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	sessionRepo := &fakeFeedSessionRepository{
		sessions: []models.Session{
			feedSession(1, 1, models.VisibilityEveryone, now.Add(-3*time.Minute)),
			feedSession(2, 1, models.VisibilityEveryone, now.Add(-2*time.Minute)),
			feedSession(3, 1, models.VisibilityEveryone, now.Add(-time.Minute)),
		},
	}
	service := NewFeedService(sessionRepo, newFakeFollowRepository(), newFakeGroupRepository())

	page, err := service.GetFeed(1, GetFeedInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 2)
	require.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)
	require.Equal(t, uint64(3), page.Sessions[0].ID)
	require.Equal(t, uint64(2), page.Sessions[1].ID)

	// The cursor resumes after the last returned session.
	second, err := service.GetFeed(1, GetFeedInput{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Sessions, 1)
	require.Equal(t, uint64(1), second.Sessions[0].ID)
	require.False(t, second.HasMore)
}

func TestFeedService_GroupsFeedAudience(t *testing.T) {
	sessionRepo := &fakeFeedSessionRepository{}
	groupRepo := newFakeGroupRepository()

	service := NewFeedService(sessionRepo, newFakeFollowRepository(), groupRepo)
	groupService := NewGroupService(groupRepo)

	group, err := groupService.CreateGroup(CreateGroupInput{
		Name:      "Night Owls",
		CreatorID: 2,
	})
	require.NoError(t, err)
	require.NoError(t, groupService.JoinGroup(JoinGroupInput{GroupID: group.ID}, 1))
	require.NoError(t, groupService.JoinGroup(JoinGroupInput{GroupID: group.ID}, 3))

	_, err = service.GetFeed(1, GetFeedInput{Type: FeedTypeGroups})
	require.NoError(t, err)

	// Requester first, then co-members, deduplicated.
	require.Equal(t, []uint64{1, 2, 3}, sessionRepo.lastQuery.AuthorIDs)
}

func TestFeedService_GroupsFeedFollowersVisibility(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	sessionRepo := &fakeFeedSessionRepository{
		sessions: []models.Session{
			feedSession(1, 2, models.VisibilityEveryone, now.Add(-time.Minute)),
			feedSession(2, 2, models.VisibilityFollowers, now),
		},
	}
	followRepo := newFakeFollowRepository()
	groupRepo := newFakeGroupRepository()

	service := NewFeedService(sessionRepo, followRepo, groupRepo)
	groupService := NewGroupService(groupRepo)

	group, err := groupService.CreateGroup(CreateGroupInput{
		Name:      "Night Owls",
		CreatorID: 2,
	})
	require.NoError(t, err)
	require.NoError(t, groupService.JoinGroup(JoinGroupInput{GroupID: group.ID}, 1))

	// A co-member the viewer does not follow only shows everyone-visible
	// sessions; their followers-only sessions stay hidden.
	page, err := service.GetFeed(1, GetFeedInput{Type: FeedTypeGroups})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 1)
	require.Equal(t, uint64(1), page.Sessions[0].ID)
	require.Empty(t, sessionRepo.lastQuery.FollowedIDs)

	// Following the co-member unlocks their followers-only sessions.
	followRepo.following[1] = []uint64{2}

	page, err = service.GetFeed(1, GetFeedInput{Type: FeedTypeGroups})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 2)
	require.Equal(t, []uint64{2}, sessionRepo.lastQuery.FollowedIDs)
}

func TestFeedService_InvalidInput(t *testing.T) {
	service := NewFeedService(&fakeFeedSessionRepository{}, newFakeFollowRepository(), newFakeGroupRepository())

	_, err := service.GetFeed(0, GetFeedInput{})
	require.ErrorIs(t, err, ErrFeedUserRequired)

	_, err = service.GetFeed(1, GetFeedInput{Type: "trending"})
	require.ErrorIs(t, err, ErrUnsupportedFeedType)

	_, err = service.GetFeed(1, GetFeedInput{Cursor: "not-a-cursor"})
	require.ErrorIs(t, err, ErrInvalidFeedCursor)
}

func TestFeedService_CursorRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	cursor := &utils.FeedCursor{CreatedAt: now, ID: 42}

	decoded, err := utils.DecodeFeedCursor(utils.EncodeFeedCursor(cursor))
	require.NoError(t, err)
	require.True(t, decoded.CreatedAt.Equal(now))
	require.Equal(t, uint64(42), decoded.ID)
}
