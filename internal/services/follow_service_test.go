package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"gorm.io/gorm"
)

// fakeUserRepository is an in-memory UserRepository.
type fakeUserRepository struct {
	users map[uint64]*models.User
}

func newFakeUserRepository(ids ...uint64) *fakeUserRepository {
	repo := &fakeUserRepository{users: make(map[uint64]*models.User)}
	for _, id := range ids {
		repo.users[id] = &models.User{ID: id}
	}
	return repo
}

func (r *fakeUserRepository) Create(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) FindByID(id uint64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) FindByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestFollowService_Follow(t *testing.T) {
	service := NewFollowService(newFakeFollowRepository(), newFakeUserRepository(1, 2))

	require.NoError(t, service.Follow(1, 2))

	following, err := service.IsFollowing(1, 2)
	require.NoError(t, err)
	require.True(t, following)

	// Follows are directional.
	following, err = service.IsFollowing(2, 1)
	require.NoError(t, err)
	require.False(t, following)
}

func TestFollowService_Follow_Guards(t *testing.T) {
	service := NewFollowService(newFakeFollowRepository(), newFakeUserRepository(1, 2))

	require.ErrorIs(t, service.Follow(1, 1), ErrCannotFollowSelf)
	require.ErrorIs(t, service.Follow(1, 99), ErrUserNotFound)

	require.NoError(t, service.Follow(1, 2))
	require.ErrorIs(t, service.Follow(1, 2), ErrAlreadyFollowing)
}

func TestFollowService_Unfollow(t *testing.T) {
	service := NewFollowService(newFakeFollowRepository(), newFakeUserRepository(1, 2))

	require.ErrorIs(t, service.Unfollow(1, 2), ErrNotFollowing)

	require.NoError(t, service.Follow(1, 2))
	require.NoError(t, service.Unfollow(1, 2))

	following, err := service.IsFollowing(1, 2)
	require.NoError(t, err)
	require.False(t, following)
}
