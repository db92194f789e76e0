package services

import (
	"errors"
	"fmt"

	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// FollowService manages the social graph consumed by the following feed.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService creates a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow records that follower follows followee.
func (s *FollowService) Follow(followerID, followeeID uint64) error {
	if followerID == followeeID {
		return ErrCannotFollowSelf
	}

	if _, err := s.userRepo.FindByID(followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.followRepo.Find(followerID, followeeID); err == nil {
		return ErrAlreadyFollowing
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check follow: %w", err)
	}

	if err := s.followRepo.Create(&models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}); err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}

	return nil
}

// Unfollow removes the follow edge.
func (s *FollowService) Unfollow(followerID, followeeID uint64) error {
	if _, err := s.followRepo.Find(followerID, followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFollowing
		}
		return fmt.Errorf("failed to check follow: %w", err)
	}

	if err := s.followRepo.Delete(followerID, followeeID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	return nil
}

// IsFollowing reports whether follower follows followee.
func (s *FollowService) IsFollowing(followerID, followeeID uint64) (bool, error) {
	if _, err := s.followRepo.Find(followerID, followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return true, nil
}

// ListFollowing returns the users the user follows.
func (s *FollowService) ListFollowing(userID uint64) ([]models.User, error) {
	users, err := s.followRepo.ListFollowing(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}

// ListFollowers returns the users following the user.
func (s *FollowService) ListFollowers(userID uint64) ([]models.User, error) {
	users, err := s.followRepo.ListFollowers(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}
