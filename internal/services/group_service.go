package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"github.com/tempofeed/tempofeed-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound         = errors.New("group not found")
	ErrGroupIDRequired       = errors.New("group id is required")
	ErrInvalidGroupName      = errors.New("group name cannot be empty")
	ErrInvalidGroupPrivacy   = errors.New("invalid group privacy")
	ErrAlreadyGroupMember    = errors.New("user is already a member of this group")
	ErrNotGroupMember        = errors.New("user is not a member of this group")
	ErrGroupOwnerCannotLeave = errors.New("group owner cannot leave")
	ErrNotGroupAdmin         = errors.New("only group admins can perform this action")
	ErrCannotRemoveSelf      = errors.New("cannot remove yourself from the group")
	ErrCannotRemoveOwner     = errors.New("cannot remove the group owner")
)

// GroupService enforces group membership invariants. Every mutation is a full
// read-modify-write of the Group aggregate: load, mutate the member set in
// memory, save the whole row. There is no optimistic lock; concurrent saves
// are last-writer-wins, matching the backing store's conflict model.
type GroupService struct {
	groupRepo repository.GroupRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
	}
}

// CreateGroupInput represents parameters to create a new group.
type CreateGroupInput struct {
	Name        string
	Description string
	Category    string
	Privacy     models.GroupPrivacy
	Location    string
	ImageURL    string
	CreatorID   uint64
}

// CreateGroup creates a new group with the creator as owner, admin, and
// first member.
func (s *GroupService) CreateGroup(input CreateGroupInput) (*models.Group, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidGroupName
	}
	if input.Privacy == "" {
		input.Privacy = models.GroupPrivacyPublic
	}
	if !input.Privacy.Valid() {
		return nil, ErrInvalidGroupPrivacy
	}

	group := models.NewGroup(input.Name, input.Description, input.Category, input.Privacy, input.CreatorID)
	group.Location = input.Location
	group.ImageURL = input.ImageURL

	if err := s.groupRepo.Create(group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetGroup returns a group by ID.
func (s *GroupService) GetGroup(groupID uint64) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return group, nil
}

// ListPublicGroups lists public groups, optionally filtered by category.
func (s *GroupService) ListPublicGroups(category string, params utils.PaginationParams) ([]models.Group, int64, error) {
	groups, total, err := s.groupRepo.ListPublic(category, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, total, nil
}

// ListGroupsForUser lists every group the user belongs to.
func (s *GroupService) ListGroupsForUser(userID uint64) ([]models.Group, error) {
	groups, err := s.groupRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	return groups, nil
}

// JoinGroupInput identifies the group to join.
type JoinGroupInput struct {
	GroupID uint64
}

// JoinGroup adds the user to the group's member set. Joining twice is an
// error, not a no-op: strict transitions by design, so callers can surface
// the conflict instead of silently succeeding.
func (s *GroupService) JoinGroup(input JoinGroupInput, userID uint64) error {
	if input.GroupID == 0 {
		return ErrGroupIDRequired
	}

	group, err := s.groupRepo.FindByID(input.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	if group.IsMember(userID) {
		return ErrAlreadyGroupMember
	}

	group.MemberIDs.Add(userID)

	if err := s.groupRepo.Update(group); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	return nil
}

// LeaveGroup removes the user from the member set. The owner has no leave
// transition: the creator is a permanent member.
func (s *GroupService) LeaveGroup(input JoinGroupInput, userID uint64) error {
	if input.GroupID == 0 {
		return ErrGroupIDRequired
	}

	group, err := s.groupRepo.FindByID(input.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	if !group.IsMember(userID) {
		return ErrNotGroupMember
	}

	// Owner is always a member, so this must come before the removal.
	if group.IsOwner(userID) {
		return ErrGroupOwnerCannotLeave
	}

	group.MemberIDs.Remove(userID)
	group.AdminIDs.Remove(userID)

	if err := s.groupRepo.Update(group); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	return nil
}

// CanUserJoin reports whether the user could join the group. It is a
// predicate, not a command: a missing group yields false rather than an
// error.
func (s *GroupService) CanUserJoin(groupID, userID uint64) (bool, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find group: %w", err)
	}

	if group.IsMember(userID) {
		return false, nil
	}

	return true, nil
}

// UpdateGroupInput holds the mutable group fields.
type UpdateGroupInput struct {
	Name        *string
	Description *string
	Category    *string
	Location    *string
	ImageURL    *string
}

// UpdateGroup updates group metadata. Admin only.
func (s *GroupService) UpdateGroup(groupID, actorID uint64, input UpdateGroupInput) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	if !group.IsAdmin(actorID) {
		return nil, ErrNotGroupAdmin
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidGroupName
		}
		group.Name = *input.Name
	}
	if input.Description != nil {
		group.Description = *input.Description
	}
	if input.Category != nil {
		group.Category = *input.Category
	}
	if input.Location != nil {
		group.Location = *input.Location
	}
	if input.ImageURL != nil {
		group.ImageURL = *input.ImageURL
	}

	if err := s.groupRepo.Update(group); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	return group, nil
}

// RemoveMember removes a member from the group. Admin only; the owner cannot
// be removed, and admins leave via LeaveGroup rather than removing
// themselves.
func (s *GroupService) RemoveMember(groupID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveSelf
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	if !group.IsAdmin(actorID) {
		return ErrNotGroupAdmin
	}
	if group.IsOwner(targetID) {
		return ErrCannotRemoveOwner
	}
	if !group.IsMember(targetID) {
		return ErrNotGroupMember
	}

	group.MemberIDs.Remove(targetID)
	group.AdminIDs.Remove(targetID)

	if err := s.groupRepo.Update(group); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	return nil
}
