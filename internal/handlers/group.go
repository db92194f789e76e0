package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tempofeed/tempofeed-api/internal/dto"
	apierrors "github.com/tempofeed/tempofeed-api/internal/errors"
	"github.com/tempofeed/tempofeed-api/internal/middleware"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/services"
	"github.com/tempofeed/tempofeed-api/internal/utils"
)

// GroupHandler coordinates group-related HTTP handlers.
type GroupHandler struct {
	groupService *services.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// CreateGroup creates a new group with the caller as owner.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateGroupRequest struct {
		Name        string              `json:"name" binding:"required"`
		Description string              `json:"description"`
		Category    string              `json:"category"`
		Privacy     models.GroupPrivacy `json:"privacy"`
		Location    string              `json:"location"`
		ImageURL    string              `json:"image_url"`
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.groupService.CreateGroup(services.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Privacy:     req.Privacy,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		CreatorID:   userID,
	})
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDetailDTO(*group, userID))
}

// ListGroups lists public groups, optionally filtered by category.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	category := c.Query("category")

	groups, total, err := h.groupService.ListPublicGroups(category, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": dto.ToGroupDTOs(groups),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListMyGroups lists the groups the caller belongs to.
func (h *GroupHandler) ListMyGroups(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groups, err := h.groupService.ListGroupsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": dto.ToGroupDTOs(groups),
	})
}

// GetGroup returns group details. The group is already loaded and
// access-checked by RequireGroupAccess.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupInterface, _ := c.Get("group")
	group := groupInterface.(models.Group)

	userID, _ := middleware.GetUserID(c)

	c.JSON(http.StatusOK, dto.ToGroupDetailDTO(group, userID))
}

// UpdateGroup updates group metadata. Admin only (enforced by middleware and
// re-checked in the service).
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	groupInterface, _ := c.Get("group")
	group := groupInterface.(models.Group)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateGroupRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		Location    *string `json:"location"`
		ImageURL    *string `json:"image_url"`
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.groupService.UpdateGroup(group.ID, userID, services.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDetailDTO(*updated, userID))
}

// JoinGroup adds the caller to the group's member set.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	if err := h.groupService.JoinGroup(services.JoinGroupInput{GroupID: groupID}, userID); err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully joined group",
	})
}

// LeaveGroup removes the caller from the group's member set.
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	if err := h.groupService.LeaveGroup(services.JoinGroupInput{GroupID: groupID}, userID); err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully left group",
	})
}

// CanJoin reports whether the caller could join the group. A predicate: a
// missing group answers false rather than 404.
func (h *GroupHandler) CanJoin(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	canJoin, err := h.groupService.CanUserJoin(groupID, userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to check group")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"can_join": canJoin,
	})
}

// RemoveMember removes a member from the group. Admin only.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupInterface, _ := c.Get("group")
	group := groupInterface.(models.Group)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.groupService.RemoveMember(group.ID, userID, targetID); err != nil {
		respondGroupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

func parseGroupID(c *gin.Context) (uint64, bool) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid group ID")
		return 0, false
	}
	return groupID, true
}

func respondGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGroupNotFound):
		apierrors.NotFound(c, "Group not found")
	case errors.Is(err, services.ErrGroupIDRequired):
		apierrors.BadRequest(c, "Group ID is required")
	case errors.Is(err, services.ErrInvalidGroupName):
		apierrors.BadRequest(c, "Group name cannot be empty")
	case errors.Is(err, services.ErrInvalidGroupPrivacy):
		apierrors.BadRequest(c, "Invalid group privacy")
	case errors.Is(err, services.ErrAlreadyGroupMember):
		apierrors.Conflict(c, "Already a member of this group")
	case errors.Is(err, services.ErrNotGroupMember):
		apierrors.Conflict(c, "Not a member of this group")
	case errors.Is(err, services.ErrGroupOwnerCannotLeave):
		apierrors.Forbidden(c, "Group owner cannot leave")
	case errors.Is(err, services.ErrNotGroupAdmin):
		apierrors.Forbidden(c, "Only group admins can perform this action")
	case errors.Is(err, services.ErrCannotRemoveSelf):
		apierrors.BadRequest(c, "Cannot remove yourself")
	case errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.Forbidden(c, "Cannot remove the group owner")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
