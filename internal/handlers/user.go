package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tempofeed/tempofeed-api/internal/dto"
	apierrors "github.com/tempofeed/tempofeed-api/internal/errors"
	"github.com/tempofeed/tempofeed-api/internal/middleware"
	"github.com/tempofeed/tempofeed-api/internal/services"
)

// UserHandler coordinates user profile and follow-graph HTTP handlers.
type UserHandler struct {
	authService   *services.AuthService
	followService *services.FollowService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, followService *services.FollowService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		followService: followService,
	}
}

// GetUser returns a user's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(targetID)
	if err != nil {
		respondFollowError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Follow makes the caller follow the target user.
func (h *UserHandler) Follow(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.followService.Follow(userID, targetID); err != nil {
		respondFollowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully followed user",
	})
}

// Unfollow removes the caller's follow of the target user.
func (h *UserHandler) Unfollow(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(userID, targetID); err != nil {
		respondFollowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully unfollowed user",
	})
}

// ListFollowing lists the users the target user follows.
func (h *UserHandler) ListFollowing(c *gin.Context) {
	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	users, err := h.followService.ListFollowing(targetID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch following")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
	})
}

// ListFollowers lists the users following the target user.
func (h *UserHandler) ListFollowers(c *gin.Context) {
	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	users, err := h.followService.ListFollowers(targetID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch followers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
	})
}

func parseUserID(c *gin.Context) (uint64, bool) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, false
	}
	return userID, true
}

func respondFollowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrCannotFollowSelf):
		apierrors.BadRequest(c, "Cannot follow yourself")
	case errors.Is(err, services.ErrAlreadyFollowing):
		apierrors.Conflict(c, "Already following this user")
	case errors.Is(err, services.ErrNotFollowing):
		apierrors.Conflict(c, "Not following this user")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
