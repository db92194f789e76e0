package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tempofeed/tempofeed-api/internal/constants"
	"github.com/tempofeed/tempofeed-api/internal/dto"
	apierrors "github.com/tempofeed/tempofeed-api/internal/errors"
	"github.com/tempofeed/tempofeed-api/internal/middleware"
	"github.com/tempofeed/tempofeed-api/internal/services"
)

// ActivityTypeHandler coordinates activity-category HTTP handlers.
type ActivityTypeHandler struct {
	typeService *services.ActivityTypeService
}

// NewActivityTypeHandler creates a new ActivityTypeHandler.
func NewActivityTypeHandler(typeService *services.ActivityTypeService) *ActivityTypeHandler {
	return &ActivityTypeHandler{
		typeService: typeService,
	}
}

// ListActivityTypes returns system types plus the caller's custom types.
func (h *ActivityTypeHandler) ListActivityTypes(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	types, err := h.typeService.GetAll(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch activity types")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity_types": dto.ToActivityTypeDTOs(types),
	})
}

// CreateActivityType adds a custom activity type for the caller.
func (h *ActivityTypeHandler) CreateActivityType(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateActivityTypeRequest struct {
		Name         string `json:"name" binding:"required"`
		Icon         string `json:"icon" binding:"required"`
		DefaultColor string `json:"default_color" binding:"required"`
		Category     string `json:"category"`
		Description  string `json:"description"`
	}

	var req CreateActivityTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	at, err := h.typeService.Create(userID, services.CreateActivityTypeInput{
		Name:         req.Name,
		Icon:         req.Icon,
		DefaultColor: req.DefaultColor,
		Category:     req.Category,
		Description:  req.Description,
	})
	if err != nil {
		respondActivityTypeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToActivityTypeDTO(*at))
}

// UpdateActivityType edits one of the caller's custom types.
func (h *ActivityTypeHandler) UpdateActivityType(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	typeID, ok := parseActivityTypeID(c)
	if !ok {
		return
	}

	type UpdateActivityTypeRequest struct {
		Name         *string `json:"name"`
		Icon         *string `json:"icon"`
		DefaultColor *string `json:"default_color"`
		Category     *string `json:"category"`
		Description  *string `json:"description"`
	}

	var req UpdateActivityTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	at, err := h.typeService.Update(typeID, userID, services.UpdateActivityTypeInput{
		Name:         req.Name,
		Icon:         req.Icon,
		DefaultColor: req.DefaultColor,
		Category:     req.Category,
		Description:  req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrSystemActivityType) {
			apierrors.Forbidden(c, "Cannot update default activity types")
			return
		}
		respondActivityTypeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityTypeDTO(*at))
}

// DeleteActivityType removes one of the caller's custom types along with
// the caller's usage preference for it.
func (h *ActivityTypeHandler) DeleteActivityType(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	typeID, ok := parseActivityTypeID(c)
	if !ok {
		return
	}

	if err := h.typeService.Delete(typeID, userID); err != nil {
		if errors.Is(err, services.ErrSystemActivityType) {
			apierrors.Forbidden(c, "Cannot delete default activity types")
			return
		}
		respondActivityTypeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Activity type deleted successfully",
	})
}

// GetPreferences lists the caller's activity usage preferences, most used
// first.
func (h *ActivityTypeHandler) GetPreferences(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	prefs, err := h.typeService.GetPreferences(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch activity preferences")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences": dto.ToActivityPreferenceDTOs(prefs),
	})
}

func parseActivityTypeID(c *gin.Context) (uint64, bool) {
	typeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid activity type ID")
		return 0, false
	}
	return typeID, true
}

func respondActivityTypeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrActivityTypeNotFound):
		apierrors.NotFound(c, "Activity type not found")
	case errors.Is(err, services.ErrActivityTypeFieldsRequired):
		apierrors.BadRequest(c, "Name, icon, and color are required")
	case errors.Is(err, services.ErrCustomActivityTypeQuota):
		apierrors.QuotaExceeded(c, fmt.Sprintf(
			"Maximum custom activities reached (%d). Delete an existing custom activity to create a new one.",
			constants.MaxCustomActivityTypes,
		))
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
