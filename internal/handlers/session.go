package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tempofeed/tempofeed-api/internal/dto"
	apierrors "github.com/tempofeed/tempofeed-api/internal/errors"
	"github.com/tempofeed/tempofeed-api/internal/middleware"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/services"
	"github.com/tempofeed/tempofeed-api/internal/utils"
)

// SessionHandler coordinates tracked-session HTTP handlers.
type SessionHandler struct {
	sessionService *services.SessionService
	followService  *services.FollowService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *services.SessionService, followService *services.FollowService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		followService:  followService,
	}
}

// CreateSession records a finalized timer or manual entry.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateSessionRequest struct {
		ActivityTypeID  uint64                   `json:"activity_type_id" binding:"required"`
		Title           string                   `json:"title" binding:"required"`
		Description     string                   `json:"description"`
		DurationSeconds int64                    `json:"duration_seconds"`
		StartedAt       *time.Time               `json:"started_at"`
		Visibility      models.SessionVisibility `json:"visibility"`
		Tags            []string                 `json:"tags"`
		Images          []string                 `json:"images"`
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateSessionInput{
		UserID:          userID,
		ActivityTypeID:  req.ActivityTypeID,
		Title:           req.Title,
		Description:     req.Description,
		DurationSeconds: req.DurationSeconds,
		Visibility:      req.Visibility,
		Tags:            req.Tags,
		Images:          req.Images,
	}
	if req.StartedAt != nil {
		input.StartedAt = *req.StartedAt
	}

	session, err := h.sessionService.CreateSession(input)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSessionDTO(*session))
}

// ListMySessions lists the caller's own sessions.
func (h *SessionHandler) ListMySessions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	sessions, total, err := h.sessionService.ListUserSessions(userID, userID, false, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": dto.ToSessionDTOs(sessions),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListUserSessions lists another user's sessions, filtered by what the
// caller may see.
func (h *SessionHandler) ListUserSessions(c *gin.Context) {
	viewerID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	follows := false
	if viewerID != targetID {
		follows, err = h.followService.IsFollowing(viewerID, targetID)
		if err != nil {
			apierrors.InternalError(c, "Failed to check follow status")
			return
		}
	}

	params := utils.GetPaginationParams(c)

	sessions, total, err := h.sessionService.ListUserSessions(targetID, viewerID, follows, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": dto.ToSessionDTOs(sessions),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetSession returns a session. Loaded and access-checked by
// RequireSessionAccess.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionInterface, _ := c.Get("session")
	session := sessionInterface.(models.Session)

	c.JSON(http.StatusOK, dto.ToSessionDTO(session))
}

// UpdateSession edits a session. Owner only.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	sessionInterface, _ := c.Get("session")
	session := sessionInterface.(models.Session)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateSessionRequest struct {
		Title       *string                   `json:"title"`
		Description *string                   `json:"description"`
		Visibility  *models.SessionVisibility `json:"visibility"`
		Tags        []string                  `json:"tags"`
		Images      []string                  `json:"images"`
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.sessionService.UpdateSession(session.ID, userID, services.UpdateSessionInput{
		Title:       req.Title,
		Description: req.Description,
		Visibility:  req.Visibility,
		Tags:        req.Tags,
		Images:      req.Images,
	})
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionDTO(*updated))
}

// DeleteSession removes a session. Owner only.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionInterface, _ := c.Get("session")
	session := sessionInterface.(models.Session)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.sessionService.DeleteSession(session.ID, userID); err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session deleted successfully",
	})
}

// SupportSession records the caller's support.
func (h *SessionHandler) SupportSession(c *gin.Context) {
	sessionInterface, _ := c.Get("session")
	session := sessionInterface.(models.Session)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	updated, err := h.sessionService.Support(session.ID, userID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"support_count": updated.SupportCount,
	})
}

// UnsupportSession withdraws the caller's support.
func (h *SessionHandler) UnsupportSession(c *gin.Context) {
	sessionInterface, _ := c.Get("session")
	session := sessionInterface.(models.Session)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	updated, err := h.sessionService.Unsupport(session.ID, userID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"support_count": updated.SupportCount,
	})
}

// AddComment appends a comment to the session.
func (h *SessionHandler) AddComment(c *gin.Context) {
	sessionInterface, _ := c.Get("session")
	session := sessionInterface.(models.Session)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AddCommentRequest struct {
		Body string `json:"body" binding:"required"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.sessionService.AddComment(session.ID, userID, req.Body)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments lists comments on the session, oldest first.
func (h *SessionHandler) ListComments(c *gin.Context) {
	sessionInterface, _ := c.Get("session")
	session := sessionInterface.(models.Session)

	params := utils.GetPaginationParams(c)

	comments, total, err := h.sessionService.ListComments(session.ID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": dto.ToCommentDTOs(comments),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		apierrors.NotFound(c, "Session not found")
	case errors.Is(err, services.ErrSessionTitleRequired):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrNegativeDuration):
		apierrors.BadRequest(c, "Duration cannot be negative")
	case errors.Is(err, services.ErrInvalidVisibility):
		apierrors.BadRequest(c, "Invalid visibility")
	case errors.Is(err, services.ErrActivityTypeNotFound):
		apierrors.BadRequest(c, "Unknown activity type")
	case errors.Is(err, services.ErrNotSessionOwner):
		apierrors.Forbidden(c, "Only the session owner can perform this action")
	case errors.Is(err, services.ErrAlreadySupported):
		apierrors.Conflict(c, "Already supported this session")
	case errors.Is(err, services.ErrNotSupported):
		apierrors.Conflict(c, "Not supporting this session")
	case errors.Is(err, services.ErrCommentBodyRequired):
		apierrors.BadRequest(c, "Comment body is required")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
