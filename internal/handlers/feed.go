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

// FeedHandler serves the aggregated session feed.
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed returns one page of the caller's feed. Defaults to the following
// feed; cursor and limit come from query parameters.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	page, err := h.feedService.GetFeed(userID, services.GetFeedInput{
		Type:   services.FeedType(c.DefaultQuery("type", string(services.FeedTypeFollowing))),
		Limit:  limit,
		Cursor: c.Query("cursor"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFeedType):
			apierrors.BadRequest(c, "Unsupported feed type")
		case errors.Is(err, services.ErrInvalidFeedCursor):
			apierrors.BadRequest(c, "Invalid feed cursor")
		default:
			apierrors.InternalError(c, "Failed to fetch feed")
		}
		return
	}

	c.JSON(http.StatusOK, dto.FeedResponse{
		Sessions:   dto.ToSessionDTOs(page.Sessions),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	})
}
