package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tempofeed/tempofeed-api/internal/database"
	"github.com/tempofeed/tempofeed-api/internal/models"
)

// RequireSessionAccess loads a session and checks the viewer may see it:
// the owner always, others according to the session's visibility.
func RequireSessionAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionIDStr := c.Param("id")
		sessionID, err := strconv.ParseUint(sessionIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid session ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var session models.Session
		if err := database.GetDB().
			Preload("User").
			Preload("ActivityType").
			First(&session, sessionID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
			c.Abort()
			return
		}

		if session.UserID != userID {
			visible := false
			switch session.Visibility {
			case models.VisibilityEveryone:
				visible = true
			case models.VisibilityFollowers:
				var follow models.Follow
				err := database.GetDB().
					Where("follower_id = ? AND followee_id = ?", userID, session.UserID).
					First(&follow).Error
				visible = err == nil
			}

			if !visible {
				// Return 404 instead of 403 to avoid leaking session existence
				c.JSON(http.StatusNotFound, gin.H{
					"error": "Session not found",
				})
				c.Abort()
				return
			}
		}

		c.Set("session", session)
		c.Next()
	}
}
