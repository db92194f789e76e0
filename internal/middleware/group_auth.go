package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tempofeed/tempofeed-api/internal/database"
	"github.com/tempofeed/tempofeed-api/internal/models"
)

// RequireGroupAccess loads the group and checks the user may see it. Public
// groups are visible to any authenticated user; private groups only to their
// members.
func RequireGroupAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		groupIDStr := c.Param("id")
		groupID, err := strconv.ParseUint(groupIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid group ID",
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

		var group models.Group
		if err := database.GetDB().First(&group, groupID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Group not found",
			})
			c.Abort()
			return
		}

		if group.Privacy == models.GroupPrivacyPrivate && !group.IsMember(userID) {
			// Return 404 instead of 403 to avoid leaking group existence
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Group not found",
			})
			c.Abort()
			return
		}

		c.Set("group", group)
		c.Next()
	}
}

// RequireGroupAdmin checks if the user administers the group loaded by
// RequireGroupAccess
func RequireGroupAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		groupInterface, exists := c.Get("group")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Group access required",
			})
			c.Abort()
			return
		}

		group, ok := groupInterface.(models.Group)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Invalid group data",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists || !group.IsAdmin(userID) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only group admins can perform this action",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
