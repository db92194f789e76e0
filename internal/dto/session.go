package dto

import (
	"time"

	"github.com/tempofeed/tempofeed-api/internal/models"
)

// SessionDTO represents a tracked session in API responses
type SessionDTO struct {
	ID              uint64                   `json:"id"`
	UserID          uint64                   `json:"user_id"`
	ActivityTypeID  uint64                   `json:"activity_type_id"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description,omitempty"`
	DurationSeconds int64                    `json:"duration_seconds"`
	StartedAt       time.Time                `json:"started_at"`
	Visibility      models.SessionVisibility `json:"visibility"`
	SupportCount    int                      `json:"support_count"`
	CommentCount    int                      `json:"comment_count"`
	Tags            []string                 `json:"tags,omitempty"`
	Images          []string                 `json:"images,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	User            *UserDTO                 `json:"user,omitempty"`
	ActivityType    *ActivityTypeDTO         `json:"activity_type,omitempty"`
}

// FeedResponse is one page of the feed
type FeedResponse struct {
	Sessions   []SessionDTO `json:"sessions"`
	HasMore    bool         `json:"has_more"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CommentDTO represents a session comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	SessionID uint64    `json:"session_id"`
	UserID    uint64    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// ToSessionDTO converts a Session model to SessionDTO
func ToSessionDTO(session models.Session) SessionDTO {
	d := SessionDTO{
		ID:              session.ID,
		UserID:          session.UserID,
		ActivityTypeID:  session.ActivityTypeID,
		Title:           session.Title,
		Description:     session.Description,
		DurationSeconds: session.DurationSeconds,
		StartedAt:       session.StartedAt,
		Visibility:      session.Visibility,
		SupportCount:    session.SupportCount,
		CommentCount:    session.CommentCount,
		Tags:            session.Tags,
		Images:          session.Images,
		CreatedAt:       session.CreatedAt,
	}

	if session.User.ID != 0 {
		user := ToUserDTO(session.User)
		d.User = &user
	}
	if session.ActivityType.ID != 0 {
		at := ToActivityTypeDTO(session.ActivityType)
		d.ActivityType = &at
	}

	return d
}

// ToSessionDTOs converts a slice of sessions
func ToSessionDTOs(sessions []models.Session) []SessionDTO {
	dtos := make([]SessionDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = ToSessionDTO(s)
	}
	return dtos
}

// ToCommentDTO converts a SessionComment model to CommentDTO
func ToCommentDTO(comment models.SessionComment) CommentDTO {
	d := CommentDTO{
		ID:        comment.ID,
		SessionID: comment.SessionID,
		UserID:    comment.UserID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User.ID != 0 {
		user := ToUserDTO(comment.User)
		d.User = &user
	}
	return d
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.SessionComment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = ToCommentDTO(c)
	}
	return dtos
}
