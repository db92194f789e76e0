package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"github.com/tempofeed/tempofeed-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionTitleRequired = errors.New("session title is required")
	ErrNegativeDuration     = errors.New("duration cannot be negative")
	ErrInvalidVisibility    = errors.New("invalid visibility")
	ErrNotSessionOwner      = errors.New("only the session owner can perform this action")
	ErrAlreadySupported     = errors.New("session already supported")
	ErrNotSupported         = errors.New("session not supported yet")
	ErrCommentBodyRequired  = errors.New("comment body is required")
)

// SessionService handles the lifecycle of tracked activity sessions and their
// social counters.
type SessionService struct {
	sessionRepo repository.SessionRepository
	typeService *ActivityTypeService
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo repository.SessionRepository, typeService *ActivityTypeService) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		typeService: typeService,
	}
}

// CreateSessionInput represents a finalized timer or manual entry.
type CreateSessionInput struct {
	UserID          uint64
	ActivityTypeID  uint64
	Title           string
	Description     string
	DurationSeconds int64
	StartedAt       time.Time
	Visibility      models.SessionVisibility
	Tags            []string
	Images          []string
}

// CreateSession validates and persists a session, then records the activity
// type use for the owner's preference ranking.
func (s *SessionService) CreateSession(input CreateSessionInput) (*models.Session, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrSessionTitleRequired
	}
	if input.DurationSeconds < 0 {
		return nil, ErrNegativeDuration
	}
	if input.Visibility == "" {
		input.Visibility = models.VisibilityEveryone
	}
	if !input.Visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	// The type must exist and be visible to the owner (system, or their own
	// custom type).
	if err := s.ensureUsableType(input.ActivityTypeID, input.UserID); err != nil {
		return nil, err
	}

	if input.StartedAt.IsZero() {
		input.StartedAt = time.Now().Add(-time.Duration(input.DurationSeconds) * time.Second)
	}

	session := &models.Session{
		UserID:          input.UserID,
		ActivityTypeID:  input.ActivityTypeID,
		Title:           input.Title,
		Description:     input.Description,
		DurationSeconds: input.DurationSeconds,
		StartedAt:       input.StartedAt,
		Visibility:      input.Visibility,
		Tags:            input.Tags,
		Images:          input.Images,
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.typeService.RecordUse(input.UserID, input.ActivityTypeID); err != nil {
		return nil, err
	}

	return session, nil
}

// GetSession returns a session with its owner and activity type loaded.
func (s *SessionService) GetSession(sessionID uint64) (*models.Session, error) {
	session, err := s.sessionRepo.FindByID(sessionID, "User", "ActivityType")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// ListUserSessions lists a user's sessions as seen by the viewer: owners see
// everything, followers see everyone+followers, everyone else sees only
// public sessions.
func (s *SessionService) ListUserSessions(userID, viewerID uint64, viewerFollows bool, params utils.PaginationParams) ([]models.Session, int64, error) {
	filter := repository.SessionFilter{
		UserID:     userID,
		Pagination: params,
	}

	switch {
	case viewerID == userID:
		// no visibility restriction
	case viewerFollows:
		filter.Visibilities = []models.SessionVisibility{models.VisibilityEveryone, models.VisibilityFollowers}
	default:
		filter.Visibilities = []models.SessionVisibility{models.VisibilityEveryone}
	}

	sessions, total, err := s.sessionRepo.ListByUser(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, total, nil
}

// UpdateSessionInput holds the mutable session fields.
type UpdateSessionInput struct {
	Title       *string
	Description *string
	Visibility  *models.SessionVisibility
	Tags        []string
	Images      []string
}

// UpdateSession edits a session. Owner only.
func (s *SessionService) UpdateSession(sessionID, actorID uint64, input UpdateSessionInput) (*models.Session, error) {
	session, err := s.findOwned(sessionID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrSessionTitleRequired
		}
		session.Title = *input.Title
	}
	if input.Description != nil {
		session.Description = *input.Description
	}
	if input.Visibility != nil {
		if !input.Visibility.Valid() {
			return nil, ErrInvalidVisibility
		}
		session.Visibility = *input.Visibility
	}
	if input.Tags != nil {
		session.Tags = input.Tags
	}
	if input.Images != nil {
		session.Images = input.Images
	}

	if err := s.sessionRepo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}

// DeleteSession removes a session. Owner only.
func (s *SessionService) DeleteSession(sessionID, actorID uint64) error {
	if _, err := s.findOwned(sessionID, actorID); err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Support records the user's support for a session and bumps the counter.
// One support per user per session.
func (s *SessionService) Support(sessionID, userID uint64) (*models.Session, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessionRepo.FindSupport(sessionID, userID); err == nil {
		return nil, ErrAlreadySupported
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check support: %w", err)
	}

	if err := s.sessionRepo.CreateSupport(&models.SessionSupport{
		SessionID: sessionID,
		UserID:    userID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record support: %w", err)
	}

	session.SupportCount++
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to update support count: %w", err)
	}

	return session, nil
}

// Unsupport withdraws the user's support and decrements the counter.
func (s *SessionService) Unsupport(sessionID, userID uint64) (*models.Session, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessionRepo.FindSupport(sessionID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotSupported
		}
		return nil, fmt.Errorf("failed to check support: %w", err)
	}

	if err := s.sessionRepo.DeleteSupport(sessionID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove support: %w", err)
	}

	if session.SupportCount > 0 {
		session.SupportCount--
	}
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to update support count: %w", err)
	}

	return session, nil
}

// AddComment appends a comment and bumps the counter.
func (s *SessionService) AddComment(sessionID, userID uint64, body string) (*models.SessionComment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrCommentBodyRequired
	}

	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	comment := &models.SessionComment{
		SessionID: sessionID,
		UserID:    userID,
		Body:      body,
	}

	if err := s.sessionRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	session.CommentCount++
	if err := s.sessionRepo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to update comment count: %w", err)
	}

	return comment, nil
}

// ListComments lists comments on a session, oldest first.
func (s *SessionService) ListComments(sessionID uint64, params utils.PaginationParams) ([]models.SessionComment, int64, error) {
	comments, total, err := s.sessionRepo.ListComments(sessionID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// findOwned loads a session and verifies the actor owns it.
func (s *SessionService) findOwned(sessionID, actorID uint64) (*models.Session, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if session.UserID != actorID {
		return nil, ErrNotSessionOwner
	}

	return session, nil
}

// ensureUsableType verifies the activity type exists and is usable by the
// user: any system type, or a custom type they own.
func (s *SessionService) ensureUsableType(typeID, userID uint64) error {
	types, err := s.typeService.GetAll(userID)
	if err != nil {
		return err
	}
	for _, at := range types {
		if at.ID == typeID {
			return nil
		}
	}
	return ErrActivityTypeNotFound
}
