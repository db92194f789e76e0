package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"github.com/tempofeed/tempofeed-api/internal/utils"
	"gorm.io/gorm"
)

type supportKey struct {
	sessionID uint64
	userID    uint64
}

// fakeSessionRepository is an in-memory SessionRepository.
type fakeSessionRepository struct {
	sessions map[uint64]*models.Session
	supports map[supportKey]*models.SessionSupport
	comments []*models.SessionComment
	nextID   uint64
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{
		sessions: make(map[uint64]*models.Session),
		supports: make(map[supportKey]*models.SessionSupport),
		nextID:   1,
	}
}

func (r *fakeSessionRepository) Create(session *models.Session) error {
	session.ID = r.nextID
	r.nextID++
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepository) FindByID(id uint64, preload ...string) (*models.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepository) Update(session *models.Session) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepository) Delete(id uint64) error {
	delete(r.sessions, id)
	for key := range r.supports {
		if key.sessionID == id {
			delete(r.supports, key)
		}
	}
	return nil
}

func (r *fakeSessionRepository) ListByUser(filter repository.SessionFilter) ([]models.Session, int64, error) {
	allowed := make(map[models.SessionVisibility]bool, len(filter.Visibilities))
	for _, v := range filter.Visibilities {
		allowed[v] = true
	}

	var sessions []models.Session
	for _, s := range r.sessions {
		if s.UserID != filter.UserID {
			continue
		}
		if len(filter.Visibilities) > 0 && !allowed[s.Visibility] {
			continue
		}
		sessions = append(sessions, *s)
	}
	return sessions, int64(len(sessions)), nil
}

func (r *fakeSessionRepository) GetFeedForFollowing(query repository.FeedQuery) ([]models.Session, bool, error) {
	return nil, false, nil
}

func (r *fakeSessionRepository) CreateSupport(support *models.SessionSupport) error {
	r.supports[supportKey{sessionID: support.SessionID, userID: support.UserID}] = support
	return nil
}

func (r *fakeSessionRepository) DeleteSupport(sessionID, userID uint64) error {
	delete(r.supports, supportKey{sessionID: sessionID, userID: userID})
	return nil
}

func (r *fakeSessionRepository) FindSupport(sessionID, userID uint64) (*models.SessionSupport, error) {
	support, ok := r.supports[supportKey{sessionID: sessionID, userID: userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return support, nil
}

func (r *fakeSessionRepository) CreateComment(comment *models.SessionComment) error {
	comment.ID = uint64(len(r.comments) + 1)
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeSessionRepository) ListComments(sessionID uint64, params utils.PaginationParams) ([]models.SessionComment, int64, error) {
	var comments []models.SessionComment
	for _, c := range r.comments {
		if c.SessionID == sessionID {
			comments = append(comments, *c)
		}
	}
	return comments, int64(len(comments)), nil
}

func newSessionServiceEnv(t *testing.T) (*SessionService, *fakeSessionRepository, *fakeActivityTypeRepository) {
	t.Helper()

	typeRepo := newFakeActivityTypeRepository()
	typeRepo.seedSystemTypes(3)
	sessionRepo := newFakeSessionRepository()

	service := NewSessionService(sessionRepo, NewActivityTypeService(typeRepo))
	return service, sessionRepo, typeRepo
}

func validSessionInput(userID uint64) CreateSessionInput {
	return CreateSessionInput{
		UserID:          userID,
		ActivityTypeID:  1,
		Title:           "Deep work",
		DurationSeconds: 1500,
	}
}

func TestSessionService_CreateSession(t *testing.T) {
	service, _, typeRepo := newSessionServiceEnv(t)

	session, err := service.CreateSession(validSessionInput(1))
	require.NoError(t, err)
	require.NotZero(t, session.ID)
	require.Equal(t, models.VisibilityEveryone, session.Visibility)
	require.False(t, session.StartedAt.IsZero())

	// Creating a session records a use of the activity type.
	pref, err := typeRepo.FindPreference(1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, pref.UseCount)
}

func TestSessionService_CreateSession_Validation(t *testing.T) {
	service, _, _ := newSessionServiceEnv(t)

	input := validSessionInput(1)
	input.Title = "   "
	_, err := service.CreateSession(input)
	require.ErrorIs(t, err, ErrSessionTitleRequired)

	input = validSessionInput(1)
	input.DurationSeconds = -1
	_, err = service.CreateSession(input)
	require.ErrorIs(t, err, ErrNegativeDuration)

	input = validSessionInput(1)
	input.Visibility = "friends"
	_, err = service.CreateSession(input)
	require.ErrorIs(t, err, ErrInvalidVisibility)

	input = validSessionInput(1)
	input.ActivityTypeID = 99
	_, err = service.CreateSession(input)
	require.ErrorIs(t, err, ErrActivityTypeNotFound)
}

func TestSessionService_CreateSession_OthersCustomTypeRejected(t *testing.T) {
	service, _, typeRepo := newSessionServiceEnv(t)

	typeService := NewActivityTypeService(typeRepo)
	at, err := typeService.Create(2, customTypeInput("Theirs"))
	require.NoError(t, err)

	input := validSessionInput(1)
	input.ActivityTypeID = at.ID
	_, err = service.CreateSession(input)
	require.ErrorIs(t, err, ErrActivityTypeNotFound)
}

func TestSessionService_UpdateSession_OwnerOnly(t *testing.T) {
	service, _, _ := newSessionServiceEnv(t)

	session, err := service.CreateSession(validSessionInput(1))
	require.NoError(t, err)

	title := "Renamed"
	_, err = service.UpdateSession(session.ID, 2, UpdateSessionInput{Title: &title})
	require.ErrorIs(t, err, ErrNotSessionOwner)

	updated, err := service.UpdateSession(session.ID, 1, UpdateSessionInput{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
}

func TestSessionService_SupportAndUnsupport(t *testing.T) {
	service, _, _ := newSessionServiceEnv(t)

	session, err := service.CreateSession(validSessionInput(1))
	require.NoError(t, err)

	updated, err := service.Support(session.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 1, updated.SupportCount)

	// Supporting twice is a conflict, not a second increment.
	_, err = service.Support(session.ID, 2)
	require.ErrorIs(t, err, ErrAlreadySupported)

	updated, err = service.Unsupport(session.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 0, updated.SupportCount)

	_, err = service.Unsupport(session.ID, 2)
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestSessionService_AddComment(t *testing.T) {
	service, sessionRepo, _ := newSessionServiceEnv(t)

	session, err := service.CreateSession(validSessionInput(1))
	require.NoError(t, err)

	_, err = service.AddComment(session.ID, 2, "   ")
	require.ErrorIs(t, err, ErrCommentBodyRequired)

	comment, err := service.AddComment(session.ID, 2, "Nice pace")
	require.NoError(t, err)
	require.Equal(t, "Nice pace", comment.Body)

	saved, err := sessionRepo.FindByID(session.ID)
	require.NoError(t, err)
	require.Equal(t, 1, saved.CommentCount)
}

func TestSessionService_ListUserSessions_ViewerFiltering(t *testing.T) {
	service, _, _ := newSessionServiceEnv(t)

	for _, visibility := range []models.SessionVisibility{
		models.VisibilityEveryone,
		models.VisibilityFollowers,
		models.VisibilityPrivate,
	} {
		input := validSessionInput(1)
		input.Visibility = visibility
		_, err := service.CreateSession(input)
		require.NoError(t, err)
	}

	// Owner sees everything.
	sessions, total, err := service.ListUserSessions(1, 1, false, utils.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	require.EqualValues(t, 3, total)

	// A follower sees everyone + followers.
	sessions, _, err = service.ListUserSessions(1, 2, true, utils.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	// Everyone else sees only public sessions.
	sessions, _, err = service.ListUserSessions(1, 3, false, utils.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, models.VisibilityEveryone, sessions[0].Visibility)
}

func TestSessionService_DeleteSession(t *testing.T) {
	service, _, _ := newSessionServiceEnv(t)

	session, err := service.CreateSession(validSessionInput(1))
	require.NoError(t, err)

	require.ErrorIs(t, service.DeleteSession(session.ID, 2), ErrNotSessionOwner)
	require.NoError(t, service.DeleteSession(session.ID, 1))

	_, err = service.GetSession(session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
