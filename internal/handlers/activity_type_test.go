package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/tempofeed/tempofeed-api/internal/constants"
	"github.com/tempofeed/tempofeed-api/internal/database"
	"github.com/tempofeed/tempofeed-api/internal/dto"
	apierrors "github.com/tempofeed/tempofeed-api/internal/errors"
	"github.com/tempofeed/tempofeed-api/internal/models"
	"github.com/tempofeed/tempofeed-api/internal/repository"
	"github.com/tempofeed/tempofeed-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ActivityTypeHandlerTestSuite defines the test suite for ActivityTypeHandler
type ActivityTypeHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *ActivityTypeHandler
	typeService *services.ActivityTypeService
}

// SetupTest runs before each test
func (suite *ActivityTypeHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations and seed the fixed system types
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.ActivityType{},
		&models.UserActivityPreference{},
	)
	suite.Require().NoError(err)

	err = database.SeedSystemActivityTypes(suite.db)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	typeRepo := repository.NewActivityTypeRepository(suite.db)
	suite.typeService = services.NewActivityTypeService(typeRepo)
	suite.handler = NewActivityTypeHandler(suite.typeService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ActivityTypeHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ActivityTypeHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *ActivityTypeHandlerTestSuite) testContext(method, url string, body []byte, userID uint64, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *ActivityTypeHandlerTestSuite) createCustomType(userID uint64, name string) *models.ActivityType {
	at, err := suite.typeService.Create(userID, services.CreateActivityTypeInput{
		Name:         name,
		Icon:         "pencil",
		DefaultColor: "#336699",
	})
	suite.Require().NoError(err)
	return at
}

func (suite *ActivityTypeHandlerTestSuite) TestListActivityTypes() {
	user := suite.createTestUser("alice")
	suite.createCustomType(user.ID, "Journaling")

	c, w := suite.testContext(http.MethodGet, "/api/activity-types", nil, user.ID)

	suite.handler.ListActivityTypes(c)

	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		ActivityTypes []dto.ActivityTypeDTO `json:"activity_types"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.ActivityTypes, constants.SystemActivityTypeCount+1)

	// Sorted ascending by order, custom types after the system block.
	suite.Equal("Journaling", response.ActivityTypes[len(response.ActivityTypes)-1].Name)
	for i := 1; i < len(response.ActivityTypes); i++ {
		suite.LessOrEqual(response.ActivityTypes[i-1].Order, response.ActivityTypes[i].Order)
	}
}

func (suite *ActivityTypeHandlerTestSuite) TestCreateActivityType() {
	user := suite.createTestUser("alice")

	payload := map[string]string{
		"name":          "Journaling",
		"icon":          "pencil",
		"default_color": "#336699",
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	c, w := suite.testContext(http.MethodPost, "/api/activity-types", body, user.ID)

	suite.handler.CreateActivityType(c)

	suite.Equal(http.StatusCreated, w.Code)

	var response dto.ActivityTypeDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Journaling", response.Name)
	suite.False(response.IsSystem)
	suite.Equal(constants.SystemActivityTypeCount+1, response.Order)
}

func (suite *ActivityTypeHandlerTestSuite) TestCreateActivityType_QuotaExceeded() {
	user := suite.createTestUser("alice")

	for i := 0; i < constants.MaxCustomActivityTypes; i++ {
		suite.createCustomType(user.ID, fmt.Sprintf("Custom %d", i+1))
	}

	payload := map[string]string{
		"name":          "One Too Many",
		"icon":          "pencil",
		"default_color": "#336699",
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	c, w := suite.testContext(http.MethodPost, "/api/activity-types", body, user.ID)

	suite.handler.CreateActivityType(c)

	suite.Equal(http.StatusConflict, w.Code)

	var response apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(apierrors.ErrCodeQuotaExceeded, response.Code)
	suite.Equal(
		"Maximum custom activities reached (10). Delete an existing custom activity to create a new one.",
		response.Message,
	)
}

func (suite *ActivityTypeHandlerTestSuite) TestDeleteActivityType_FreesQuota() {
	user := suite.createTestUser("alice")

	var last *models.ActivityType
	for i := 0; i < constants.MaxCustomActivityTypes; i++ {
		last = suite.createCustomType(user.ID, fmt.Sprintf("Custom %d", i+1))
	}

	c, w := suite.testContext(
		http.MethodDelete,
		"/api/activity-types/"+strconv.FormatUint(last.ID, 10),
		nil,
		user.ID,
		gin.Param{Key: "id", Value: strconv.FormatUint(last.ID, 10)},
	)

	suite.handler.DeleteActivityType(c)

	suite.Equal(http.StatusOK, w.Code)

	// The freed slot is usable immediately.
	suite.createCustomType(user.ID, "Now Allowed")
}

func (suite *ActivityTypeHandlerTestSuite) TestUpdateActivityType_SystemForbidden() {
	user := suite.createTestUser("alice")

	payload := map[string]string{"name": "Renamed"}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	c, w := suite.testContext(http.MethodPatch, "/api/activity-types/1", body, user.ID,
		gin.Param{Key: "id", Value: "1"})

	suite.handler.UpdateActivityType(c)

	suite.Equal(http.StatusForbidden, w.Code)

	var response apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Cannot update default activity types", response.Message)
}

func (suite *ActivityTypeHandlerTestSuite) TestDeleteActivityType_SystemForbidden() {
	user := suite.createTestUser("alice")

	c, w := suite.testContext(http.MethodDelete, "/api/activity-types/1", nil, user.ID,
		gin.Param{Key: "id", Value: "1"})

	suite.handler.DeleteActivityType(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ActivityTypeHandlerTestSuite) TestDeleteActivityType_CascadesPreference() {
	user := suite.createTestUser("alice")
	at := suite.createCustomType(user.ID, "Journaling")

	suite.Require().NoError(suite.typeService.RecordUse(user.ID, at.ID))

	c, w := suite.testContext(
		http.MethodDelete,
		"/api/activity-types/"+strconv.FormatUint(at.ID, 10),
		nil,
		user.ID,
		gin.Param{Key: "id", Value: strconv.FormatUint(at.ID, 10)},
	)

	suite.handler.DeleteActivityType(c)

	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.UserActivityPreference{}).
		Where("user_id = ? AND activity_type_id = ?", user.ID, at.ID).
		Count(&count)
	suite.Zero(count)
}

func (suite *ActivityTypeHandlerTestSuite) TestGetPreferences() {
	user := suite.createTestUser("alice")

	suite.Require().NoError(suite.typeService.RecordUse(user.ID, 1))
	suite.Require().NoError(suite.typeService.RecordUse(user.ID, 1))
	suite.Require().NoError(suite.typeService.RecordUse(user.ID, 2))

	c, w := suite.testContext(http.MethodGet, "/api/activity-types/preferences", nil, user.ID)

	suite.handler.GetPreferences(c)

	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Preferences []dto.ActivityPreferenceDTO `json:"preferences"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Preferences, 2)

	// Most used first.
	suite.Equal(uint64(1), response.Preferences[0].ActivityTypeID)
	suite.Equal(2, response.Preferences[0].UseCount)
}

// TestActivityTypeHandlerTestSuite runs the test suite
func TestActivityTypeHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityTypeHandlerTestSuite))
}
