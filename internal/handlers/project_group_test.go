package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/auth"
	"github.com/gobinath946/project-weaver-sub001/internal/database"
	"github.com/gobinath946/project-weaver-sub001/internal/middleware"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/services"
)

const testSecret = "handler-test-secret"

var dbSeq int64

// openHandlerDB opens a fresh in-memory database with the full schema and
// installs it as the process default for the auth middleware.
func openHandlerDB(s *suite.Suite) *gorm.DB {
	dsn := fmt.Sprintf("file:handlers%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.Require().NoError(database.MigrateDatabase(db))
	database.SetDB(db)
	return db
}

type ProjectGroupHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	admin  *models.User
	member *models.User
}

func (suite *ProjectGroupHandlerTestSuite) SetupTest() {
	suite.db = openHandlerDB(&suite.Suite)

	groupService := services.NewProjectGroupService(suite.db, relay.Noop{})
	handler := NewProjectGroupHandler(groupService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.RequestID(), middleware.ErrorHandler())

	requireAuth := middleware.RequireAuth(testSecret)
	manage := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)
	suite.router.GET("/project-groups", requireAuth, handler.List)
	suite.router.GET("/project-groups/:id", requireAuth, handler.Get)
	suite.router.POST("/project-groups", requireAuth, manage, handler.Create)
	suite.router.PUT("/project-groups/:id", requireAuth, manage, handler.Update)
	suite.router.DELETE("/project-groups/:id", requireAuth, manage, handler.Delete)

	suite.admin = suite.createUser(1, "admin@example.com", models.RoleAdmin)
	suite.member = suite.createUser(1, "member@example.com", models.RoleMember)
}

func (suite *ProjectGroupHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectGroupHandlerTestSuite) createUser(companyID uint64, email string, roles ...models.Role) *models.User {
	user := &models.User{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: "irrelevant",
		Roles:        roles,
		Active:       true,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ProjectGroupHandlerTestSuite) do(method, path string, payload any, as *models.User) (*httptest.ResponseRecorder, map[string]any) {
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := auth.GenerateToken(as, testSecret, time.Hour)
		suite.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var parsed map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func (suite *ProjectGroupHandlerTestSuite) TestCreateAndGet() {
	w, body := suite.do("POST", "/project-groups", gin.H{"name": "Platform"}, suite.admin)
	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal(true, body["success"])

	data := body["data"].(map[string]any)
	suite.Equal("Platform", data["name"])
	id := uint64(data["id"].(float64))

	w, body = suite.do("GET", fmt.Sprintf("/project-groups/%d", id), nil, suite.member)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Platform", body["data"].(map[string]any)["name"])
}

func (suite *ProjectGroupHandlerTestSuite) TestCreateRequiresManageRole() {
	w, body := suite.do("POST", "/project-groups", gin.H{"name": "Nope"}, suite.member)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(false, body["success"])
	suite.Equal(apperrors.CodeForbidden, body["error"].(map[string]any)["code"])
}

func (suite *ProjectGroupHandlerTestSuite) TestDuplicateNameEnvelope() {
	w, _ := suite.do("POST", "/project-groups", gin.H{"name": "Alpha"}, suite.admin)
	suite.Equal(http.StatusCreated, w.Code)

	w, body := suite.do("POST", "/project-groups", gin.H{"name": "ALPHA"}, suite.admin)
	suite.Equal(http.StatusBadRequest, w.Code)

	errObj := body["error"].(map[string]any)
	suite.Equal(apperrors.CodeDuplicate, errObj["code"])
	suite.NotEmpty(errObj["request_id"])
	suite.NotEmpty(errObj["timestamp"])
}

func (suite *ProjectGroupHandlerTestSuite) TestListPaginationEnvelope() {
	for i := 1; i <= 12; i++ {
		w, _ := suite.do("POST", "/project-groups", gin.H{"name": fmt.Sprintf("Group %02d", i)}, suite.admin)
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w, body := suite.do("GET", "/project-groups?page=2&limit=5&sort=name", nil, suite.member)
	suite.Equal(http.StatusOK, w.Code)

	data := body["data"].([]any)
	suite.Len(data, 5)
	suite.Equal("Group 06", data[0].(map[string]any)["name"])

	pagination := body["pagination"].(map[string]any)
	suite.EqualValues(2, pagination["current_page"])
	suite.EqualValues(3, pagination["total_pages"])
	suite.EqualValues(12, pagination["total_count"])
	suite.Equal(true, pagination["has_more"])
}

func (suite *ProjectGroupHandlerTestSuite) TestListRejectsBadPage() {
	w, body := suite.do("GET", "/project-groups?page=zero", nil, suite.member)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidation, body["error"].(map[string]any)["code"])
}

func (suite *ProjectGroupHandlerTestSuite) TestTenantsCannotSeeEachOther() {
	w, _ := suite.do("POST", "/project-groups", gin.H{"name": "Secret"}, suite.admin)
	suite.Equal(http.StatusCreated, w.Code)

	stranger := suite.createUser(2, "stranger@example.com", models.RoleAdmin)
	w, body := suite.do("GET", "/project-groups", nil, stranger)
	suite.Equal(http.StatusOK, w.Code)
	suite.Empty(body["data"])
}

func (suite *ProjectGroupHandlerTestSuite) TestDeleteTwiceIsNotFound() {
	w, body := suite.do("POST", "/project-groups", gin.H{"name": "Ephemeral"}, suite.admin)
	suite.Require().Equal(http.StatusCreated, w.Code)
	id := uint64(body["data"].(map[string]any)["id"].(float64))

	w, _ = suite.do("DELETE", fmt.Sprintf("/project-groups/%d", id), nil, suite.admin)
	suite.Equal(http.StatusOK, w.Code)

	w, body = suite.do("DELETE", fmt.Sprintf("/project-groups/%d", id), nil, suite.admin)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apperrors.CodeNotFound, body["error"].(map[string]any)["code"])
}

func TestProjectGroupHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectGroupHandlerTestSuite))
}
