package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/database"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
)

var dbSeq int64

// openServiceDB opens an in-memory database with the full schema. The
// shared-cache DSN keeps pooled connections on one database; list queries
// fan out across goroutines.
func openServiceDB(s *suite.Suite) *gorm.DB {
	dsn := fmt.Sprintf("file:services%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.Require().NoError(database.MigrateDatabase(db))
	return db
}

func closeDB(s *suite.Suite, db *gorm.DB) {
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func createUser(s *suite.Suite, db *gorm.DB, companyID uint64, email string, roles ...models.Role) *models.User {
	if len(roles) == 0 {
		roles = []models.Role{models.RoleMember}
	}
	user := &models.User{
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: "irrelevant",
		Roles:        roles,
		Active:       true,
	}
	s.Require().NoError(db.Create(user).Error)
	return user
}

type ProjectGroupServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	groups   *ProjectGroupService
	projects *ProjectService
}

func (suite *ProjectGroupServiceTestSuite) SetupTest() {
	suite.db = openServiceDB(&suite.Suite)
	suite.groups = NewProjectGroupService(suite.db, relay.Noop{})
	suite.projects = NewProjectService(suite.db, relay.Noop{})
}

func (suite *ProjectGroupServiceTestSuite) TearDownTest() {
	closeDB(&suite.Suite, suite.db)
}

func (suite *ProjectGroupServiceTestSuite) TestCreateRejectsCaseInsensitiveDuplicate() {
	ctx := context.Background()

	_, err := suite.groups.Create(ctx, 1, 10, ProjectGroupInput{Name: "Alpha"})
	suite.Require().NoError(err)

	_, err = suite.groups.Create(ctx, 1, 10, ProjectGroupInput{Name: "alpha"})
	suite.True(apperrors.IsKind(err, apperrors.KindDuplicate))

	// Another company can reuse the name freely.
	_, err = suite.groups.Create(ctx, 2, 20, ProjectGroupInput{Name: "ALPHA"})
	suite.NoError(err)
}

func (suite *ProjectGroupServiceTestSuite) TestCreateRequiresName() {
	_, err := suite.groups.Create(context.Background(), 1, 10, ProjectGroupInput{Name: "  "})
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))
}

func (suite *ProjectGroupServiceTestSuite) TestUpdateKeepsOwnNameButBlocksCollision() {
	ctx := context.Background()

	alpha, err := suite.groups.Create(ctx, 1, 10, ProjectGroupInput{Name: "Alpha"})
	suite.Require().NoError(err)
	_, err = suite.groups.Create(ctx, 1, 10, ProjectGroupInput{Name: "Beta"})
	suite.Require().NoError(err)

	// Renaming to a different casing of its own name is allowed.
	updated, err := suite.groups.Update(ctx, 1, alpha.ID, ProjectGroupInput{Name: "ALPHA"})
	suite.Require().NoError(err)
	suite.Equal("ALPHA", updated.Name)

	// Renaming onto the other group is not.
	_, err = suite.groups.Update(ctx, 1, alpha.ID, ProjectGroupInput{Name: "beta"})
	suite.True(apperrors.IsKind(err, apperrors.KindDuplicate))
}

func (suite *ProjectGroupServiceTestSuite) TestUpdateRejectsTenantReassignment() {
	ctx := context.Background()

	group, err := suite.groups.Create(ctx, 1, 10, ProjectGroupInput{Name: "Pinned"})
	suite.Require().NoError(err)

	_, err = suite.groups.Update(ctx, 1, group.ID, ProjectGroupInput{Name: "Pinned", CompanyID: 2})
	suite.True(apperrors.IsKind(err, apperrors.KindImmutableField))
}

func (suite *ProjectGroupServiceTestSuite) TestDeleteClearsProjectReferences() {
	ctx := context.Background()

	group, err := suite.groups.Create(ctx, 1, 10, ProjectGroupInput{Name: "Q3 Work"})
	suite.Require().NoError(err)

	var projectIDs []uint64
	for i := 0; i < 3; i++ {
		project, err := suite.projects.Create(ctx, 1, 10, ProjectInput{
			Name:           fmt.Sprintf("Project %d", i),
			ProjectGroupID: &group.ID,
		})
		suite.Require().NoError(err)
		projectIDs = append(projectIDs, project.ID)
	}

	suite.Require().NoError(suite.groups.Delete(ctx, 1, group.ID))

	// The group is physically gone, not soft-deleted.
	var count int64
	suite.db.Model(&models.ProjectGroup{}).Where("id = ?", group.ID).Count(&count)
	suite.Zero(count)

	// The projects survive with their group reference cleared.
	for _, id := range projectIDs {
		project, err := suite.projects.Get(ctx, 1, id)
		suite.Require().NoError(err)
		suite.Nil(project.ProjectGroupID)
	}
}

func (suite *ProjectGroupServiceTestSuite) TestDeleteMissingGroupIsNotFound() {
	err := suite.groups.Delete(context.Background(), 1, 9999)
	suite.True(apperrors.IsKind(err, apperrors.KindNotFound))
}

func (suite *ProjectGroupServiceTestSuite) TestListReportsProjectCounts() {
	ctx := context.Background()

	busy, err := suite.groups.Create(ctx, 1, 10, ProjectGroupInput{Name: "Busy"})
	suite.Require().NoError(err)
	idle, err := suite.groups.Create(ctx, 1, 10, ProjectGroupInput{Name: "Idle"})
	suite.Require().NoError(err)

	for i := 0; i < 2; i++ {
		_, err := suite.projects.Create(ctx, 1, 10, ProjectInput{
			Name:           fmt.Sprintf("P%d", i),
			ProjectGroupID: &busy.ID,
		})
		suite.Require().NoError(err)
	}
	// A soft-deleted project must not count.
	doomed, err := suite.projects.Create(ctx, 1, 10, ProjectInput{
		Name:           "Doomed",
		ProjectGroupID: &busy.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.projects.Delete(ctx, 1, doomed.ID))

	result, err := suite.groups.List(ctx, 1, listquery.Params{Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.Require().Len(result.Data, 2)

	counts := map[uint64]int64{}
	for _, g := range result.Data {
		counts[g.ID] = g.ProjectCount
	}
	suite.EqualValues(2, counts[busy.ID])
	suite.EqualValues(0, counts[idle.ID])
}

func TestProjectGroupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectGroupServiceTestSuite))
}
