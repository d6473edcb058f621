package guard

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
)

var dbSeq int64

type GuardTestSuite struct {
	suite.Suite
	db    *gorm.DB
	guard *Guard
}

func (suite *GuardTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:guard%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.ProjectGroup{}, &models.Project{}))

	suite.db = db
	suite.guard = New(db)
}

func (suite *GuardTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *GuardTestSuite) createGroup(companyID uint64, name string) *models.ProjectGroup {
	group := &models.ProjectGroup{Name: name}
	group.CompanyID = companyID
	suite.Require().NoError(suite.db.Create(group).Error)
	return group
}

func (suite *GuardTestSuite) TestRequiredFieldFailsBeforeUniqueness() {
	suite.createGroup(1, "Alpha")

	// Blank name and a name collision at once: the required check must win so
	// the same payload always fails the same way.
	err := suite.guard.ValidateCreate(context.Background(), 1, 10, &models.ProjectGroup{}, Rules{
		Required: []Field{{Name: "name", Value: "   "}},
		Unique:   &Unique{Table: "project_groups", Column: "name", Value: "Alpha"},
	})
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))
}

func (suite *GuardTestSuite) TestRefMustResolveInTenant() {
	foreign := suite.createGroup(2, "Elsewhere")

	err := suite.guard.ValidateCreate(context.Background(), 1, 10, &models.Project{Name: "P"}, Rules{
		Refs: []Ref{{Field: "project_group_id", Table: "project_groups", ID: foreign.ID}},
	})
	suite.True(apperrors.IsKind(err, apperrors.KindReference))
}

func (suite *GuardTestSuite) TestRefRejectsSoftDeletedTarget() {
	group := suite.createGroup(1, "Gone")
	now := time.Now()
	suite.Require().NoError(suite.db.Model(group).Update("deleted_at", now).Error)

	err := suite.guard.ValidateCreate(context.Background(), 1, 10, &models.Project{Name: "P"}, Rules{
		Refs: []Ref{{Field: "project_group_id", Table: "project_groups", ID: group.ID}},
	})
	suite.True(apperrors.IsKind(err, apperrors.KindReference))
}

func (suite *GuardTestSuite) TestUniqueIsCaseInsensitivePerTenant() {
	suite.createGroup(1, "Alpha")

	err := suite.guard.ValidateCreate(context.Background(), 1, 10, &models.ProjectGroup{Name: "alpha"}, Rules{
		Unique: &Unique{Table: "project_groups", Column: "name", Value: "alpha"},
	})
	suite.True(apperrors.IsKind(err, apperrors.KindDuplicate))

	// The same name in another company is fine.
	err = suite.guard.ValidateCreate(context.Background(), 2, 10, &models.ProjectGroup{Name: "alpha"}, Rules{
		Unique: &Unique{Table: "project_groups", Column: "name", Value: "alpha"},
	})
	suite.NoError(err)
}

func (suite *GuardTestSuite) TestUniqueExcludesTheRecordItself() {
	group := suite.createGroup(1, "Alpha")

	err := suite.guard.ValidateUpdate(context.Background(), 1, 0, group, Rules{
		Unique: &Unique{Table: "project_groups", Column: "name", Value: "ALPHA", ExcludeID: group.ID},
	})
	suite.NoError(err)
}

func (suite *GuardTestSuite) TestValidateCreateStampsProvenance() {
	group := &models.ProjectGroup{Name: "Fresh"}

	err := suite.guard.ValidateCreate(context.Background(), 3, 42, group, Rules{})
	suite.Require().NoError(err)
	suite.EqualValues(3, group.CompanyID)
	suite.EqualValues(42, group.CreatedBy)
	suite.False(group.CreatedAt.IsZero())
}

func (suite *GuardTestSuite) TestUpdateRejectsTenantReassignment() {
	group := suite.createGroup(1, "Pinned")

	err := suite.guard.ValidateUpdate(context.Background(), 1, 2, group, Rules{})
	suite.True(apperrors.IsKind(err, apperrors.KindImmutableField))
}

func (suite *GuardTestSuite) TestUpdateRejectsForeignRecord() {
	group := suite.createGroup(2, "Foreign")

	err := suite.guard.ValidateUpdate(context.Background(), 1, 0, group, Rules{})
	suite.True(apperrors.IsKind(err, apperrors.KindScopeViolation))
}

func (suite *GuardTestSuite) TestUpdateBumpsUpdatedAt() {
	group := suite.createGroup(1, "Aging")
	before := group.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	err := suite.guard.ValidateUpdate(context.Background(), 1, 0, group, Rules{})
	suite.Require().NoError(err)
	suite.True(group.UpdatedAt.After(before))
}

func TestGuardTestSuite(t *testing.T) {
	suite.Run(t, new(GuardTestSuite))
}

func TestCheckRequired(t *testing.T) {
	var nilID *uint64
	zero := uint64(0)
	seven := uint64(7)

	valid := []Field{
		{Name: "name", Value: "ok"},
		{Name: "id", Value: uint64(1)},
		{Name: "ptr", Value: &seven},
		{Name: "count", Value: 3},
	}
	for _, f := range valid {
		if err := checkRequired(f); err != nil {
			t.Fatalf("%s: unexpected error %v", f.Name, err)
		}
	}

	missing := []Field{
		{Name: "name", Value: ""},
		{Name: "name", Value: "  \t"},
		{Name: "id", Value: uint64(0)},
		{Name: "ptr", Value: nilID},
		{Name: "ptr", Value: &zero},
		{Name: "count", Value: 0},
		{Name: "anything", Value: nil},
	}
	for _, f := range missing {
		err := checkRequired(f)
		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Fatalf("%s (%v): expected validation error, got %v", f.Name, f.Value, err)
		}
	}
}
