package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
)

type TimeLogServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	logs    *TimeLogService
	user    *models.User
	project *models.Project
	task    *models.Task
	bug     *models.Bug
}

func (suite *TimeLogServiceTestSuite) SetupTest() {
	suite.db = openServiceDB(&suite.Suite)
	suite.logs = NewTimeLogService(suite.db, relay.Noop{})
	suite.user = createUser(&suite.Suite, suite.db, 1, "worker@example.com")

	ctx := context.Background()
	projects := NewProjectService(suite.db, relay.Noop{})
	project, err := projects.Create(ctx, 1, suite.user.ID, ProjectInput{Name: "Core"})
	suite.Require().NoError(err)
	suite.project = project

	tasks := NewTaskService(suite.db, relay.Noop{}, NewNotificationService(suite.db, relay.Noop{}))
	task, err := tasks.Create(ctx, 1, suite.user.ID, TaskInput{Title: "T", ProjectID: project.ID})
	suite.Require().NoError(err)
	suite.task = task

	bugs := NewBugService(suite.db, relay.Noop{})
	bug, err := bugs.Create(ctx, 1, suite.user.ID, BugInput{Title: "B", ProjectID: project.ID})
	suite.Require().NoError(err)
	suite.bug = bug
}

func (suite *TimeLogServiceTestSuite) TearDownTest() {
	closeDB(&suite.Suite, suite.db)
}

func (suite *TimeLogServiceTestSuite) TestCreateRejectsTaskAndBugTogether() {
	_, err := suite.logs.Create(context.Background(), 1, suite.user.ID, TimeLogInput{
		ProjectID: suite.project.ID,
		TaskID:    &suite.task.ID,
		BugID:     &suite.bug.ID,
		Minutes:   60,
	})
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))
}

func (suite *TimeLogServiceTestSuite) TestCreateRequiresPositiveMinutes() {
	_, err := suite.logs.Create(context.Background(), 1, suite.user.ID, TimeLogInput{
		ProjectID: suite.project.ID,
		Minutes:   0,
	})
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))
}

func (suite *TimeLogServiceTestSuite) TestCreateDefaults() {
	log, err := suite.logs.Create(context.Background(), 1, suite.user.ID, TimeLogInput{
		ProjectID: suite.project.ID,
		Minutes:   45,
	})
	suite.Require().NoError(err)
	suite.Equal(suite.user.ID, log.UserID, "defaults to the actor")
	suite.False(log.LogDate.IsZero())
	suite.Nil(log.TaskID)
	suite.Nil(log.BugID)
}

func (suite *TimeLogServiceTestSuite) TestCreateAgainstTask() {
	log, err := suite.logs.Create(context.Background(), 1, suite.user.ID, TimeLogInput{
		ProjectID: suite.project.ID,
		TaskID:    &suite.task.ID,
		Minutes:   30,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(log.TaskID)
	suite.Equal(suite.task.ID, *log.TaskID)
}

func (suite *TimeLogServiceTestSuite) TestUpdateRejectsTaskAndBugTogether() {
	log, err := suite.logs.Create(context.Background(), 1, suite.user.ID, TimeLogInput{
		ProjectID: suite.project.ID,
		TaskID:    &suite.task.ID,
		Minutes:   30,
	})
	suite.Require().NoError(err)

	_, err = suite.logs.Update(context.Background(), 1, log.ID, TimeLogInput{
		TaskID: &suite.task.ID,
		BugID:  &suite.bug.ID,
	})
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))

	// The record is untouched on a rejected update.
	current, err := suite.logs.Get(context.Background(), 1, log.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(current.TaskID)
	suite.Nil(current.BugID)
}

func (suite *TimeLogServiceTestSuite) TestUpdateSwitchingParentClearsTheOther() {
	log, err := suite.logs.Create(context.Background(), 1, suite.user.ID, TimeLogInput{
		ProjectID: suite.project.ID,
		TaskID:    &suite.task.ID,
		Minutes:   30,
	})
	suite.Require().NoError(err)

	updated, err := suite.logs.Update(context.Background(), 1, log.ID, TimeLogInput{BugID: &suite.bug.ID})
	suite.Require().NoError(err)
	suite.Nil(updated.TaskID)
	suite.Require().NotNil(updated.BugID)
	suite.Equal(suite.bug.ID, *updated.BugID)
}

func (suite *TimeLogServiceTestSuite) TestCreateRejectsForeignUser() {
	outsider := createUser(&suite.Suite, suite.db, 2, "outsider@example.com")

	_, err := suite.logs.Create(context.Background(), 1, suite.user.ID, TimeLogInput{
		UserID:    outsider.ID,
		ProjectID: suite.project.ID,
		Minutes:   15,
		LogDate:   ptrTime(time.Now()),
	})
	suite.True(apperrors.IsKind(err, apperrors.KindReference))
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestTimeLogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimeLogServiceTestSuite))
}
