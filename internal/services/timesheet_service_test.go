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

type TimesheetServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	sheets   *TimesheetService
	logs     *TimeLogService
	projects *ProjectService
	owner    *models.User
	manager  *models.User
	project  *models.Project
}

func (suite *TimesheetServiceTestSuite) SetupTest() {
	suite.db = openServiceDB(&suite.Suite)
	notifier := NewNotificationService(suite.db, relay.Noop{})
	suite.sheets = NewTimesheetService(suite.db, relay.Noop{}, notifier)
	suite.logs = NewTimeLogService(suite.db, relay.Noop{})
	suite.projects = NewProjectService(suite.db, relay.Noop{})

	suite.owner = createUser(&suite.Suite, suite.db, 1, "owner@example.com")
	suite.manager = createUser(&suite.Suite, suite.db, 1, "manager@example.com", models.RoleManager)

	project, err := suite.projects.Create(context.Background(), 1, suite.owner.ID, ProjectInput{Name: "Billable"})
	suite.Require().NoError(err)
	suite.project = project
}

func (suite *TimesheetServiceTestSuite) TearDownTest() {
	closeDB(&suite.Suite, suite.db)
}

func (suite *TimesheetServiceTestSuite) createDraft() *models.Timesheet {
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	sheet, err := suite.sheets.Create(context.Background(), 1, suite.owner.ID, TimesheetInput{
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 0, 6),
	})
	suite.Require().NoError(err)
	return sheet
}

func (suite *TimesheetServiceTestSuite) TestCreateValidatesPeriod() {
	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	_, err := suite.sheets.Create(context.Background(), 1, suite.owner.ID, TimesheetInput{
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 0, -1),
	})
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))

	_, err = suite.sheets.Create(context.Background(), 1, suite.owner.ID, TimesheetInput{})
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))
}

func (suite *TimesheetServiceTestSuite) TestCreateDefaultsOwnerToActor() {
	sheet := suite.createDraft()
	suite.Equal(suite.owner.ID, sheet.UserID)
	suite.Equal(models.TimesheetStatusDraft, sheet.Status)
}

func (suite *TimesheetServiceTestSuite) TestSubmitOnlyByOwner() {
	sheet := suite.createDraft()

	_, err := suite.sheets.Submit(context.Background(), 1, suite.manager.ID, sheet.ID)
	suite.True(apperrors.IsKind(err, apperrors.KindForbidden))

	submitted, err := suite.sheets.Submit(context.Background(), 1, suite.owner.ID, sheet.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TimesheetStatusSubmitted, submitted.Status)
	suite.NotNil(submitted.SubmittedAt)

	// Submitting twice is a state error.
	_, err = suite.sheets.Submit(context.Background(), 1, suite.owner.ID, sheet.ID)
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))
}

func (suite *TimesheetServiceTestSuite) TestSubmitNotifiesManagers() {
	sheet := suite.createDraft()

	_, err := suite.sheets.Submit(context.Background(), 1, suite.owner.ID, sheet.ID)
	suite.Require().NoError(err)

	var notifications []models.Notification
	suite.Require().NoError(suite.db.Where("type = ?", models.NotificationTimesheetSubmitted).Find(&notifications).Error)
	suite.Require().Len(notifications, 1)
	suite.Equal(suite.manager.ID, notifications[0].UserID)
}

func (suite *TimesheetServiceTestSuite) TestReviewTransitions() {
	sheet := suite.createDraft()

	// Reviewing a draft is premature.
	_, err := suite.sheets.Review(context.Background(), 1, suite.manager.ID, sheet.ID, true)
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))

	_, err = suite.sheets.Submit(context.Background(), 1, suite.owner.ID, sheet.ID)
	suite.Require().NoError(err)

	approved, err := suite.sheets.Review(context.Background(), 1, suite.manager.ID, sheet.ID, true)
	suite.Require().NoError(err)
	suite.Equal(models.TimesheetStatusApproved, approved.Status)
	suite.Require().NotNil(approved.ReviewedBy)
	suite.Equal(suite.manager.ID, *approved.ReviewedBy)
	suite.NotNil(approved.ReviewedAt)

	// The owner hears about the outcome.
	var notifications []models.Notification
	suite.Require().NoError(suite.db.Where("type = ?", models.NotificationTimesheetReviewed).Find(&notifications).Error)
	suite.Require().Len(notifications, 1)
	suite.Equal(suite.owner.ID, notifications[0].UserID)
}

func (suite *TimesheetServiceTestSuite) TestDeleteOnlyDrafts() {
	sheet := suite.createDraft()
	_, err := suite.sheets.Submit(context.Background(), 1, suite.owner.ID, sheet.ID)
	suite.Require().NoError(err)

	err = suite.sheets.Delete(context.Background(), 1, sheet.ID)
	suite.True(apperrors.IsKind(err, apperrors.KindValidation))
}

func (suite *TimesheetServiceTestSuite) TestTotalMinutesAggregatesPeriodLogs() {
	sheet := suite.createDraft()

	inPeriod := sheet.PeriodStart.AddDate(0, 0, 1)
	outOfPeriod := sheet.PeriodStart.AddDate(0, 0, 30)
	for _, entry := range []struct {
		date    time.Time
		minutes int
	}{
		{inPeriod, 90},
		{inPeriod.AddDate(0, 0, 1), 30},
		{outOfPeriod, 480},
	} {
		date := entry.date
		_, err := suite.logs.Create(context.Background(), 1, suite.owner.ID, TimeLogInput{
			ProjectID: suite.project.ID,
			Minutes:   entry.minutes,
			LogDate:   &date,
		})
		suite.Require().NoError(err)
	}

	got, err := suite.sheets.Get(context.Background(), 1, sheet.ID)
	suite.Require().NoError(err)
	suite.EqualValues(120, got.TotalMinutes)
}

func TestTimesheetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimesheetServiceTestSuite))
}
