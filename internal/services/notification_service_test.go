package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	db            *gorm.DB
	notifications *NotificationService
	alice         *models.User
	bob           *models.User
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.db = openServiceDB(&suite.Suite)
	suite.notifications = NewNotificationService(suite.db, relay.Noop{})
	suite.alice = createUser(&suite.Suite, suite.db, 1, "alice@example.com")
	suite.bob = createUser(&suite.Suite, suite.db, 1, "bob@example.com")
}

func (suite *NotificationServiceTestSuite) TearDownTest() {
	closeDB(&suite.Suite, suite.db)
}

func (suite *NotificationServiceTestSuite) notify(recipient uint64, message string) {
	err := suite.notifications.Notify(context.Background(), 1, suite.alice.ID, recipient,
		models.NotificationTaskAssigned, message)
	suite.Require().NoError(err)
}

func (suite *NotificationServiceTestSuite) TestListIsAlwaysScopedToTheCaller() {
	suite.notify(suite.alice.ID, "for alice")
	suite.notify(suite.bob.ID, "for bob")

	// Even a caller trying to read another user's feed only sees their own:
	// the recipient filter is overwritten, not merged.
	result, err := suite.notifications.List(context.Background(), 1, suite.alice.ID, listquery.Params{
		Page: 1, Limit: 10,
		Filters: store.Conditions{"user_id": suite.bob.ID},
	}, false)
	suite.Require().NoError(err)
	suite.Require().Len(result.Data, 1)
	suite.Equal("for alice", result.Data[0].Message)
}

func (suite *NotificationServiceTestSuite) TestUnreadFilterAndMarkRead() {
	suite.notify(suite.alice.ID, "one")
	suite.notify(suite.alice.ID, "two")

	unread, err := suite.notifications.List(context.Background(), 1, suite.alice.ID,
		listquery.Params{Page: 1, Limit: 10}, true)
	suite.Require().NoError(err)
	suite.Require().Len(unread.Data, 2)

	suite.Require().NoError(suite.notifications.MarkRead(context.Background(), 1, suite.alice.ID, unread.Data[0].ID))

	unread, err = suite.notifications.List(context.Background(), 1, suite.alice.ID,
		listquery.Params{Page: 1, Limit: 10}, true)
	suite.Require().NoError(err)
	suite.Len(unread.Data, 1)
}

func (suite *NotificationServiceTestSuite) TestMarkReadRejectsForeignNotification() {
	suite.notify(suite.bob.ID, "for bob")

	var notification models.Notification
	suite.Require().NoError(suite.db.First(&notification).Error)

	err := suite.notifications.MarkRead(context.Background(), 1, suite.alice.ID, notification.ID)
	suite.True(apperrors.IsKind(err, apperrors.KindNotFound))
}

func (suite *NotificationServiceTestSuite) TestMarkAllRead() {
	suite.notify(suite.alice.ID, "one")
	suite.notify(suite.alice.ID, "two")
	suite.notify(suite.bob.ID, "for bob")

	count, err := suite.notifications.MarkAllRead(context.Background(), 1, suite.alice.ID)
	suite.Require().NoError(err)
	suite.EqualValues(2, count)

	// Bob's notification is untouched.
	var unreadBob int64
	suite.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", suite.bob.ID, false).
		Count(&unreadBob)
	suite.EqualValues(1, unreadBob)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
