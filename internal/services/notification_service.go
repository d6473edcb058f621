package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

var notificationListDef = listquery.Definition{
	SortColumns: map[string]string{
		"created_at": "created_at",
	},
	DefaultSort: "created_at DESC",
}

type NotificationService struct {
	db            *gorm.DB
	notifications *store.Store[models.Notification, *models.Notification]
	relay         relay.Relay
}

func NewNotificationService(db *gorm.DB, r relay.Relay) *NotificationService {
	return &NotificationService{
		db:            db,
		notifications: store.New[models.Notification](db),
		relay:         r,
	}
}

// List returns the caller's own notifications, unread first by creation
// order. The recipient filter is forced; clients cannot list another user's
// feed.
func (s *NotificationService) List(ctx context.Context, tenantID, userID uint64, params listquery.Params, unreadOnly bool) (*listquery.Result[models.Notification], error) {
	if params.Filters == nil {
		params.Filters = store.Conditions{}
	}
	params.Filters["user_id"] = userID
	if unreadOnly {
		params.Filters["read"] = false
	}
	return listquery.Run(ctx, s.notifications, tenantID, notificationListDef, params)
}

// MarkRead flags one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, tenantID, userID, id uint64) error {
	result := s.notifications.Scoped(ctx, tenantID).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"read": true, "updated_at": time.Now()})
	if result.Error != nil {
		return apperrors.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Notification not found")
	}
	return nil
}

// MarkAllRead flags every unread notification of the caller.
func (s *NotificationService) MarkAllRead(ctx context.Context, tenantID, userID uint64) (int64, error) {
	result := s.notifications.Scoped(ctx, tenantID).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]any{"read": true, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, apperrors.Internal(result.Error)
	}
	return result.RowsAffected, nil
}

// Notify persists a notification and pushes it to the recipient's company
// room. Called by the other services after their own writes commit.
func (s *NotificationService) Notify(ctx context.Context, tenantID, actorID, recipientID uint64, kind models.NotificationType, message string) error {
	notification := &models.Notification{
		UserID:  recipientID,
		Type:    kind,
		Message: message,
	}
	notification.SetTenant(tenantID)
	notification.StampCreate(actorID, time.Now())

	if err := s.notifications.Create(ctx, notification); err != nil {
		return err
	}

	s.relay.Publish(ctx, relay.Event{
		Type:      string(kind),
		CompanyID: tenantID,
		Rooms:     []string{relay.RoomCompany},
		Payload: map[string]any{
			"notification_id": notification.ID,
			"user_id":         recipientID,
			"message":         message,
		},
	})
	return nil
}
