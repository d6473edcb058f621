package models

type NotificationType string

const (
	NotificationTaskAssigned       NotificationType = "task_assigned"
	NotificationTaskUnassigned     NotificationType = "task_unassigned"
	NotificationTimesheetSubmitted NotificationType = "timesheet_submitted"
	NotificationTimesheetReviewed  NotificationType = "timesheet_reviewed"
	NotificationCommentAdded       NotificationType = "comment_added"
)

type Notification struct {
	TenantModel
	UserID  uint64           `gorm:"not null;index" json:"user_id"`
	Type    NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Read    bool             `gorm:"not null;default:false" json:"read"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
