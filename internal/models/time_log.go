package models

import "time"

// TimeLog records work against a project, optionally pinned to a single task
// or bug (never both).
type TimeLog struct {
	TenantModel
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	TaskID    *uint64   `gorm:"index" json:"task_id"`
	BugID     *uint64   `gorm:"index" json:"bug_id"`
	Minutes   int       `gorm:"not null" json:"minutes"`
	LogDate   time.Time `gorm:"not null;index" json:"log_date"`
	Note      string    `gorm:"type:text" json:"note"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
