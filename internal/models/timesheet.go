package models

import "time"

type TimesheetStatus string

const (
	TimesheetStatusDraft     TimesheetStatus = "draft"
	TimesheetStatusSubmitted TimesheetStatus = "submitted"
	TimesheetStatusApproved  TimesheetStatus = "approved"
	TimesheetStatusRejected  TimesheetStatus = "rejected"
)

func ValidTimesheetStatus(s TimesheetStatus) bool {
	switch s {
	case TimesheetStatusDraft, TimesheetStatusSubmitted, TimesheetStatusApproved, TimesheetStatusRejected:
		return true
	}
	return false
}

// Timesheet covers one user's work over a period. TotalMinutes is aggregated
// from the user's time logs inside the period when the sheet is read.
type Timesheet struct {
	TenantModel
	UserID      uint64          `gorm:"not null;index" json:"user_id"`
	PeriodStart time.Time       `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time       `gorm:"not null" json:"period_end"`
	Status      TimesheetStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	SubmittedAt *time.Time      `json:"submitted_at"`
	ReviewedBy  *uint64         `json:"reviewed_by"`
	ReviewedAt  *time.Time      `json:"reviewed_at"`

	TotalMinutes int64 `gorm:"-" json:"total_minutes"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
