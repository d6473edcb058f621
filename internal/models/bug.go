package models

type BugSeverity string

const (
	BugSeverityMinor    BugSeverity = "minor"
	BugSeverityMajor    BugSeverity = "major"
	BugSeverityCritical BugSeverity = "critical"
	BugSeverityBlocker  BugSeverity = "blocker"
)

func ValidBugSeverity(s BugSeverity) bool {
	switch s {
	case BugSeverityMinor, BugSeverityMajor, BugSeverityCritical, BugSeverityBlocker:
		return true
	}
	return false
}

type BugStatus string

const (
	BugStatusOpen       BugStatus = "open"
	BugStatusInProgress BugStatus = "in_progress"
	BugStatusResolved   BugStatus = "resolved"
	BugStatusClosed     BugStatus = "closed"
)

func ValidBugStatus(s BugStatus) bool {
	switch s {
	case BugStatusOpen, BugStatusInProgress, BugStatusResolved, BugStatusClosed:
		return true
	}
	return false
}

type Bug struct {
	TenantModel
	Title       string      `gorm:"type:varchar(255);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Severity    BugSeverity `gorm:"type:varchar(20);not null;default:'minor'" json:"severity"`
	Status      BugStatus   `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	ProjectID   uint64      `gorm:"not null;index" json:"project_id"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
