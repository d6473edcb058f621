package models

// Comment attaches to exactly one of a task or a bug.
type Comment struct {
	TenantModel
	TaskID *uint64 `gorm:"index" json:"task_id"`
	BugID  *uint64 `gorm:"index" json:"bug_id"`
	Body   string  `gorm:"type:text;not null" json:"body"`

	// Relations
	Author User `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
}
