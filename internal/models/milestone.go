package models

import "time"

type Milestone struct {
	TenantModel
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	ProjectID uint64     `gorm:"not null;index" json:"project_id"`
	DueDate   *time.Time `json:"due_date"`
	Completed bool       `gorm:"not null;default:false" json:"completed"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
