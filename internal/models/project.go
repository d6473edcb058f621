package models

type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusActive, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

type Project struct {
	TenantModel
	Name           string        `gorm:"type:varchar(255);not null" json:"name"`
	Description    string        `gorm:"type:text" json:"description"`
	Status         ProjectStatus `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
	ProjectGroupID *uint64       `gorm:"index" json:"project_group_id"`

	// Relations
	ProjectGroup *ProjectGroup `gorm:"foreignKey:ProjectGroupID" json:"project_group,omitempty"`
	Tasks        []Task        `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Bugs         []Bug         `gorm:"foreignKey:ProjectID" json:"bugs,omitempty"`
}
