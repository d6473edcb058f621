package models

// ProjectGroup organizes projects into named buckets. Group names are unique
// per company, compared case-insensitively. Unlike the other entities, a
// group is removed with a hard delete: the referencing projects keep living
// and only lose their group assignment.
type ProjectGroup struct {
	TenantModel
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// ProjectCount is computed at read time, not stored.
	ProjectCount int64 `gorm:"-" json:"project_count"`

	// Relations
	Projects []Project `gorm:"foreignKey:ProjectGroupID" json:"projects,omitempty"`
}
