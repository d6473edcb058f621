package models

import "time"

// Company is the tenant: the unit of data isolation. It is not itself
// tenant-scoped.
type Company struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Active    bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	// Relations
	Users []User `gorm:"foreignKey:CompanyID" json:"users,omitempty"`
}
