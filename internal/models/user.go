package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// RoleList is stored as a JSON array column.
type RoleList []Role

// Intersects reports whether any of the user's roles appears in accepted.
// Authorization is a plain set intersection: an operation declares the roles
// it accepts and the request passes iff the intersection is non-empty.
func (r RoleList) Intersects(accepted []Role) bool {
	for _, have := range r {
		for _, want := range accepted {
			if have == want {
				return true
			}
		}
	}
	return false
}

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	CompanyID    uint64     `gorm:"not null;index" json:"company_id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	Roles        RoleList   `gorm:"type:text;serializer:json" json:"roles"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `gorm:"index" json:"-"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}
