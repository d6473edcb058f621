package dto

import (
	"github.com/gobinath946/project-weaver-sub001/internal/models"
)

// UserDTO is the user shape in API responses; it never carries the password
// hash.
type UserDTO struct {
	ID        uint64          `json:"id"`
	CompanyID uint64          `json:"company_id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Roles     models.RoleList `json:"roles"`
	Active    bool            `json:"active"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		CompanyID: user.CompanyID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
		Active:    user.Active,
	}
}
