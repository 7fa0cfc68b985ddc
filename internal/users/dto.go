package users

import (
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	Role         enums.Role
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleUser
	}
	return &models.User{
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		Role:         role,
	}
}
