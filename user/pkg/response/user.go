package response

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID `json:"id"    validate:"required"`
	Name  string    `json:"name"  validate:"required"`
	Email string    `json:"email" validate:"required,email"`
}

type Auth struct {
	Token string `json:"token" validate:"required"`
	User  User   `json:"user"  validate:"required"`
}

type Profile struct {
	ID        uuid.UUID `json:"id"        validate:"required"`
	Name      string    `json:"name"      validate:"required"`
	Email     string    `json:"email"     validate:"required,email"`
	Role      string    `json:"role"      validate:"required"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}
