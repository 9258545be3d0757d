package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/ordering/internal/pagination"
)

type Restaurant struct {
	ID          uuid.UUID       `json:"id"                    validate:"required"`
	Name        string          `json:"name"                  validate:"required"`
	Cuisine     string          `json:"cuisine"               validate:"required"`
	Location    string          `json:"location"              validate:"required"`
	Region      string          `json:"region"                validate:"required"`
	Rating      decimal.Decimal `json:"rating"                validate:"rating"`
	Description *string         `json:"description,omitempty"`
	ImageUrl    *string         `json:"imageUrl,omitempty"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"             validate:"required"`
	UpdatedAt   time.Time       `json:"updatedAt"             validate:"required"`
}

type Restaurants = pagination.Page[Restaurant]
