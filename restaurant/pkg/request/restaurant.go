package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/ordering/internal/pagination"
)

type CreateRestaurant struct {
	Name        string          `json:"name"                  validate:"required,min=1,max=100"`
	Cuisine     string          `json:"cuisine"               validate:"required,min=1,max=50"`
	Location    string          `json:"location"              validate:"required,min=1,max=200"`
	Region      string          `json:"region"                validate:"required,min=1,max=50"`
	Rating      decimal.Decimal `json:"rating"                validate:"rating"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	ImageUrl    *string         `json:"imageUrl,omitempty"    validate:"omitempty,url"`
}

// UpdateRestaurant only changes the fields that are present.
type UpdateRestaurant struct {
	Name        *string          `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Cuisine     *string          `json:"cuisine,omitempty"     validate:"omitempty,min=1,max=50"`
	Location    *string          `json:"location,omitempty"    validate:"omitempty,min=1,max=200"`
	Region      *string          `json:"region,omitempty"      validate:"omitempty,min=1,max=50"`
	Rating      *decimal.Decimal `json:"rating,omitempty"      validate:"omitempty,rating"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	ImageUrl    *string          `json:"imageUrl,omitempty"    validate:"omitempty,url"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

type FindRestaurantById struct {
	RestaurantId uuid.UUID
}

type FindRestaurants struct {
	Region     string
	Cuisine    string
	Pagination pagination.Params
}
