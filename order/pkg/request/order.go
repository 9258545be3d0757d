package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/ordering/internal/pagination"
	"github.com/Alturino/ordering/internal/token"
)

// Caller is the authenticated user an order operation runs for.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

func CallerFromClaims(claims *token.Claims) (Caller, error) {
	userId, err := claims.UserID()
	if err != nil {
		return Caller{}, err
	}
	return Caller{UserID: userId, Role: claims.Role}, nil
}

// Privileged callers see and manage every order.
func (c Caller) Privileged() bool {
	return c.Role == token.ROLE_ADMIN || c.Role == token.ROLE_RESTAURANT_OWNER
}

func (c Caller) Admin() bool {
	return c.Role == token.ROLE_ADMIN
}

type OrderItem struct {
	ID       string          `json:"id"       validate:"required,max=64"`
	Name     string          `json:"name"     validate:"required,max=100"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	Price    decimal.Decimal `json:"price"    validate:"dnonneg"`
}

// CreateOrder ignores any client supplied total. The server computes it.
type CreateOrder struct {
	RestaurantID        uuid.UUID   `json:"restaurantId"                  validate:"required"`
	Items               []OrderItem `json:"items"                         validate:"dive"`
	CustomerName        *string     `json:"customerName,omitempty"        validate:"omitempty,max=100"`
	CustomerEmail       *string     `json:"customerEmail,omitempty"       validate:"omitempty,email"`
	SpecialInstructions *string     `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
}

type UpdateOrderStatus struct {
	Status string `json:"status" validate:"required"`
}

// UpdateOrder only changes the fields that are present. Items, when present,
// replace the whole list and the total is recomputed.
type UpdateOrder struct {
	CustomerName        *string     `json:"customerName,omitempty"        validate:"omitempty,max=100"`
	CustomerEmail       *string     `json:"customerEmail,omitempty"       validate:"omitempty,email"`
	SpecialInstructions *string     `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
	Items               []OrderItem `json:"items,omitempty"               validate:"omitempty,dive"`
}

type FindOrders struct {
	RestaurantID uuid.UUID
	Status       string
	Pagination   pagination.Params
}
