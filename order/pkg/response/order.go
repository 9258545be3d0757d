package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/ordering/internal/pagination"
)

type OrderItem struct {
	ID       string          `json:"id"       validate:"required"`
	Name     string          `json:"name"     validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	Price    decimal.Decimal `json:"price"    validate:"dnonneg"`
}

type Order struct {
	ID                  uuid.UUID       `json:"id"                            validate:"required"`
	RestaurantID        uuid.UUID       `json:"restaurantId"                  validate:"required"`
	CustomerID          uuid.UUID       `json:"customerId"                    validate:"required"`
	CustomerName        *string         `json:"customerName,omitempty"`
	CustomerEmail       *string         `json:"customerEmail,omitempty"`
	SpecialInstructions *string         `json:"specialInstructions,omitempty"`
	Items               []OrderItem     `json:"items"                         validate:"required,dive"`
	Status              string          `json:"status"                        validate:"order_status"`
	TotalAmount         decimal.Decimal `json:"totalAmount"                   validate:"dnonneg"`
	CreatedAt           time.Time       `json:"createdAt"                     validate:"required"`
	UpdatedAt           time.Time       `json:"updatedAt"                     validate:"required"`
}

type Orders = pagination.Page[Order]

// Event is published to the broker when an order is created or its status changes.
type Event struct {
	Type           string    `json:"type"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	Order          Order     `json:"order"`
	OccurredAt     time.Time `json:"occurredAt"`
}
