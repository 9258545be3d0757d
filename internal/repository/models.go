package repository

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (e *OrderStatus) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = OrderStatus(s)
	case string:
		*e = OrderStatus(s)
	default:
		return fmt.Errorf("unsupported scan type for OrderStatus: %T", src)
	}
	return nil
}

func (e OrderStatus) Value() (driver.Value, error) {
	return string(e), nil
}

type User struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Password  string             `json:"password"`
	Role      string             `json:"role"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Restaurant struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Cuisine     string             `json:"cuisine"`
	Location    string             `json:"location"`
	Region      string             `json:"region"`
	Rating      pgtype.Numeric     `json:"rating"`
	Description pgtype.Text        `json:"description"`
	ImageUrl    pgtype.Text        `json:"image_url"`
	OwnerID     uuid.UUID          `json:"owner_id"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type Order struct {
	ID                  uuid.UUID          `json:"id"`
	RestaurantID        uuid.UUID          `json:"restaurant_id"`
	CustomerID          uuid.UUID          `json:"customer_id"`
	CustomerName        pgtype.Text        `json:"customer_name"`
	CustomerEmail       pgtype.Text        `json:"customer_email"`
	SpecialInstructions pgtype.Text        `json:"special_instructions"`
	Status              OrderStatus        `json:"status"`
	TotalAmount         pgtype.Numeric     `json:"total_amount"`
	Items               []byte             `json:"items"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}
