package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, restaurant_id, customer_id, customer_name, customer_email, special_instructions, status, total_amount, items, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.RestaurantID,
		&i.CustomerID,
		&i.CustomerName,
		&i.CustomerEmail,
		&i.SpecialInstructions,
		&i.Status,
		&i.TotalAmount,
		&i.Items,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertOrder = `-- name: InsertOrder :one
INSERT INTO orders (id, restaurant_id, customer_id, customer_name, customer_email, special_instructions, status, total_amount, items, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7::order_status, $8, $9, $10, $11)
RETURNING ` + orderColumns

type InsertOrderParams struct {
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

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, insertOrder,
		arg.ID,
		arg.RestaurantID,
		arg.CustomerID,
		arg.CustomerName,
		arg.CustomerEmail,
		arg.SpecialInstructions,
		string(arg.Status),
		arg.TotalAmount,
		arg.Items,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanOrder(row)
}

const findOrderById = `-- name: FindOrderById :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1
`

func (q *Queries) FindOrderById(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, findOrderById, id)
	return scanOrder(row)
}

const findOrders = `-- name: FindOrders :many
SELECT ` + orderColumns + ` FROM orders
WHERE ($1::uuid IS NULL OR customer_id = $1::uuid)
  AND ($2::uuid IS NULL OR restaurant_id = $2::uuid)
  AND ($3::text IS NULL OR status::text = $3::text)
ORDER BY created_at DESC, id
LIMIT $4 OFFSET $5
`

type FindOrdersParams struct {
	CustomerID   pgtype.UUID `json:"customer_id"`
	RestaurantID pgtype.UUID `json:"restaurant_id"`
	Status       pgtype.Text `json:"status"`
	Limit        int32       `json:"limit"`
	Offset       int32       `json:"offset"`
}

func (q *Queries) FindOrders(ctx context.Context, arg FindOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, findOrders,
		arg.CustomerID,
		arg.RestaurantID,
		arg.Status,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countOrders = `-- name: CountOrders :one
SELECT COUNT(*) FROM orders
WHERE ($1::uuid IS NULL OR customer_id = $1::uuid)
  AND ($2::uuid IS NULL OR restaurant_id = $2::uuid)
  AND ($3::text IS NULL OR status::text = $3::text)
`

type CountOrdersParams struct {
	CustomerID   pgtype.UUID `json:"customer_id"`
	RestaurantID pgtype.UUID `json:"restaurant_id"`
	Status       pgtype.Text `json:"status"`
}

func (q *Queries) CountOrders(ctx context.Context, arg CountOrdersParams) (int64, error) {
	row := q.db.QueryRow(ctx, countOrders, arg.CustomerID, arg.RestaurantID, arg.Status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2::order_status, updated_at = $3
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID        uuid.UUID          `json:"id"`
	Status    OrderStatus        `json:"status"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus, arg.ID, string(arg.Status), arg.UpdatedAt)
	return scanOrder(row)
}

const updateOrder = `-- name: UpdateOrder :one
UPDATE orders SET
  customer_name        = COALESCE($2, customer_name),
  customer_email       = COALESCE($3, customer_email),
  special_instructions = COALESCE($4, special_instructions),
  items                = COALESCE($5, items),
  total_amount         = COALESCE($6, total_amount),
  updated_at           = $7
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderParams struct {
	ID                  uuid.UUID          `json:"id"`
	CustomerName        pgtype.Text        `json:"customer_name"`
	CustomerEmail       pgtype.Text        `json:"customer_email"`
	SpecialInstructions pgtype.Text        `json:"special_instructions"`
	Items               []byte             `json:"items"`
	TotalAmount         pgtype.Numeric     `json:"total_amount"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrder,
		arg.ID,
		arg.CustomerName,
		arg.CustomerEmail,
		arg.SpecialInstructions,
		arg.Items,
		arg.TotalAmount,
		arg.UpdatedAt,
	)
	return scanOrder(row)
}

const deleteOrder = `-- name: DeleteOrder :execrows
DELETE FROM orders WHERE id = $1
`

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteOrdersByRestaurantId = `-- name: DeleteOrdersByRestaurantId :many
DELETE FROM orders WHERE restaurant_id = $1 RETURNING id
`

func (q *Queries) DeleteOrdersByRestaurantId(ctx context.Context, restaurantID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, deleteOrdersByRestaurantId, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
