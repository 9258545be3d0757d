package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const restaurantColumns = `id, name, cuisine, location, region, rating, description, image_url, owner_id, is_active, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...interface{}) error }) (Restaurant, error) {
	var i Restaurant
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Cuisine,
		&i.Location,
		&i.Region,
		&i.Rating,
		&i.Description,
		&i.ImageUrl,
		&i.OwnerID,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertRestaurant = `-- name: InsertRestaurant :one
INSERT INTO restaurants (id, name, cuisine, location, region, rating, description, image_url, owner_id, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + restaurantColumns

type InsertRestaurantParams struct {
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

func (q *Queries) InsertRestaurant(ctx context.Context, arg InsertRestaurantParams) (Restaurant, error) {
	row := q.db.QueryRow(ctx, insertRestaurant,
		arg.ID,
		arg.Name,
		arg.Cuisine,
		arg.Location,
		arg.Region,
		arg.Rating,
		arg.Description,
		arg.ImageUrl,
		arg.OwnerID,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanRestaurant(row)
}

const findRestaurantById = `-- name: FindRestaurantById :one
SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1
`

func (q *Queries) FindRestaurantById(ctx context.Context, id uuid.UUID) (Restaurant, error) {
	row := q.db.QueryRow(ctx, findRestaurantById, id)
	return scanRestaurant(row)
}

const findRestaurants = `-- name: FindRestaurants :many
SELECT ` + restaurantColumns + ` FROM restaurants
WHERE is_active = TRUE
  AND ($1::text IS NULL OR region = $1::text)
  AND ($2::text IS NULL OR cuisine = $2::text)
ORDER BY created_at DESC, id
LIMIT $3 OFFSET $4
`

type FindRestaurantsParams struct {
	Region  pgtype.Text `json:"region"`
	Cuisine pgtype.Text `json:"cuisine"`
	Limit   int32       `json:"limit"`
	Offset  int32       `json:"offset"`
}

func (q *Queries) FindRestaurants(ctx context.Context, arg FindRestaurantsParams) ([]Restaurant, error) {
	rows, err := q.db.Query(ctx, findRestaurants, arg.Region, arg.Cuisine, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Restaurant{}
	for rows.Next() {
		i, err := scanRestaurant(rows)
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

const countRestaurants = `-- name: CountRestaurants :one
SELECT COUNT(*) FROM restaurants
WHERE is_active = TRUE
  AND ($1::text IS NULL OR region = $1::text)
  AND ($2::text IS NULL OR cuisine = $2::text)
`

type CountRestaurantsParams struct {
	Region  pgtype.Text `json:"region"`
	Cuisine pgtype.Text `json:"cuisine"`
}

func (q *Queries) CountRestaurants(ctx context.Context, arg CountRestaurantsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countRestaurants, arg.Region, arg.Cuisine)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateRestaurant = `-- name: UpdateRestaurant :one
UPDATE restaurants SET
  name        = COALESCE($2, name),
  cuisine     = COALESCE($3, cuisine),
  location    = COALESCE($4, location),
  region      = COALESCE($5, region),
  rating      = COALESCE($6, rating),
  description = COALESCE($7, description),
  image_url   = COALESCE($8, image_url),
  is_active   = COALESCE($9, is_active),
  updated_at  = $10
WHERE id = $1
RETURNING ` + restaurantColumns

type UpdateRestaurantParams struct {
	ID          uuid.UUID          `json:"id"`
	Name        pgtype.Text        `json:"name"`
	Cuisine     pgtype.Text        `json:"cuisine"`
	Location    pgtype.Text        `json:"location"`
	Region      pgtype.Text        `json:"region"`
	Rating      pgtype.Numeric     `json:"rating"`
	Description pgtype.Text        `json:"description"`
	ImageUrl    pgtype.Text        `json:"image_url"`
	IsActive    pgtype.Bool        `json:"is_active"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateRestaurant(ctx context.Context, arg UpdateRestaurantParams) (Restaurant, error) {
	row := q.db.QueryRow(ctx, updateRestaurant,
		arg.ID,
		arg.Name,
		arg.Cuisine,
		arg.Location,
		arg.Region,
		arg.Rating,
		arg.Description,
		arg.ImageUrl,
		arg.IsActive,
		arg.UpdatedAt,
	)
	return scanRestaurant(row)
}

const deleteRestaurant = `-- name: DeleteRestaurant :execrows
DELETE FROM restaurants WHERE id = $1
`

func (q *Queries) DeleteRestaurant(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteRestaurant, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
