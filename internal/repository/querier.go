package repository

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	InsertUser(ctx context.Context, arg InsertUserParams) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserById(ctx context.Context, id uuid.UUID) (User, error)

	InsertRestaurant(ctx context.Context, arg InsertRestaurantParams) (Restaurant, error)
	FindRestaurantById(ctx context.Context, id uuid.UUID) (Restaurant, error)
	FindRestaurants(ctx context.Context, arg FindRestaurantsParams) ([]Restaurant, error)
	CountRestaurants(ctx context.Context, arg CountRestaurantsParams) (int64, error)
	UpdateRestaurant(ctx context.Context, arg UpdateRestaurantParams) (Restaurant, error)
	DeleteRestaurant(ctx context.Context, id uuid.UUID) (int64, error)

	InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error)
	FindOrderById(ctx context.Context, id uuid.UUID) (Order, error)
	FindOrders(ctx context.Context, arg FindOrdersParams) ([]Order, error)
	CountOrders(ctx context.Context, arg CountOrdersParams) (int64, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)
	UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteOrdersByRestaurantId(ctx context.Context, restaurantID uuid.UUID) ([]uuid.UUID, error)
}

var _ Querier = (*Queries)(nil)
