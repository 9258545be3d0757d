package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/Alturino/ordering/order/pkg/request"
	"github.com/Alturino/ordering/order/pkg/response"
)

type OrderCreator interface {
	Create(c context.Context, input request.CreateOrder) (response.Order, error)
}

// RemotePlacer turns the cart into an order of one restaurant.
type RemotePlacer struct {
	Orders              OrderCreator
	RestaurantID        uuid.UUID
	CustomerName        *string
	CustomerEmail       *string
	SpecialInstructions *string
}

func (p RemotePlacer) PlaceOrder(c context.Context, items []CartItem) (response.Order, error) {
	orderItems := make([]request.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, request.OrderItem{
			ID:       item.Product.ID,
			Name:     item.Product.Name,
			Quantity: item.Quantity,
			Price:    item.Product.Price,
		})
	}
	return p.Orders.Create(c, request.CreateOrder{
		RestaurantID:        p.RestaurantID,
		Items:               orderItems,
		CustomerName:        p.CustomerName,
		CustomerEmail:       p.CustomerEmail,
		SpecialInstructions: p.SpecialInstructions,
	})
}
