package repository

import (
	"encoding/json"
	"fmt"

	orderResponse "github.com/Alturino/ordering/order/pkg/response"
	restaurantResponse "github.com/Alturino/ordering/restaurant/pkg/response"
	userResponse "github.com/Alturino/ordering/user/pkg/response"
)

func (r Restaurant) Response() restaurantResponse.Restaurant {
	return restaurantResponse.Restaurant{
		ID:          r.ID,
		Name:        r.Name,
		Cuisine:     r.Cuisine,
		Location:    r.Location,
		Region:      r.Region,
		Rating:      Decimal(r.Rating),
		Description: StringPtr(r.Description),
		ImageUrl:    StringPtr(r.ImageUrl),
		OwnerID:     r.OwnerID,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

func (o Order) Response() (orderResponse.Order, error) {
	items := []orderResponse.OrderItem{}
	if len(o.Items) > 0 {
		err := json.Unmarshal(o.Items, &items)
		if err != nil {
			return orderResponse.Order{}, fmt.Errorf("failed unmarshaling order items with error=%w", err)
		}
	}
	return orderResponse.Order{
		ID:                  o.ID,
		RestaurantID:        o.RestaurantID,
		CustomerID:          o.CustomerID,
		CustomerName:        StringPtr(o.CustomerName),
		CustomerEmail:       StringPtr(o.CustomerEmail),
		SpecialInstructions: StringPtr(o.SpecialInstructions),
		Items:               items,
		Status:              string(o.Status),
		TotalAmount:         Decimal(o.TotalAmount),
		CreatedAt:           o.CreatedAt.Time,
		UpdatedAt:           o.UpdatedAt.Time,
	}, nil
}

func (u User) Response() userResponse.User {
	return userResponse.User{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u User) Profile() userResponse.Profile {
	return userResponse.Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Time,
	}
}
