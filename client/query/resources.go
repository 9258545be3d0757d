package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/Alturino/ordering/client/api"
	orderRequest "github.com/Alturino/ordering/order/pkg/request"
	orderResponse "github.com/Alturino/ordering/order/pkg/response"
	restaurantRequest "github.com/Alturino/ordering/restaurant/pkg/request"
	restaurantResponse "github.com/Alturino/ordering/restaurant/pkg/response"
)

const (
	ENDPOINT_RESTAURANTS = "restaurants"
	ENDPOINT_ORDERS      = "orders"
)

// Restaurants reads through the cache and invalidates every restaurant query
// after a successful mutation.
type Restaurants struct {
	api   *api.RestaurantsAPI
	cache *Cache
}

func NewRestaurants(restaurants *api.RestaurantsAPI, cache *Cache) *Restaurants {
	return &Restaurants{api: restaurants, cache: cache}
}

func (r *Restaurants) List(c context.Context, filter api.RestaurantFilter) (restaurantResponse.Restaurants, error) {
	key := NewKey(ENDPOINT_RESTAURANTS, filter.Values())
	return FetchAs(c, r.cache, key, func(c context.Context) (restaurantResponse.Restaurants, error) {
		return r.api.GetAll(c, filter)
	})
}

func (r *Restaurants) Get(c context.Context, id uuid.UUID) (restaurantResponse.Restaurant, error) {
	key := NewKey(ENDPOINT_RESTAURANTS+"/"+id.String(), nil)
	return FetchAs(c, r.cache, key, func(c context.Context) (restaurantResponse.Restaurant, error) {
		return r.api.GetByID(c, id)
	})
}

func (r *Restaurants) Create(c context.Context, input restaurantRequest.CreateRestaurant) (restaurantResponse.Restaurant, error) {
	restaurant, err := r.api.Create(c, input)
	if err != nil {
		return restaurantResponse.Restaurant{}, err
	}
	r.cache.Invalidate(ENDPOINT_RESTAURANTS)
	return restaurant, nil
}

func (r *Restaurants) Update(
	c context.Context,
	id uuid.UUID,
	input restaurantRequest.UpdateRestaurant,
) (restaurantResponse.Restaurant, error) {
	restaurant, err := r.api.Update(c, id, input)
	if err != nil {
		return restaurantResponse.Restaurant{}, err
	}
	r.cache.Invalidate(ENDPOINT_RESTAURANTS)
	return restaurant, nil
}

func (r *Restaurants) Delete(c context.Context, id uuid.UUID) error {
	if err := r.api.Delete(c, id); err != nil {
		return err
	}
	r.cache.Invalidate(ENDPOINT_RESTAURANTS)
	return nil
}

// Orders reads through the cache and invalidates every order query after a
// successful mutation.
type Orders struct {
	api   *api.OrdersAPI
	cache *Cache
}

func NewOrders(orders *api.OrdersAPI, cache *Cache) *Orders {
	return &Orders{api: orders, cache: cache}
}

func (o *Orders) List(c context.Context, filter api.OrderFilter) (orderResponse.Orders, error) {
	key := NewKey(ENDPOINT_ORDERS, filter.Values())
	return FetchAs(c, o.cache, key, func(c context.Context) (orderResponse.Orders, error) {
		return o.api.GetAll(c, filter)
	})
}

func (o *Orders) Get(c context.Context, id uuid.UUID) (orderResponse.Order, error) {
	key := NewKey(ENDPOINT_ORDERS+"/"+id.String(), nil)
	return FetchAs(c, o.cache, key, func(c context.Context) (orderResponse.Order, error) {
		return o.api.GetByID(c, id)
	})
}

func (o *Orders) Create(c context.Context, input orderRequest.CreateOrder) (orderResponse.Order, error) {
	order, err := o.api.Create(c, input)
	if err != nil {
		return orderResponse.Order{}, err
	}
	o.cache.Invalidate(ENDPOINT_ORDERS)
	return order, nil
}

func (o *Orders) Update(c context.Context, id uuid.UUID, input orderRequest.UpdateOrder) (orderResponse.Order, error) {
	order, err := o.api.Update(c, id, input)
	if err != nil {
		return orderResponse.Order{}, err
	}
	o.cache.Invalidate(ENDPOINT_ORDERS)
	return order, nil
}

func (o *Orders) UpdateStatus(c context.Context, id uuid.UUID, status string) (orderResponse.Order, error) {
	order, err := o.api.UpdateStatus(c, id, status)
	if err != nil {
		return orderResponse.Order{}, err
	}
	o.cache.Invalidate(ENDPOINT_ORDERS)
	return order, nil
}

func (o *Orders) Delete(c context.Context, id uuid.UUID) error {
	if err := o.api.Delete(c, id); err != nil {
		return err
	}
	o.cache.Invalidate(ENDPOINT_ORDERS)
	return nil
}
