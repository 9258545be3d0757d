package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/Alturino/ordering/client/internal/otel"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/restaurant/pkg/request"
	"github.com/Alturino/ordering/restaurant/pkg/response"
)

const PATH_RESTAURANTS = "/restaurants"

// RestaurantFilter only contributes the fields that are set to the query.
type RestaurantFilter struct {
	Page     int
	PageSize int
	Region   string
	Cuisine  string
}

func (f RestaurantFilter) Values() url.Values {
	values := url.Values{}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	if f.Region != "" {
		values.Set("region", f.Region)
	}
	if f.Cuisine != "" {
		values.Set("cuisine", f.Cuisine)
	}
	return values
}

type RestaurantsAPI struct {
	client *Client
}

func (a *RestaurantsAPI) GetAll(c context.Context, filter RestaurantFilter) (response.Restaurants, error) {
	c, span := otel.Tracer.Start(c, "RestaurantsAPI GetAll")
	defer span.End()

	restaurants := response.Restaurants{}
	if err := a.client.Do(c, http.MethodGet, PATH_RESTAURANTS, filter.Values(), nil, &restaurants); err != nil {
		inOtel.RecordError(err, span)
		return response.Restaurants{}, err
	}
	return restaurants, nil
}

func (a *RestaurantsAPI) GetByID(c context.Context, id uuid.UUID) (response.Restaurant, error) {
	c, span := otel.Tracer.Start(c, "RestaurantsAPI GetByID")
	defer span.End()

	restaurant := response.Restaurant{}
	if err := a.client.Do(c, http.MethodGet, restaurantPath(id), nil, nil, &restaurant); err != nil {
		inOtel.RecordError(err, span)
		return response.Restaurant{}, err
	}
	return restaurant, nil
}

func (a *RestaurantsAPI) Create(c context.Context, input request.CreateRestaurant) (response.Restaurant, error) {
	c, span := otel.Tracer.Start(c, "RestaurantsAPI Create")
	defer span.End()

	restaurant := response.Restaurant{}
	if err := a.client.Do(c, http.MethodPost, PATH_RESTAURANTS, nil, input, &restaurant); err != nil {
		inOtel.RecordError(err, span)
		return response.Restaurant{}, err
	}
	return restaurant, nil
}

func (a *RestaurantsAPI) Update(c context.Context, id uuid.UUID, input request.UpdateRestaurant) (response.Restaurant, error) {
	c, span := otel.Tracer.Start(c, "RestaurantsAPI Update")
	defer span.End()

	restaurant := response.Restaurant{}
	if err := a.client.Do(c, http.MethodPut, restaurantPath(id), nil, input, &restaurant); err != nil {
		inOtel.RecordError(err, span)
		return response.Restaurant{}, err
	}
	return restaurant, nil
}

func (a *RestaurantsAPI) Delete(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "RestaurantsAPI Delete")
	defer span.End()

	if err := a.client.Do(c, http.MethodDelete, restaurantPath(id), nil, nil, nil); err != nil {
		inOtel.RecordError(err, span)
		return err
	}
	return nil
}

func restaurantPath(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", PATH_RESTAURANTS, id)
}
