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
	"github.com/Alturino/ordering/order/pkg/request"
	"github.com/Alturino/ordering/order/pkg/response"
)

const PATH_ORDERS = "/orders"

// OrderFilter only contributes the fields that are set to the query.
type OrderFilter struct {
	Page         int
	PageSize     int
	RestaurantID uuid.UUID
	Status       string
}

func (f OrderFilter) Values() url.Values {
	values := url.Values{}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	if f.RestaurantID != uuid.Nil {
		values.Set("restaurantId", f.RestaurantID.String())
	}
	if f.Status != "" {
		values.Set("status", f.Status)
	}
	return values
}

type OrdersAPI struct {
	client *Client
}

func (a *OrdersAPI) GetAll(c context.Context, filter OrderFilter) (response.Orders, error) {
	c, span := otel.Tracer.Start(c, "OrdersAPI GetAll")
	defer span.End()

	orders := response.Orders{}
	if err := a.client.Do(c, http.MethodGet, PATH_ORDERS, filter.Values(), nil, &orders); err != nil {
		inOtel.RecordError(err, span)
		return response.Orders{}, err
	}
	return orders, nil
}

func (a *OrdersAPI) GetByID(c context.Context, id uuid.UUID) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrdersAPI GetByID")
	defer span.End()

	order := response.Order{}
	if err := a.client.Do(c, http.MethodGet, orderPath(id), nil, nil, &order); err != nil {
		inOtel.RecordError(err, span)
		return response.Order{}, err
	}
	return order, nil
}

func (a *OrdersAPI) Create(c context.Context, input request.CreateOrder) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrdersAPI Create")
	defer span.End()

	order := response.Order{}
	if err := a.client.Do(c, http.MethodPost, PATH_ORDERS, nil, input, &order); err != nil {
		inOtel.RecordError(err, span)
		return response.Order{}, err
	}
	return order, nil
}

func (a *OrdersAPI) Update(c context.Context, id uuid.UUID, input request.UpdateOrder) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrdersAPI Update")
	defer span.End()

	order := response.Order{}
	if err := a.client.Do(c, http.MethodPut, orderPath(id), nil, input, &order); err != nil {
		inOtel.RecordError(err, span)
		return response.Order{}, err
	}
	return order, nil
}

func (a *OrdersAPI) UpdateStatus(c context.Context, id uuid.UUID, status string) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrdersAPI UpdateStatus")
	defer span.End()

	order := response.Order{}
	body := request.UpdateOrderStatus{Status: status}
	if err := a.client.Do(c, http.MethodPatch, orderPath(id)+"/status", nil, body, &order); err != nil {
		inOtel.RecordError(err, span)
		return response.Order{}, err
	}
	return order, nil
}

func (a *OrdersAPI) Delete(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "OrdersAPI Delete")
	defer span.End()

	if err := a.client.Do(c, http.MethodDelete, orderPath(id), nil, nil, nil); err != nil {
		inOtel.RecordError(err, span)
		return err
	}
	return nil
}

// QRCode returns the png receipt of an order.
func (a *OrdersAPI) QRCode(c context.Context, id uuid.UUID) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "OrdersAPI QRCode")
	defer span.End()

	png, err := a.client.Bytes(c, http.MethodGet, orderPath(id)+"/qrcode", nil, nil)
	if err != nil {
		inOtel.RecordError(err, span)
		return nil, err
	}
	return png, nil
}

func orderPath(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", PATH_ORDERS, id)
}
