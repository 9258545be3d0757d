package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/errors"
	"github.com/Alturino/ordering/internal/infra"
	"github.com/Alturino/ordering/internal/pagination"
	"github.com/Alturino/ordering/internal/repository"
	"github.com/Alturino/ordering/internal/repository/repositorytest"
	"github.com/Alturino/ordering/internal/token"
	"github.com/Alturino/ordering/order/pkg/request"
	"github.com/Alturino/ordering/order/pkg/response"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []infra.Message
}

func (p *recordingPublisher) Publish(c context.Context, topic string, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, infra.Message{Topic: topic, Key: key, Payload: payload})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc          *OrderService
	store        *repositorytest.Store
	mr           *miniredis.Miniredis
	publisher    *recordingPublisher
	restaurantId uuid.UUID
}

func setup(t *testing.T) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repositorytest.New()
	publisher := &recordingPublisher{}
	svc := NewOrderService(store, infra.NewEntityCache(client, time.Minute), publisher)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	restaurant, err := store.InsertRestaurant(context.Background(), repository.InsertRestaurantParams{
		ID:       uuid.New(),
		Name:     "Bella",
		Cuisine:  "Italian",
		Location: "Main St",
		Region:   "us-east",
		Rating:   repository.Numeric(decimal.RequireFromString("4.5")),
		OwnerID:  uuid.New(),
		IsActive: true,
	})
	require.NoError(t, err)

	return fixture{svc: svc, store: store, mr: mr, publisher: publisher, restaurantId: restaurant.ID}
}


func assertInvalidated(t *testing.T, mr *miniredis.Miniredis, key string) {
	t.Helper()
	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, infra.CACHE_TOMBSTONE, cached)
}

func customer() request.Caller {
	return request.Caller{UserID: uuid.New(), Role: token.ROLE_CUSTOMER}
}

func item(id string, quantity int, price string) request.OrderItem {
	return request.OrderItem{ID: id, Name: id, Quantity: quantity, Price: decimal.RequireFromString(price)}
}

func (f fixture) order(t *testing.T, caller request.Caller) response.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), caller, request.CreateOrder{
		RestaurantID: f.restaurantId,
		Items:        []request.OrderItem{item("burger", 1, "8.99")},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f := setup(t)
	caller := customer()
	name := "Ana"

	order, err := f.svc.CreateOrder(context.Background(), caller, request.CreateOrder{
		RestaurantID: f.restaurantId,
		Items: []request.OrderItem{
			item("burger", 2, "8.99"),
			item("pizza", 1, "12.99"),
			item("water", 1, "0"),
		},
		CustomerName: &name,
	})

	require.NoError(t, err)
	assert.Equal(t, "30.97", order.TotalAmount.StringFixed(2))
	assert.Equal(t, string(repository.OrderStatusPending), order.Status)
	assert.Equal(t, caller.UserID, order.CustomerID)
	assert.Equal(t, f.restaurantId, order.RestaurantID)
	assert.Equal(t, &name, order.CustomerName)
	assert.Len(t, order.Items, 3)
	assert.True(t, f.mr.Exists(fmt.Sprintf(constants.CACHE_KEY_ORDER, order.ID)))

	require.Len(t, f.publisher.messages, 1)
	message := f.publisher.messages[0]
	assert.Equal(t, constants.TOPIC_ORDER_CREATED, message.Topic)
	assert.Equal(t, order.ID.String(), message.Key)
	event := response.Event{}
	require.NoError(t, json.Unmarshal(message.Payload, &event))
	assert.Equal(t, order.ID, event.Order.ID)
	assert.Empty(t, event.PreviousStatus)
}

func TestCreateOrderErrors(t *testing.T) {
	tests := []struct {
		name     string
		param    func(f fixture) request.CreateOrder
		expected error
	}{
		{
			name: "empty items",
			param: func(f fixture) request.CreateOrder {
				return request.CreateOrder{RestaurantID: f.restaurantId}
			},
			expected: errors.ErrOrderEmpty,
		},
		{
			name: "unknown restaurant",
			param: func(f fixture) request.CreateOrder {
				return request.CreateOrder{
					RestaurantID: uuid.New(),
					Items:        []request.OrderItem{item("burger", 1, "8.99")},
				}
			},
			expected: errors.ErrInvalidRestaurant,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := setup(t)

			_, err := f.svc.CreateOrder(context.Background(), customer(), test.param(f))

			assert.ErrorIs(t, err, test.expected)
			assert.Empty(t, f.publisher.messages)
		})
	}
}

func TestFindOrdersVisibility(t *testing.T) {
	f := setup(t)
	c := context.Background()
	alice, bob := customer(), customer()
	f.order(t, alice)
	f.order(t, alice)
	bobOrder := f.order(t, bob)
	_, err := f.svc.UpdateOrderStatus(c, request.Caller{UserID: uuid.New(), Role: token.ROLE_ADMIN}, bobOrder.ID, request.UpdateOrderStatus{Status: "preparing"})
	require.NoError(t, err)

	params := pagination.Params{Page: 1, PageSize: 20}
	tests := []struct {
		name          string
		caller        request.Caller
		param         request.FindOrders
		expectedTotal int64
	}{
		{name: "customer sees own orders", caller: alice, param: request.FindOrders{Pagination: params}, expectedTotal: 2},
		{name: "other customer", caller: bob, param: request.FindOrders{Pagination: params}, expectedTotal: 1},
		{
			name:          "owner sees all",
			caller:        request.Caller{UserID: uuid.New(), Role: token.ROLE_RESTAURANT_OWNER},
			param:         request.FindOrders{Pagination: params},
			expectedTotal: 3,
		},
		{
			name:          "status filter",
			caller:        request.Caller{UserID: uuid.New(), Role: token.ROLE_ADMIN},
			param:         request.FindOrders{Status: "preparing", Pagination: params},
			expectedTotal: 1,
		},
		{
			name:          "restaurant filter",
			caller:        request.Caller{UserID: uuid.New(), Role: token.ROLE_ADMIN},
			param:         request.FindOrders{RestaurantID: uuid.New(), Pagination: params},
			expectedTotal: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := f.svc.FindOrders(c, test.caller, test.param)

			require.NoError(t, err)
			assert.Equal(t, test.expectedTotal, actual.Total)
			assert.Len(t, actual.Data, int(test.expectedTotal))
			for _, o := range actual.Data {
				if !test.caller.Privileged() {
					assert.Equal(t, test.caller.UserID, o.CustomerID)
				}
			}
		})
	}
}

func TestFindOrderById(t *testing.T) {
	f := setup(t)
	c := context.Background()
	alice := customer()
	order := f.order(t, alice)

	actual, err := f.svc.FindOrderById(c, alice, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, actual.ID)

	f.mr.FlushAll()
	actual, err = f.svc.FindOrderById(c, alice, order.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(actual.TotalAmount))

	_, err = f.svc.FindOrderById(c, customer(), order.ID)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	_, err = f.svc.FindOrderById(c, alice, uuid.New())
	assert.ErrorIs(t, err, errors.ErrOrderNotFound)
}

func TestFindOrderByIdIgnoresStaleFill(t *testing.T) {
	f := setup(t)
	c := context.Background()
	alice := customer()
	admin := request.Caller{UserID: uuid.New(), Role: token.ROLE_ADMIN}
	order := f.order(t, alice)
	f.mr.FlushAll()

	stale, err := f.svc.findOrder(c, f.store, order.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateOrderStatus(c, admin, order.ID, request.UpdateOrderStatus{Status: "preparing"})
	require.NoError(t, err)
	f.svc.fillOrder(c, stale)

	actual, err := f.svc.FindOrderById(c, alice, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(repository.OrderStatusPreparing), actual.Status)
	assertInvalidated(t, f.mr, fmt.Sprintf(constants.CACHE_KEY_ORDER, order.ID))

	f.mr.FastForward(infra.INVALIDATION_TTL)
	actual, err = f.svc.FindOrderById(c, alice, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(repository.OrderStatusPreparing), actual.Status)
	assert.True(t, f.mr.Exists(fmt.Sprintf(constants.CACHE_KEY_ORDER, order.ID)))
}

func TestUpdateOrderStatus(t *testing.T) {
	admin := request.Caller{UserID: uuid.New(), Role: token.ROLE_ADMIN}

	tests := []struct {
		name           string
		path           []string
		caller         func(owner request.Caller) request.Caller
		status         string
		expectedErr    error
		expectedStatus string
	}{
		{
			name:           "pending to preparing",
			caller:         func(request.Caller) request.Caller { return admin },
			status:         "preparing",
			expectedStatus: "preparing",
		},
		{
			name:           "ready to delivered",
			path:           []string{"preparing", "ready"},
			caller:         func(request.Caller) request.Caller { return admin },
			status:         "delivered",
			expectedStatus: "delivered",
		},
		{
			name:        "skipping a step",
			path:        []string{"preparing"},
			caller:      func(request.Caller) request.Caller { return admin },
			status:      "delivered",
			expectedErr: errors.ErrInvalidTransition,
		},
		{
			name:        "terminal status",
			path:        []string{"cancelled"},
			caller:      func(request.Caller) request.Caller { return admin },
			status:      "pending",
			expectedErr: errors.ErrInvalidTransition,
		},
		{
			name:        "unknown status",
			caller:      func(request.Caller) request.Caller { return admin },
			status:      "shipped",
			expectedErr: errors.ErrInvalidOrderStatus,
		},
		{
			name:           "customer cancels own pending order",
			caller:         func(owner request.Caller) request.Caller { return owner },
			status:         "cancelled",
			expectedStatus: "cancelled",
		},
		{
			name:        "customer cannot prepare",
			caller:      func(owner request.Caller) request.Caller { return owner },
			status:      "preparing",
			expectedErr: errors.ErrForbidden,
		},
		{
			name:        "customer cannot cancel others order",
			caller:      func(request.Caller) request.Caller { return customer() },
			status:      "cancelled",
			expectedErr: errors.ErrForbidden,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := setup(t)
			c := context.Background()
			owner := customer()
			order := f.order(t, owner)
			for _, status := range test.path {
				_, err := f.svc.UpdateOrderStatus(c, admin, order.ID, request.UpdateOrderStatus{Status: status})
				require.NoError(t, err)
			}

			actual, err := f.svc.UpdateOrderStatus(c, test.caller(owner), order.ID, request.UpdateOrderStatus{Status: test.status})

			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedStatus, actual.Status)
			assertInvalidated(t, f.mr, fmt.Sprintf(constants.CACHE_KEY_ORDER, order.ID))

			last := f.publisher.messages[len(f.publisher.messages)-1]
			assert.Equal(t, constants.TOPIC_ORDER_STATUS_UPDATED, last.Topic)
			event := response.Event{}
			require.NoError(t, json.Unmarshal(last.Payload, &event))
			assert.Equal(t, test.expectedStatus, event.Order.Status)
			assert.NotEmpty(t, event.PreviousStatus)
		})
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	err := &TransitionError{From: repository.OrderStatusPreparing, To: repository.OrderStatusDelivered}

	assert.Equal(t, "invalid status transition from preparing to delivered", err.Error())
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)
}

func TestUpdateOrder(t *testing.T) {
	f := setup(t)
	c := context.Background()
	alice := customer()
	admin := request.Caller{UserID: uuid.New(), Role: token.ROLE_ADMIN}
	order := f.order(t, alice)
	notes := "no onions"

	updated, err := f.svc.UpdateOrder(c, alice, order.ID, request.UpdateOrder{
		SpecialInstructions: &notes,
		Items:               []request.OrderItem{item("steak", 2, "18.99")},
	})
	require.NoError(t, err)
	assert.Equal(t, "37.98", updated.TotalAmount.StringFixed(2))
	assert.Equal(t, &notes, updated.SpecialInstructions)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "steak", updated.Items[0].ID)

	_, err = f.svc.UpdateOrder(c, alice, order.ID, request.UpdateOrder{Items: []request.OrderItem{}})
	assert.ErrorIs(t, err, errors.ErrOrderEmpty)

	_, err = f.svc.UpdateOrder(c, customer(), order.ID, request.UpdateOrder{SpecialInstructions: &notes})
	assert.ErrorIs(t, err, errors.ErrForbidden)

	_, err = f.svc.UpdateOrderStatus(c, admin, order.ID, request.UpdateOrderStatus{Status: "preparing"})
	require.NoError(t, err)

	_, err = f.svc.UpdateOrder(c, alice, order.ID, request.UpdateOrder{SpecialInstructions: &notes})
	assert.ErrorIs(t, err, errors.ErrOrderNotPending)

	_, err = f.svc.UpdateOrder(c, admin, order.ID, request.UpdateOrder{SpecialInstructions: &notes})
	assert.NoError(t, err)
}

func TestDeleteOrder(t *testing.T) {
	f := setup(t)
	c := context.Background()
	alice := customer()
	order := f.order(t, alice)

	err := f.svc.DeleteOrder(c, customer(), order.ID)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	require.NoError(t, f.svc.DeleteOrder(c, alice, order.ID))
	assertInvalidated(t, f.mr, fmt.Sprintf(constants.CACHE_KEY_ORDER, order.ID))

	err = f.svc.DeleteOrder(c, alice, order.ID)
	assert.ErrorIs(t, err, errors.ErrOrderNotFound)
}

func TestQRCode(t *testing.T) {
	f := setup(t)
	alice := customer()
	order := f.order(t, alice)

	png, err := f.svc.QRCode(context.Background(), alice, order.ID)

	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestStoreErrorIsReturned(t *testing.T) {
	f := setup(t)
	f.store.ErrNext = assert.AnError

	_, err := f.svc.FindOrders(context.Background(), customer(), request.FindOrders{
		Pagination: pagination.Params{Page: 1, PageSize: 20},
	})

	assert.ErrorIs(t, err, assert.AnError)
}
