package service

import (
	"context"
	"fmt"
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
	"github.com/Alturino/ordering/restaurant/pkg/request"
)

func setup(t *testing.T) (*RestaurantService, *repositorytest.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repositorytest.New()
	svc := NewRestaurantService(store, infra.NewEntityCache(client, time.Minute))
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, store, mr
}


func assertInvalidated(t *testing.T, mr *miniredis.Miniredis, key string) {
	t.Helper()
	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, infra.CACHE_TOMBSTONE, cached)
}

func newRestaurant(name, region, cuisine string) request.CreateRestaurant {
	return request.CreateRestaurant{
		Name:     name,
		Cuisine:  cuisine,
		Location: "Main St",
		Region:   region,
		Rating:   decimal.RequireFromString("4.5"),
	}
}

func TestCreateAndFindRestaurantById(t *testing.T) {
	svc, _, mr := setup(t)
	c := context.Background()
	ownerId := uuid.New()

	created, err := svc.CreateRestaurant(c, ownerId, newRestaurant("Bella", "us-east", "Italian"))
	require.NoError(t, err)
	assert.Equal(t, ownerId, created.OwnerID)
	assert.True(t, created.IsActive)
	assert.True(t, mr.Exists(fmt.Sprintf(constants.CACHE_KEY_RESTAURANT, created.ID)))

	actual, err := svc.FindRestaurantById(c, request.FindRestaurantById{RestaurantId: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, actual.ID)
	assert.True(t, created.Rating.Equal(actual.Rating))

	mr.FlushAll()
	actual, err = svc.FindRestaurantById(c, request.FindRestaurantById{RestaurantId: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.Name, actual.Name)
}

func TestFindRestaurantByIdIgnoresStaleFill(t *testing.T) {
	svc, store, mr := setup(t)
	c := context.Background()
	created, err := svc.CreateRestaurant(c, uuid.New(), newRestaurant("Bella", "us-east", "Italian"))
	require.NoError(t, err)
	mr.FlushAll()

	stale, err := store.FindRestaurantById(c, created.ID)
	require.NoError(t, err)
	name := "Bella Napoli"
	_, err = svc.UpdateRestaurant(c, created.ID, request.UpdateRestaurant{Name: &name})
	require.NoError(t, err)
	svc.fillRestaurant(c, stale.Response())

	actual, err := svc.FindRestaurantById(c, request.FindRestaurantById{RestaurantId: created.ID})
	require.NoError(t, err)
	assert.Equal(t, name, actual.Name)

	mr.FastForward(infra.INVALIDATION_TTL)
	actual, err = svc.FindRestaurantById(c, request.FindRestaurantById{RestaurantId: created.ID})
	require.NoError(t, err)
	assert.Equal(t, name, actual.Name)
	assert.True(t, mr.Exists(fmt.Sprintf(constants.CACHE_KEY_RESTAURANT, created.ID)))
}

func TestFindRestaurantByIdNotFound(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.FindRestaurantById(context.Background(), request.FindRestaurantById{RestaurantId: uuid.New()})

	assert.ErrorIs(t, err, errors.ErrRestaurantNotFound)
}

func TestFindRestaurants(t *testing.T) {
	svc, _, _ := setup(t)
	c := context.Background()
	ownerId := uuid.New()
	for _, r := range []request.CreateRestaurant{
		newRestaurant("A", "us-east", "Italian"),
		newRestaurant("B", "us-east", "Thai"),
		newRestaurant("C", "eu-west", "Italian"),
	} {
		_, err := svc.CreateRestaurant(c, ownerId, r)
		require.NoError(t, err)
	}

	tests := []struct {
		name          string
		input         request.FindRestaurants
		expectedNames []string
		expectedTotal int64
	}{
		{
			name:          "given no filter should return newest first",
			input:         request.FindRestaurants{Pagination: pagination.Params{Page: 1, PageSize: 20}},
			expectedNames: []string{"C", "B", "A"},
			expectedTotal: 3,
		},
		{
			name:          "given region filter should return matching restaurants",
			input:         request.FindRestaurants{Region: "us-east", Pagination: pagination.Params{Page: 1, PageSize: 20}},
			expectedNames: []string{"B", "A"},
			expectedTotal: 2,
		},
		{
			name:          "given region and cuisine filter should return matching restaurants",
			input:         request.FindRestaurants{Region: "us-east", Cuisine: "Italian", Pagination: pagination.Params{Page: 1, PageSize: 20}},
			expectedNames: []string{"A"},
			expectedTotal: 1,
		},
		{
			name:          "given second page should return remaining restaurants",
			input:         request.FindRestaurants{Pagination: pagination.Params{Page: 2, PageSize: 2}},
			expectedNames: []string{"A"},
			expectedTotal: 3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := svc.FindRestaurants(c, test.input)
			require.NoError(t, err)

			names := []string{}
			for _, r := range actual.Data {
				names = append(names, r.Name)
			}
			assert.Equal(t, test.expectedNames, names)
			assert.Equal(t, test.expectedTotal, actual.Total)
			assert.Equal(t, test.input.Pagination.Page, actual.Page)
			assert.Equal(t, test.input.Pagination.PageSize, actual.PageSize)
		})
	}
}

func TestUpdateRestaurant(t *testing.T) {
	svc, _, mr := setup(t)
	c := context.Background()
	created, err := svc.CreateRestaurant(c, uuid.New(), newRestaurant("Bella", "us-east", "Italian"))
	require.NoError(t, err)

	name := "Bella Napoli"
	updated, err := svc.UpdateRestaurant(c, created.ID, request.UpdateRestaurant{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Bella Napoli", updated.Name)
	assert.Equal(t, created.Cuisine, updated.Cuisine)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assertInvalidated(t, mr, fmt.Sprintf(constants.CACHE_KEY_RESTAURANT, created.ID))

	_, err = svc.UpdateRestaurant(c, uuid.New(), request.UpdateRestaurant{Name: &name})
	assert.ErrorIs(t, err, errors.ErrRestaurantNotFound)
}

func TestDeleteRestaurant(t *testing.T) {
	svc, _, _ := setup(t)
	c := context.Background()
	created, err := svc.CreateRestaurant(c, uuid.New(), newRestaurant("Bella", "us-east", "Italian"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRestaurant(c, created.ID))

	_, err = svc.FindRestaurantById(c, request.FindRestaurantById{RestaurantId: created.ID})
	assert.ErrorIs(t, err, errors.ErrRestaurantNotFound)
	assert.ErrorIs(t, svc.DeleteRestaurant(c, created.ID), errors.ErrRestaurantNotFound)
}

func TestDeleteRestaurantInvalidatesOrders(t *testing.T) {
	svc, store, mr := setup(t)
	c := context.Background()
	created, err := svc.CreateRestaurant(c, uuid.New(), newRestaurant("Bella", "us-east", "Italian"))
	require.NoError(t, err)

	order, err := store.InsertOrder(c, repository.InsertOrderParams{
		ID:           uuid.New(),
		RestaurantID: created.ID,
		CustomerID:   uuid.New(),
		Status:       repository.OrderStatusPending,
		TotalAmount:  repository.Numeric(decimal.RequireFromString("12.50")),
		Items:        []byte(`[]`),
	})
	require.NoError(t, err)
	orderKey := fmt.Sprintf(constants.CACHE_KEY_ORDER, order.ID)
	require.NoError(t, mr.Set(orderKey, `{"id":"`+order.ID.String()+`"}`))

	require.NoError(t, svc.DeleteRestaurant(c, created.ID))

	assertInvalidated(t, mr, orderKey)
	assertInvalidated(t, mr, fmt.Sprintf(constants.CACHE_KEY_RESTAURANT, created.ID))
	_, err = store.FindOrderById(c, order.ID)
	assert.True(t, repository.IsNotFound(err))
}

func TestDeleteRestaurantNotFoundKeepsCache(t *testing.T) {
	svc, store, mr := setup(t)
	c := context.Background()
	restaurantId := uuid.New()
	orderKey := fmt.Sprintf(constants.CACHE_KEY_ORDER, uuid.New())
	require.NoError(t, mr.Set(orderKey, `{}`))

	err := svc.DeleteRestaurant(c, restaurantId)
	assert.ErrorIs(t, err, errors.ErrRestaurantNotFound)
	assert.True(t, mr.Exists(orderKey))

	store.ErrNext = fmt.Errorf("connection reset")
	assert.Error(t, svc.DeleteRestaurant(c, restaurantId))
}

func TestFindRestaurantsStoreError(t *testing.T) {
	svc, store, _ := setup(t)
	dbErr := fmt.Errorf("connection refused")
	store.ErrNext = dbErr

	_, err := svc.FindRestaurants(context.Background(), request.FindRestaurants{
		Pagination: pagination.Params{Page: 1, PageSize: 20},
	})

	assert.ErrorIs(t, err, dbErr)
}
