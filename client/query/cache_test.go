package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/ordering/client/api"
	"github.com/Alturino/ordering/restaurant/pkg/request"
	"github.com/Alturino/ordering/restaurant/pkg/response"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "restaurants", NewKey("restaurants", nil).String())
	assert.Equal(t, "restaurants", NewKey("restaurants", url.Values{}).String())
	assert.Equal(
		t,
		NewKey("restaurants", url.Values{"region": {"eu"}, "page": {"1"}}),
		NewKey("restaurants", url.Values{"page": {"1"}, "region": {"eu"}}),
	)
	assert.Equal(t, "restaurants?page=1&region=eu", NewKey("restaurants", url.Values{"region": {"eu"}, "page": {"1"}}).String())
}

func TestFetchStoresValue(t *testing.T) {
	cache := NewCache()
	key := NewKey("restaurants", nil)

	_, ok := cache.Get(key)
	assert.False(t, ok)

	value, err := cache.Fetch(context.Background(), key, func(context.Context) (any, error) {
		snapshot, ok := cache.Get(key)
		assert.True(t, ok)
		assert.True(t, snapshot.Loading)
		return "first", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	snapshot, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, "first", snapshot.Value)
	assert.False(t, snapshot.Loading)
	assert.NoError(t, snapshot.Err)
	assert.False(t, snapshot.UpdatedAt.IsZero())
}

func TestFetchErrorKeepsLastValue(t *testing.T) {
	cache := NewCache()
	key := NewKey("orders", nil)
	expected := errors.New("boom")

	_, err := cache.Fetch(context.Background(), key, func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	_, err = cache.Fetch(context.Background(), key, func(context.Context) (any, error) { return nil, expected })
	assert.ErrorIs(t, err, expected)

	snapshot, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, 1, snapshot.Value)
	assert.ErrorIs(t, snapshot.Err, expected)
	assert.False(t, snapshot.Loading)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	cache := NewCache()
	key := NewKey("restaurants", nil)
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan any)

	go func() {
		value, _ := cache.Fetch(context.Background(), key, func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- value
	}()
	<-started

	_, err := cache.Fetch(context.Background(), key, func(context.Context) (any, error) { return "fresh", nil })
	require.NoError(t, err)
	close(release)

	assert.Equal(t, "stale", <-done)
	snapshot, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, "fresh", snapshot.Value)
}

func TestInvalidateDuringFetch(t *testing.T) {
	cache := NewCache()
	key := NewKey("orders", nil)

	_, err := cache.Fetch(context.Background(), key, func(context.Context) (any, error) {
		cache.Invalidate("orders")
		return "dropped", nil
	})
	require.NoError(t, err)

	_, ok := cache.Get(key)
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	cache := NewCache()
	c := context.Background()
	ok := func(context.Context) (any, error) { return true, nil }
	for _, key := range []Key{
		NewKey("restaurants", nil),
		NewKey("restaurants", url.Values{"region": {"eu"}}),
		NewKey("restaurants/"+uuid.NewString(), nil),
		NewKey("restaurantsx", nil),
		NewKey("orders", nil),
	} {
		_, err := cache.Fetch(c, key, ok)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, cache.Invalidate("restaurants"))
	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 0, cache.Invalidate("restaurants"))
}

func TestFetchAs(t *testing.T) {
	cache := NewCache()

	value, err := FetchAs(context.Background(), cache, NewKey("n", nil), func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, value)

	value, err = FetchAs(context.Background(), cache, NewKey("n", nil), func(context.Context) (int, error) {
		return 9, errors.New("boom")
	})
	assert.Error(t, err)
	assert.Zero(t, value)
}

func TestRestaurantsInvalidatedAfterMutation(t *testing.T) {
	lists := atomic.Int32{}
	now := time.Now().UTC()
	restaurant := response.Restaurant{
		ID:        uuid.New(),
		Name:      "Trattoria",
		Cuisine:   "Italian",
		Location:  "1 Main St",
		Region:    "eu",
		Rating:    decimal.RequireFromString("4"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /restaurants", func(w http.ResponseWriter, r *http.Request) {
		lists.Add(1)
		_ = json.NewEncoder(w).Encode(response.Restaurants{Data: []response.Restaurant{restaurant}, Total: 1, Page: 1, PageSize: 20})
	})
	mux.HandleFunc("POST /restaurants", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(restaurant)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cache := NewCache()
	restaurants := NewRestaurants(api.New(server.URL).Restaurants, cache)
	c := context.Background()
	filter := api.RestaurantFilter{Region: "eu"}

	page, err := restaurants.List(c, filter)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	snapshot, ok := cache.Get(NewKey(ENDPOINT_RESTAURANTS, filter.Values()))
	require.True(t, ok)
	assert.Equal(t, page, snapshot.Value)

	_, err = restaurants.Create(c, request.CreateRestaurant{
		Name:     "Trattoria",
		Cuisine:  "Italian",
		Location: "1 Main St",
		Region:   "eu",
		Rating:   decimal.RequireFromString("4"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())

	_, err = restaurants.List(c, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(2), lists.Load())
}

func TestFailedMutationKeepsCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Forbidden","status":403}`))
	}))
	defer server.Close()

	cache := NewCache()
	client := api.New(server.URL)
	orders := NewOrders(client.Orders, cache)
	_, err := cache.Fetch(context.Background(), NewKey(ENDPOINT_ORDERS, nil), func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)

	err = orders.Delete(context.Background(), uuid.New())

	apiErr := &api.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Forbidden", apiErr.Message)
	assert.Equal(t, 1, cache.Len())
}
