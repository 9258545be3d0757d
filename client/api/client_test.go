package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/ordering/client/session"
	inHttp "github.com/Alturino/ordering/internal/http"
	"github.com/Alturino/ordering/restaurant/pkg/request"
	"github.com/Alturino/ordering/restaurant/pkg/response"
	userResponse "github.com/Alturino/ordering/user/pkg/response"
)

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newRestaurant(name string) response.Restaurant {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return response.Restaurant{
		ID:        uuid.New(),
		Name:      name,
		Cuisine:   "Italian",
		Location:  "1 Main St",
		Region:    "us-east",
		Rating:    decimal.RequireFromString("4.5"),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestURL(t *testing.T) {
	client := New("http://localhost:3000/api/")

	testCases := []struct {
		name     string
		path     string
		query    url.Values
		expected string
	}{
		{name: "nil query", path: "/restaurants", expected: "http://localhost:3000/api/restaurants"},
		{name: "empty query", path: "/restaurants", query: url.Values{}, expected: "http://localhost:3000/api/restaurants"},
		{
			name:     "with query",
			path:     "/restaurants",
			query:    RestaurantFilter{Region: "us-east"}.Values(),
			expected: "http://localhost:3000/api/restaurants?region=us-east",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, client.URL(tc.path, tc.query))
		})
	}
}

func TestFilterValues(t *testing.T) {
	assert.Empty(t, RestaurantFilter{}.Values().Encode())
	assert.Equal(t, "cuisine=Thai&page=2&pageSize=5", RestaurantFilter{Page: 2, PageSize: 5, Cuisine: "Thai"}.Values().Encode())

	restaurantID := uuid.New()
	assert.Empty(t, OrderFilter{}.Values().Encode())
	assert.Equal(
		t,
		"restaurantId="+restaurantID.String()+"&status=pending",
		OrderFilter{RestaurantID: restaurantID, Status: "pending"}.Values().Encode(),
	)
}

func TestGetAllSendsOnlyPresentParams(t *testing.T) {
	queries := []string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		writeJson(w, http.StatusOK, response.Restaurants{Data: []response.Restaurant{}, Page: 1, PageSize: 20})
	}))
	defer server.Close()
	client := New(server.URL)

	_, err := client.Restaurants.GetAll(context.Background(), RestaurantFilter{})
	require.NoError(t, err)
	_, err = client.Restaurants.GetAll(context.Background(), RestaurantFilter{Region: "us-east"})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "region=us-east"}, queries)
}

func TestErrors(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected APIError
	}{
		{
			name:     "message from body",
			status:   http.StatusUnauthorized,
			body:     `{"message":"Invalid credentials","status":401}`,
			expected: APIError{Message: "Invalid credentials", Status: http.StatusUnauthorized},
		},
		{
			name:     "json without message",
			status:   http.StatusInternalServerError,
			body:     `{}`,
			expected: APIError{Message: "HTTP error! status: 500", Status: http.StatusInternalServerError},
		},
		{
			name:     "not json",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			expected: APIError{Message: "An error occurred", Status: http.StatusBadGateway},
		},
		{
			name:   "field errors",
			status: http.StatusBadRequest,
			body:   `{"message":"Validation failed","status":400,"errors":{"email":["must be a valid email"]}}`,
			expected: APIError{
				Message: "Validation failed",
				Status:  http.StatusBadRequest,
				Errors:  map[string][]string{"email": {"must be a valid email"}},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()
			client := New(server.URL)

			_, err := client.Auth.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "wrong-password"})

			apiErr := &APIError{}
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.expected, *apiErr)
			assert.Equal(t, tc.expected.Message, err.Error())
		})
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := New(server.URL)

	_, err := client.Restaurants.GetAll(context.Background(), RestaurantFilter{})

	assert.ErrorIs(t, err, ErrNetwork)
}

func TestInvalidResponse(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "missing fields", body: `{"id":"` + uuid.NewString() + `","rating":"4.5"}`},
		{name: "rating out of range", body: `{"id":"` + uuid.NewString() + `","name":"a","cuisine":"b","location":"c","region":"d","rating":"7","createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}`},
		{name: "not json", body: `nope`},
		{name: "empty", body: ``},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()
			client := New(server.URL)

			_, err := client.Restaurants.GetByID(context.Background(), uuid.New())

			assert.ErrorIs(t, err, ErrInvalidResponse)
			validationErr := &ValidationError{}
			assert.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Fields)
		})
	}
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()
	client := New(server.URL)

	assert.NoError(t, client.Restaurants.Delete(context.Background(), uuid.New()))
}

func TestCreateThenGetByID(t *testing.T) {
	mu := sync.Mutex{}
	restaurants := map[string]response.Restaurant{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /restaurants", func(w http.ResponseWriter, r *http.Request) {
		input := request.CreateRestaurant{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		restaurant := newRestaurant(input.Name)
		restaurant.Cuisine = input.Cuisine
		restaurant.Rating = input.Rating
		mu.Lock()
		restaurants[restaurant.ID.String()] = restaurant
		mu.Unlock()
		writeJson(w, http.StatusCreated, restaurant)
	})
	mux.HandleFunc("GET /restaurants/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		restaurant, ok := restaurants[r.PathValue("id")]
		mu.Unlock()
		if !ok {
			writeJson(w, http.StatusNotFound, inHttp.ErrorResponse{Message: "Restaurant not found", Status: http.StatusNotFound})
			return
		}
		writeJson(w, http.StatusOK, restaurant)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	client := New(server.URL)
	c := context.Background()

	created, err := client.Restaurants.Create(c, request.CreateRestaurant{
		Name:     "Trattoria",
		Cuisine:  "Italian",
		Location: "1 Main St",
		Region:   "us-east",
		Rating:   decimal.RequireFromString("4.2"),
	})
	require.NoError(t, err)

	found, err := client.Restaurants.GetByID(c, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Trattoria", found.Name)
	assert.True(t, decimal.RequireFromString("4.2").Equal(found.Rating))

	_, err = client.Restaurants.GetByID(c, uuid.New())
	apiErr := &APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Restaurant not found", apiErr.Message)
}

func TestAuthSession(t *testing.T) {
	user := userResponse.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		input := LoginInput{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "secret-password", input.Password)
		writeJson(w, http.StatusOK, userResponse.Auth{Token: "token-1", User: user})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION) != "Bearer token-1" {
			writeJson(w, http.StatusUnauthorized, inHttp.ErrorResponse{Message: "Unauthorized", Status: http.StatusUnauthorized})
			return
		}
		writeJson(w, http.StatusOK, userResponse.Profile{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      "CUSTOMER",
			CreatedAt: time.Now().UTC(),
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJson(w, http.StatusOK, inHttp.MessageResponse{Message: "Logout successful"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s, err := session.New(nil)
	require.NoError(t, err)
	client := New(server.URL, WithSession(s))
	c := context.Background()

	_, err = client.Auth.Me(c)
	apiErr := &APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	auth, err := client.Auth.Login(c, LoginInput{Email: user.Email, Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", auth.Token)
	assert.True(t, s.Active())

	profile, err := client.Auth.Me(c)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	require.NoError(t, client.Auth.Logout(c))
	assert.False(t, s.Active())
}

func TestContextSessionOverridesClientSession(t *testing.T) {
	headers := []string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	clientSession, err := session.New(nil)
	require.NoError(t, err)
	require.NoError(t, clientSession.Start("client-token", userResponse.User{}))
	contextSession, err := session.New(nil)
	require.NoError(t, err)
	require.NoError(t, contextSession.Start("context-token", userResponse.User{}))
	client := New(server.URL, WithSession(clientSession))

	require.NoError(t, client.Orders.Delete(context.Background(), uuid.New()))
	require.NoError(t, client.Orders.Delete(session.WithSession(context.Background(), contextSession), uuid.New()))

	assert.Equal(t, []string{"Bearer client-token", "Bearer context-token"}, headers)
}

func TestLogoutClearsSessionOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	s, err := session.New(nil)
	require.NoError(t, err)
	require.NoError(t, s.Start("token-1", userResponse.User{}))
	client := New(server.URL, WithSession(s))

	err = client.Auth.Logout(context.Background())

	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.False(t, s.Active())
}
