// Package repositorytest provides an in-memory repository.Store for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Alturino/ordering/internal/repository"
)

type Store struct {
	mu          sync.Mutex
	users       map[uuid.UUID]repository.User
	restaurants map[uuid.UUID]repository.Restaurant
	orders      map[uuid.UUID]repository.Order

	// ErrNext, when set, is returned by the next call and then cleared.
	ErrNext error
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:       map[uuid.UUID]repository.User{},
		restaurants: map[uuid.UUID]repository.Restaurant{},
		orders:      map[uuid.UUID]repository.Order{},
	}
}

func (s *Store) takeErr() error {
	err := s.ErrNext
	s.ErrNext = nil
	return err
}

// ExecTx runs fn against a copy of the store and only keeps the changes when
// fn succeeds.
func (s *Store) ExecTx(c context.Context, fn func(repository.Querier) error) error {
	s.mu.Lock()
	if err := s.takeErr(); err != nil {
		s.mu.Unlock()
		return err
	}
	tx := &Store{
		users:       clone(s.users),
		restaurants: clone(s.restaurants),
		orders:      clone(s.orders),
	}
	s.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.restaurants, s.orders = tx.users, tx.restaurants, tx.orders
	return nil
}

func clone[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) InsertUser(ctx context.Context, arg repository.InsertUserParams) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.User{}, err
	}
	for _, u := range s.users {
		if u.Email == arg.Email {
			return repository.User{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	user := repository.User(arg)
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.User{}, err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (s *Store) FindUserById(ctx context.Context, id uuid.UUID) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.User{}, err
	}
	u, ok := s.users[id]
	if !ok {
		return repository.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *Store) InsertRestaurant(ctx context.Context, arg repository.InsertRestaurantParams) (repository.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.Restaurant{}, err
	}
	restaurant := repository.Restaurant(arg)
	s.restaurants[restaurant.ID] = restaurant
	return restaurant, nil
}

func (s *Store) FindRestaurantById(ctx context.Context, id uuid.UUID) (repository.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.Restaurant{}, err
	}
	r, ok := s.restaurants[id]
	if !ok {
		return repository.Restaurant{}, pgx.ErrNoRows
	}
	return r, nil
}

func (s *Store) filterRestaurants(region, cuisine string, hasRegion, hasCuisine bool) []repository.Restaurant {
	out := []repository.Restaurant{}
	for _, r := range s.restaurants {
		if !r.IsActive {
			continue
		}
		if hasRegion && r.Region != region {
			continue
		}
		if hasCuisine && r.Cuisine != cuisine {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Time.Equal(out[j].CreatedAt.Time) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time)
	})
	return out
}

func (s *Store) FindRestaurants(ctx context.Context, arg repository.FindRestaurantsParams) ([]repository.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return nil, err
	}
	all := s.filterRestaurants(arg.Region.String, arg.Cuisine.String, arg.Region.Valid, arg.Cuisine.Valid)
	return window(all, arg.Limit, arg.Offset), nil
}

func (s *Store) CountRestaurants(ctx context.Context, arg repository.CountRestaurantsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return 0, err
	}
	all := s.filterRestaurants(arg.Region.String, arg.Cuisine.String, arg.Region.Valid, arg.Cuisine.Valid)
	return int64(len(all)), nil
}

func (s *Store) UpdateRestaurant(ctx context.Context, arg repository.UpdateRestaurantParams) (repository.Restaurant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.Restaurant{}, err
	}
	r, ok := s.restaurants[arg.ID]
	if !ok {
		return repository.Restaurant{}, pgx.ErrNoRows
	}
	if arg.Name.Valid {
		r.Name = arg.Name.String
	}
	if arg.Cuisine.Valid {
		r.Cuisine = arg.Cuisine.String
	}
	if arg.Location.Valid {
		r.Location = arg.Location.String
	}
	if arg.Region.Valid {
		r.Region = arg.Region.String
	}
	if arg.Rating.Valid {
		r.Rating = arg.Rating
	}
	if arg.Description.Valid {
		r.Description = arg.Description
	}
	if arg.ImageUrl.Valid {
		r.ImageUrl = arg.ImageUrl
	}
	if arg.IsActive.Valid {
		r.IsActive = arg.IsActive.Bool
	}
	r.UpdatedAt = arg.UpdatedAt
	s.restaurants[r.ID] = r
	return r, nil
}

func (s *Store) DeleteRestaurant(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return 0, err
	}
	if _, ok := s.restaurants[id]; !ok {
		return 0, nil
	}
	delete(s.restaurants, id)
	for orderId, o := range s.orders {
		if o.RestaurantID == id {
			delete(s.orders, orderId)
		}
	}
	return 1, nil
}

func (s *Store) InsertOrder(ctx context.Context, arg repository.InsertOrderParams) (repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.Order{}, err
	}
	if _, ok := s.restaurants[arg.RestaurantID]; !ok {
		return repository.Order{}, &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	}
	order := repository.Order(arg)
	s.orders[order.ID] = order
	return order, nil
}

func (s *Store) FindOrderById(ctx context.Context, id uuid.UUID) (repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.Order{}, err
	}
	o, ok := s.orders[id]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (s *Store) filterOrders(arg repository.CountOrdersParams) []repository.Order {
	out := []repository.Order{}
	for _, o := range s.orders {
		if arg.CustomerID.Valid && o.CustomerID != uuid.UUID(arg.CustomerID.Bytes) {
			continue
		}
		if arg.RestaurantID.Valid && o.RestaurantID != uuid.UUID(arg.RestaurantID.Bytes) {
			continue
		}
		if arg.Status.Valid && string(o.Status) != arg.Status.String {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Time.Equal(out[j].CreatedAt.Time) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time)
	})
	return out
}

func (s *Store) FindOrders(ctx context.Context, arg repository.FindOrdersParams) ([]repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return nil, err
	}
	all := s.filterOrders(repository.CountOrdersParams{
		CustomerID:   arg.CustomerID,
		RestaurantID: arg.RestaurantID,
		Status:       arg.Status,
	})
	return window(all, arg.Limit, arg.Offset), nil
}

func (s *Store) CountOrders(ctx context.Context, arg repository.CountOrdersParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return 0, err
	}
	return int64(len(s.filterOrders(arg))), nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.Order{}, err
	}
	o, ok := s.orders[arg.ID]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	o.UpdatedAt = arg.UpdatedAt
	s.orders[o.ID] = o
	return o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, arg repository.UpdateOrderParams) (repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return repository.Order{}, err
	}
	o, ok := s.orders[arg.ID]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	if arg.CustomerName.Valid {
		o.CustomerName = arg.CustomerName
	}
	if arg.CustomerEmail.Valid {
		o.CustomerEmail = arg.CustomerEmail
	}
	if arg.SpecialInstructions.Valid {
		o.SpecialInstructions = arg.SpecialInstructions
	}
	if arg.Items != nil {
		o.Items = arg.Items
	}
	if arg.TotalAmount.Valid {
		o.TotalAmount = arg.TotalAmount
	}
	o.UpdatedAt = arg.UpdatedAt
	s.orders[o.ID] = o
	return o, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return 0, err
	}
	if _, ok := s.orders[id]; !ok {
		return 0, nil
	}
	delete(s.orders, id)
	return 1, nil
}

func (s *Store) DeleteOrdersByRestaurantId(ctx context.Context, restaurantID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return nil, err
	}
	ids := []uuid.UUID{}
	for id, o := range s.orders {
		if o.RestaurantID == restaurantID {
			ids = append(ids, id)
			delete(s.orders, id)
		}
	}
	return ids, nil
}

func window[T any](all []T, limit, offset int32) []T {
	if offset < 0 || int(offset) >= len(all) {
		return []T{}
	}
	end := int(offset) + int(limit)
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
