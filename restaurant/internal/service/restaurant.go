package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/errors"
	"github.com/Alturino/ordering/internal/infra"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/internal/pagination"
	"github.com/Alturino/ordering/internal/repository"
	"github.com/Alturino/ordering/restaurant/internal/otel"
	"github.com/Alturino/ordering/restaurant/pkg/request"
	"github.com/Alturino/ordering/restaurant/pkg/response"
)

type RestaurantService struct {
	store repository.Store
	cache *infra.EntityCache
	now   func() time.Time
}

func NewRestaurantService(store repository.Store, cache *infra.EntityCache) *RestaurantService {
	return &RestaurantService{
		store: store,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (svc *RestaurantService) FindRestaurants(
	c context.Context,
	param request.FindRestaurants,
) (response.Restaurants, error) {
	c, span := otel.Tracer.Start(c, "RestaurantService FindRestaurants")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantService FindRestaurants").
		Int(constants.KEY_PAGE, param.Pagination.Page).
		Int(constants.KEY_PAGE_SIZE, param.Pagination.PageSize).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "counting restaurants").Logger()
	logger.Trace().Msg("counting restaurants")
	total, err := svc.store.CountRestaurants(c, repository.CountRestaurantsParams{
		Region:  repository.NonEmptyText(param.Region),
		Cuisine: repository.NonEmptyText(param.Cuisine),
	})
	if err != nil {
		err = fmt.Errorf("failed counting restaurants with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Restaurants{}, err
	}
	logger = logger.With().Int64(constants.KEY_TOTAL, total).Logger()
	logger.Trace().Msg("counted restaurants")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding restaurants").Logger()
	logger.Trace().Msg("finding restaurants")
	restaurants, err := svc.store.FindRestaurants(c, repository.FindRestaurantsParams{
		Region:  repository.NonEmptyText(param.Region),
		Cuisine: repository.NonEmptyText(param.Cuisine),
		Limit:   param.Pagination.Limit(),
		Offset:  param.Pagination.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding restaurants with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Restaurants{}, err
	}
	logger.Info().Int(constants.KEY_RESTAURANTS, len(restaurants)).Msg("found restaurants")

	data := make([]response.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		data = append(data, r.Response())
	}
	return pagination.NewPage(data, total, param.Pagination), nil
}

func (svc *RestaurantService) FindRestaurantById(
	c context.Context,
	param request.FindRestaurantById,
) (response.Restaurant, error) {
	c, span := otel.Tracer.Start(c, "RestaurantService FindRestaurantById")
	defer span.End()

	cacheKey := fmt.Sprintf(constants.CACHE_KEY_RESTAURANT, param.RestaurantId.String())
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantService FindRestaurantById").
		Str(constants.KEY_RESTAURANT_ID, param.RestaurantId.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding restaurant in cache").Logger()
	logger.Trace().Msg("finding restaurant in cache")
	cached := response.Restaurant{}
	found, err := svc.cache.Get(c, cacheKey, &cached)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	if found {
		logger.Info().Msg("found restaurant in cache")
		return cached, nil
	}
	logger.Trace().Msg("restaurant is not in cache")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding restaurant in database").Logger()
	logger.Trace().Msg("finding restaurant in database")
	restaurant, err := svc.store.FindRestaurantById(c, param.RestaurantId)
	if err != nil {
		if repository.IsNotFound(err) {
			err = errors.ErrRestaurantNotFound
		}
		err = fmt.Errorf("failed finding restaurant with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Restaurant{}, err
	}
	res := restaurant.Response()
	logger.Info().Msg("found restaurant in database")

	svc.fillRestaurant(c, res)
	return res, nil
}

func (svc *RestaurantService) CreateRestaurant(
	c context.Context,
	ownerId uuid.UUID,
	param request.CreateRestaurant,
) (response.Restaurant, error) {
	c, span := otel.Tracer.Start(c, "RestaurantService CreateRestaurant")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantService CreateRestaurant").
		Str(constants.KEY_RESTAURANT_OWNER, ownerId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting restaurant to database").Logger()
	logger.Trace().Msg("inserting restaurant to database")
	now := svc.now()
	restaurant, err := svc.store.InsertRestaurant(c, repository.InsertRestaurantParams{
		ID:          uuid.New(),
		Name:        param.Name,
		Cuisine:     param.Cuisine,
		Location:    param.Location,
		Region:      param.Region,
		Rating:      repository.Numeric(param.Rating),
		Description: repository.Text(param.Description),
		ImageUrl:    repository.Text(param.ImageUrl),
		OwnerID:     ownerId,
		IsActive:    true,
		CreatedAt:   repository.Timestamptz(now),
		UpdatedAt:   repository.Timestamptz(now),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting restaurant with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Restaurant{}, err
	}
	res := restaurant.Response()
	logger.Info().Str(constants.KEY_RESTAURANT_ID, res.ID.String()).Msg("inserted restaurant to database")

	svc.cacheRestaurant(c, res)
	return res, nil
}

func (svc *RestaurantService) UpdateRestaurant(
	c context.Context,
	restaurantId uuid.UUID,
	param request.UpdateRestaurant,
) (response.Restaurant, error) {
	c, span := otel.Tracer.Start(c, "RestaurantService UpdateRestaurant")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantService UpdateRestaurant").
		Str(constants.KEY_RESTAURANT_ID, restaurantId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "updating restaurant in database").Logger()
	logger.Trace().Msg("updating restaurant in database")
	restaurant, err := svc.store.UpdateRestaurant(c, repository.UpdateRestaurantParams{
		ID:          restaurantId,
		Name:        repository.Text(param.Name),
		Cuisine:     repository.Text(param.Cuisine),
		Location:    repository.Text(param.Location),
		Region:      repository.Text(param.Region),
		Rating:      repository.NullNumeric(param.Rating),
		Description: repository.Text(param.Description),
		ImageUrl:    repository.Text(param.ImageUrl),
		IsActive:    repository.Bool(param.IsActive),
		UpdatedAt:   repository.Timestamptz(svc.now()),
	})
	if err != nil {
		if repository.IsNotFound(err) {
			err = errors.ErrRestaurantNotFound
		}
		err = fmt.Errorf("failed updating restaurant with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Restaurant{}, err
	}
	res := restaurant.Response()
	logger.Info().Msg("updated restaurant in database")

	svc.invalidate(c, restaurantId)
	return res, nil
}

func (svc *RestaurantService) DeleteRestaurant(c context.Context, restaurantId uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "RestaurantService DeleteRestaurant")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantService DeleteRestaurant").
		Str(constants.KEY_RESTAURANT_ID, restaurantId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting restaurant in database").Logger()
	logger.Trace().Msg("deleting restaurant in database")
	var orderIds []uuid.UUID
	err := svc.store.ExecTx(c, func(q repository.Querier) error {
		ids, err := q.DeleteOrdersByRestaurantId(c, restaurantId)
		if err != nil {
			return fmt.Errorf("failed deleting restaurant orders with error=%w", err)
		}
		affected, err := q.DeleteRestaurant(c, restaurantId)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errors.ErrRestaurantNotFound
		}
		orderIds = ids
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed deleting restaurant with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Int(constants.KEY_ORDERS, len(orderIds)).Msg("deleted restaurant in database")

	svc.invalidate(c, restaurantId, orderIds...)
	return nil
}

func (svc *RestaurantService) cacheRestaurant(c context.Context, restaurant response.Restaurant) {
	cacheKey := fmt.Sprintf(constants.CACHE_KEY_RESTAURANT, restaurant.ID.String())
	logger := zerolog.Ctx(c).With().Str(constants.KEY_CACHE_KEY, cacheKey).Logger()
	if err := svc.cache.Set(c, cacheKey, restaurant); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("inserted restaurant to cache")
}

func (svc *RestaurantService) fillRestaurant(c context.Context, restaurant response.Restaurant) {
	cacheKey := fmt.Sprintf(constants.CACHE_KEY_RESTAURANT, restaurant.ID.String())
	logger := zerolog.Ctx(c).With().Str(constants.KEY_CACHE_KEY, cacheKey).Logger()
	filled, err := svc.cache.Fill(c, cacheKey, restaurant)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Bool(constants.KEY_CACHE_FILLED, filled).Msg("filled restaurant cache")
}

// invalidate drops the cached restaurant together with any cached orders
// removed alongside it.
func (svc *RestaurantService) invalidate(c context.Context, restaurantId uuid.UUID, orderIds ...uuid.UUID) {
	keys := make([]string, 0, len(orderIds)+1)
	keys = append(keys, fmt.Sprintf(constants.CACHE_KEY_RESTAURANT, restaurantId.String()))
	for _, id := range orderIds {
		keys = append(keys, fmt.Sprintf(constants.CACHE_KEY_ORDER, id.String()))
	}
	logger := zerolog.Ctx(c).With().Strs(constants.KEY_CACHE_KEY, keys).Logger()
	if err := svc.cache.Invalidate(c, keys...); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("invalidated restaurant cache")
}
