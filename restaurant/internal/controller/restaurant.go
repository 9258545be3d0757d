package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/internal/constants"
	inErrors "github.com/Alturino/ordering/internal/errors"
	inHttp "github.com/Alturino/ordering/internal/http"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/internal/pagination"
	"github.com/Alturino/ordering/internal/token"
	"github.com/Alturino/ordering/internal/validate"
	"github.com/Alturino/ordering/restaurant/internal/otel"
	"github.com/Alturino/ordering/restaurant/internal/service"
	"github.com/Alturino/ordering/restaurant/pkg/request"
)

type RestaurantController struct {
	service  *service.RestaurantService
	validate *validator.Validate
}

func AttachRestaurantController(
	api *mux.Router,
	service *service.RestaurantService,
	auth mux.MiddlewareFunc,
) {
	controller := RestaurantController{service: service, validate: validate.New()}

	router := api.PathPrefix("/restaurants").Subrouter()
	router.Use(auth)
	router.HandleFunc("", controller.FindRestaurants).Methods(http.MethodGet)
	router.HandleFunc("", controller.CreateRestaurant).Methods(http.MethodPost)
	router.HandleFunc("/{restaurantId}", controller.FindRestaurantById).Methods(http.MethodGet)
	router.HandleFunc("/{restaurantId}", controller.UpdateRestaurant).Methods(http.MethodPut)
	router.HandleFunc("/{restaurantId}", controller.DeleteRestaurant).Methods(http.MethodDelete)
}

func (ctrl RestaurantController) FindRestaurants(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "RestaurantController FindRestaurants")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantController FindRestaurants").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "parsing query").Logger()
	logger.Trace().Msg("parsing query")
	query := r.URL.Query()
	params, err := pagination.Parse(query)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid page/pageSize", nil)
		return
	}
	filter := request.FindRestaurants{
		Region:     query.Get("region"),
		Cuisine:    query.Get("cuisine"),
		Pagination: params,
	}
	logger = logger.With().Any(constants.KEY_FILTER, filter).Logger()
	logger.Trace().Msg("parsed query")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding restaurants").Logger()
	logger.Trace().Msg("finding restaurants")
	c = logger.WithContext(c)
	restaurants, err := ctrl.service.FindRestaurants(c, filter)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Int64(constants.KEY_TOTAL, restaurants.Total).Msg("found restaurants")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, restaurants)
}

func (ctrl RestaurantController) FindRestaurantById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "RestaurantController FindRestaurantById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantController FindRestaurantById").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating restaurantId").Logger()
	logger.Trace().Msg("validating restaurantId")
	restaurantId, err := uuid.Parse(mux.Vars(r)["restaurantId"])
	if err != nil {
		err = fmt.Errorf("failed validating restaurantId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid restaurantId", nil)
		return
	}
	logger = logger.With().Str(constants.KEY_RESTAURANT_ID, restaurantId.String()).Logger()
	logger.Trace().Msg("validated restaurantId")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding restaurant").Logger()
	logger.Trace().Msg("finding restaurant")
	c = logger.WithContext(c)
	restaurant, err := ctrl.service.FindRestaurantById(c, request.FindRestaurantById{RestaurantId: restaurantId})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("found restaurant")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, restaurant)
}

func (ctrl RestaurantController) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "RestaurantController CreateRestaurant")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantController CreateRestaurant").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from token").Logger()
	logger.Trace().Msg("getting userId from token")
	claims, err := token.ClaimsFromContext(c)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	ownerId, err := claims.UserID()
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, ownerId.String()).Logger()
	logger.Trace().Msg("got userId from token")

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.CreateRestaurant{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Validation failed", inHttp.FieldErrors(err))
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "creating restaurant").Logger()
	logger.Trace().Msg("creating restaurant")
	c = logger.WithContext(c)
	restaurant, err := ctrl.service.CreateRestaurant(c, ownerId, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_RESTAURANT_ID, restaurant.ID.String()).Msg("created restaurant")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusCreated, restaurant)
}

func (ctrl RestaurantController) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "RestaurantController UpdateRestaurant")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantController UpdateRestaurant").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating restaurantId").Logger()
	logger.Trace().Msg("validating restaurantId")
	restaurantId, err := uuid.Parse(mux.Vars(r)["restaurantId"])
	if err != nil {
		err = fmt.Errorf("failed validating restaurantId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid restaurantId", nil)
		return
	}
	logger = logger.With().Str(constants.KEY_RESTAURANT_ID, restaurantId.String()).Logger()
	logger.Trace().Msg("validated restaurantId")

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.UpdateRestaurant{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Validation failed", inHttp.FieldErrors(err))
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating restaurant").Logger()
	logger.Trace().Msg("updating restaurant")
	c = logger.WithContext(c)
	restaurant, err := ctrl.service.UpdateRestaurant(c, restaurantId, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("updated restaurant")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, restaurant)
}

func (ctrl RestaurantController) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "RestaurantController DeleteRestaurant")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "RestaurantController DeleteRestaurant").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating restaurantId").Logger()
	logger.Trace().Msg("validating restaurantId")
	restaurantId, err := uuid.Parse(mux.Vars(r)["restaurantId"])
	if err != nil {
		err = fmt.Errorf("failed validating restaurantId with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid restaurantId", nil)
		return
	}
	logger = logger.With().Str(constants.KEY_RESTAURANT_ID, restaurantId.String()).Logger()
	logger.Trace().Msg("validated restaurantId")

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting restaurant").Logger()
	logger.Trace().Msg("deleting restaurant")
	c = logger.WithContext(c)
	if err := ctrl.service.DeleteRestaurant(c, restaurantId); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("deleted restaurant")

	inHttp.WriteNoContent(c, w)
}

func writeError(c context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inErrors.ErrRestaurantNotFound):
		inHttp.WriteErrorResponse(c, w, http.StatusNotFound, "Restaurant not found", nil)
	case errors.Is(err, inErrors.ErrForbidden):
		inHttp.WriteErrorResponse(c, w, http.StatusForbidden, "Forbidden", nil)
	default:
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}
