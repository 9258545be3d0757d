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
	"github.com/Alturino/ordering/order/internal/otel"
	"github.com/Alturino/ordering/order/internal/service"
	"github.com/Alturino/ordering/order/pkg/request"
)

type OrderController struct {
	service  *service.OrderService
	validate *validator.Validate
}

func AttachOrderController(api *mux.Router, service *service.OrderService, auth mux.MiddlewareFunc) {
	controller := OrderController{service: service, validate: validate.New()}

	router := api.PathPrefix("/orders").Subrouter()
	router.Use(auth)
	router.HandleFunc("", controller.FindOrders).Methods(http.MethodGet)
	router.HandleFunc("", controller.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}", controller.UpdateOrder).Methods(http.MethodPut)
	router.HandleFunc("/{orderId}", controller.DeleteOrder).Methods(http.MethodDelete)
	router.HandleFunc("/{orderId}/status", controller.UpdateOrderStatus).Methods(http.MethodPatch)
	router.HandleFunc("/{orderId}/qrcode", controller.QRCode).Methods(http.MethodGet)
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrders").
		Logger()

	caller, ok := ctrl.caller(c, w)
	if !ok {
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, caller.UserID.String()).Logger()

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
	filter := request.FindOrders{Status: query.Get("status"), Pagination: params}
	if raw := query.Get("restaurantId"); raw != "" {
		filter.RestaurantID, err = uuid.Parse(raw)
		if err != nil {
			err = fmt.Errorf("failed parsing restaurantId with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid restaurantId", nil)
			return
		}
	}
	if filter.Status != "" && !validate.IsOrderStatus(filter.Status) {
		err = fmt.Errorf("failed parsing status with error=%w", inErrors.ErrInvalidOrderStatus)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid status", nil)
		return
	}
	logger = logger.With().Any(constants.KEY_FILTER, filter).Logger()
	logger.Trace().Msg("parsed query")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding orders").Logger()
	logger.Trace().Msg("finding orders")
	c = logger.WithContext(c)
	orders, err := ctrl.service.FindOrders(c, caller, filter)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Int64(constants.KEY_TOTAL, orders.Total).Msg("found orders")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, orders)
}

func (ctrl OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrderById").
		Logger()

	caller, ok := ctrl.caller(c, w)
	if !ok {
		return
	}
	orderId, ok := orderIdFromPath(c, w, r)
	if !ok {
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, orderId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
	logger.Trace().Msg("finding order")
	c = logger.WithContext(c)
	order, err := ctrl.service.FindOrderById(c, caller, orderId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, order)
}

func (ctrl OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController CreateOrder").
		Logger()

	caller, ok := ctrl.caller(c, w)
	if !ok {
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, caller.UserID.String()).Logger()

	reqBody := request.CreateOrder{}
	if !ctrl.decode(c, w, r, &reqBody) {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "creating order").Logger()
	logger.Trace().Msg("creating order")
	c = logger.WithContext(c)
	order, err := ctrl.service.CreateOrder(c, caller, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_ORDER_ID, order.ID.String()).Msg("created order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusCreated, order)
}

func (ctrl OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateOrderStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController UpdateOrderStatus").
		Logger()

	caller, ok := ctrl.caller(c, w)
	if !ok {
		return
	}
	orderId, ok := orderIdFromPath(c, w, r)
	if !ok {
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, orderId.String()).Logger()

	reqBody := request.UpdateOrderStatus{}
	if !ctrl.decode(c, w, r, &reqBody) {
		return
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "updating order status").
		Str(constants.KEY_ORDER_STATUS, reqBody.Status).
		Logger()
	logger.Trace().Msg("updating order status")
	c = logger.WithContext(c)
	order, err := ctrl.service.UpdateOrderStatus(c, caller, orderId, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("updated order status")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, order)
}

func (ctrl OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController UpdateOrder").
		Logger()

	caller, ok := ctrl.caller(c, w)
	if !ok {
		return
	}
	orderId, ok := orderIdFromPath(c, w, r)
	if !ok {
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, orderId.String()).Logger()

	reqBody := request.UpdateOrder{}
	if !ctrl.decode(c, w, r, &reqBody) {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating order").Logger()
	logger.Trace().Msg("updating order")
	c = logger.WithContext(c)
	order, err := ctrl.service.UpdateOrder(c, caller, orderId, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("updated order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, order)
}

func (ctrl OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController DeleteOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController DeleteOrder").
		Logger()

	caller, ok := ctrl.caller(c, w)
	if !ok {
		return
	}
	orderId, ok := orderIdFromPath(c, w, r)
	if !ok {
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, orderId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting order").Logger()
	logger.Trace().Msg("deleting order")
	c = logger.WithContext(c)
	if err := ctrl.service.DeleteOrder(c, caller, orderId); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("deleted order")

	inHttp.WriteNoContent(c, w)
}

func (ctrl OrderController) QRCode(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController QRCode")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController QRCode").
		Logger()

	caller, ok := ctrl.caller(c, w)
	if !ok {
		return
	}
	orderId, ok := orderIdFromPath(c, w, r)
	if !ok {
		return
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, orderId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "generating qr code").Logger()
	logger.Trace().Msg("generating qr code")
	c = logger.WithContext(c)
	png, err := ctrl.service.QRCode(c, caller, orderId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeError(c, w, err)
		return
	}
	logger.Info().Msg("generated qr code")

	w.Header().Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_IMAGE_PNG)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		logger.Error().Err(err).Msg("failed writing qr code")
	}
}

func (ctrl OrderController) caller(c context.Context, w http.ResponseWriter) (request.Caller, bool) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "getting caller from token").Logger()
	claims, err := token.ClaimsFromContext(c)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Unauthorized", nil)
		return request.Caller{}, false
	}
	caller, err := request.CallerFromClaims(claims)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusUnauthorized, "Unauthorized", nil)
		return request.Caller{}, false
	}
	return caller, true
}

func (ctrl OrderController) decode(c context.Context, w http.ResponseWriter, r *http.Request, dest any) bool {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err := ctrl.validate.StructCtx(c, dest); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Validation failed", inHttp.FieldErrors(err))
		return false
	}
	logger.Trace().Msg("validated request body")
	return true
}

func orderIdFromPath(c context.Context, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderId, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		err = fmt.Errorf("failed validating orderId with error=%w", err)
		zerolog.Ctx(c).Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid orderId", nil)
		return uuid.Nil, false
	}
	return orderId, true
}

func writeError(c context.Context, w http.ResponseWriter, err error) {
	transition := &service.TransitionError{}
	switch {
	case errors.As(err, &transition):
		message := fmt.Sprintf("Invalid status transition from %s to %s", transition.From, transition.To)
		inHttp.WriteErrorResponse(c, w, http.StatusConflict, message, nil)
	case errors.Is(err, inErrors.ErrOrderNotFound):
		inHttp.WriteErrorResponse(c, w, http.StatusNotFound, "Order not found", nil)
	case errors.Is(err, inErrors.ErrInvalidRestaurant):
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid restaurantId", nil)
	case errors.Is(err, inErrors.ErrOrderEmpty):
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Order must contain at least one item", nil)
	case errors.Is(err, inErrors.ErrInvalidOrderStatus):
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, "Invalid status", nil)
	case errors.Is(err, inErrors.ErrOrderNotPending):
		inHttp.WriteErrorResponse(c, w, http.StatusForbidden, "Only pending orders can be updated", nil)
	case errors.Is(err, inErrors.ErrForbidden):
		inHttp.WriteErrorResponse(c, w, http.StatusForbidden, "Forbidden", nil)
	default:
		inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}
