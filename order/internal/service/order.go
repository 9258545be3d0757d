package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/errors"
	"github.com/Alturino/ordering/internal/infra"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/internal/pagination"
	"github.com/Alturino/ordering/internal/repository"
	"github.com/Alturino/ordering/internal/validate"
	"github.com/Alturino/ordering/order/internal/otel"
	"github.com/Alturino/ordering/order/pkg/request"
	"github.com/Alturino/ordering/order/pkg/response"
)

const (
	QR_CONTENT_ORDER = "order:%s"
	QR_SIZE          = 256
)

type OrderService struct {
	store     repository.Store
	cache     *infra.EntityCache
	publisher infra.Publisher
	now       func() time.Time
}

func NewOrderService(
	store repository.Store,
	cache *infra.EntityCache,
	publisher infra.Publisher,
) *OrderService {
	if publisher == nil {
		publisher = infra.NopPublisher{}
	}
	return &OrderService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (svc *OrderService) FindOrders(
	c context.Context,
	caller request.Caller,
	param request.FindOrders,
) (response.Orders, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrders").
		Str(constants.KEY_USER_ID, caller.UserID.String()).
		Str(constants.KEY_ROLE, caller.Role).
		Int(constants.KEY_PAGE, param.Pagination.Page).
		Int(constants.KEY_PAGE_SIZE, param.Pagination.PageSize).
		Logger()

	filter := repository.CountOrdersParams{Status: repository.NonEmptyText(param.Status)}
	if param.RestaurantID != uuid.Nil {
		filter.RestaurantID = repository.NullUUID(param.RestaurantID)
	}
	if !caller.Privileged() {
		filter.CustomerID = repository.NullUUID(caller.UserID)
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "counting orders").Logger()
	logger.Trace().Msg("counting orders")
	total, err := svc.store.CountOrders(c, filter)
	if err != nil {
		err = fmt.Errorf("failed counting orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}
	logger = logger.With().Int64(constants.KEY_TOTAL, total).Logger()
	logger.Trace().Msg("counted orders")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding orders").Logger()
	logger.Trace().Msg("finding orders")
	orders, err := svc.store.FindOrders(c, repository.FindOrdersParams{
		CustomerID:   filter.CustomerID,
		RestaurantID: filter.RestaurantID,
		Status:       filter.Status,
		Limit:        param.Pagination.Limit(),
		Offset:       param.Pagination.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Orders{}, err
	}
	logger.Info().Int(constants.KEY_ORDERS, len(orders)).Msg("found orders")

	data := make([]response.Order, 0, len(orders))
	for _, o := range orders {
		res, err := o.Response()
		if err != nil {
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Orders{}, err
		}
		data = append(data, res)
	}
	return pagination.NewPage(data, total, param.Pagination), nil
}

func (svc *OrderService) FindOrderById(
	c context.Context,
	caller request.Caller,
	orderId uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	cacheKey := fmt.Sprintf(constants.CACHE_KEY_ORDER, orderId.String())
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrderById").
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_USER_ID, caller.UserID.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order in cache").Logger()
	logger.Trace().Msg("finding order in cache")
	order := response.Order{}
	found, err := svc.cache.Get(c, cacheKey, &order)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	if found {
		logger.Trace().Msg("found order in cache")
	} else {
		logger.Trace().Msg("order is not in cache")

		logger = logger.With().Str(constants.KEY_PROCESS, "finding order in database").Logger()
		logger.Trace().Msg("finding order in database")
		order, err = svc.findOrder(c, svc.store, orderId)
		if err != nil {
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		logger.Trace().Msg("found order in database")
		svc.fillOrder(c, order)
	}

	if !canView(caller, order) {
		err = fmt.Errorf("failed finding order with error=%w", errors.ErrForbidden)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")
	return order, nil
}

func (svc *OrderService) CreateOrder(
	c context.Context,
	caller request.Caller,
	param request.CreateOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService CreateOrder").
		Str(constants.KEY_USER_ID, caller.UserID.String()).
		Str(constants.KEY_RESTAURANT_ID, param.RestaurantID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "calculating total amount").Logger()
	logger.Trace().Msg("calculating total amount")
	if len(param.Items) == 0 {
		err := fmt.Errorf("failed creating order with error=%w", errors.ErrOrderEmpty)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	items, total := orderItems(param.Items)
	encoded, err := json.Marshal(items)
	if err != nil {
		err = fmt.Errorf("failed marshaling order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(constants.KEY_TOTAL_AMOUNT, total.StringFixed(2)).Logger()
	logger.Trace().Msg("calculated total amount")

	order := response.Order{}
	err = svc.store.ExecTx(c, func(q repository.Querier) error {
		logger = logger.With().Str(constants.KEY_PROCESS, "finding restaurant").Logger()
		logger.Trace().Msg("finding restaurant")
		if _, err := q.FindRestaurantById(c, param.RestaurantID); err != nil {
			if repository.IsNotFound(err) {
				err = errors.ErrInvalidRestaurant
			}
			return fmt.Errorf("failed finding restaurant with error=%w", err)
		}
		logger.Trace().Msg("found restaurant")

		logger = logger.With().Str(constants.KEY_PROCESS, "inserting order").Logger()
		logger.Trace().Msg("inserting order")
		now := svc.now()
		inserted, err := q.InsertOrder(c, repository.InsertOrderParams{
			ID:                  uuid.New(),
			RestaurantID:        param.RestaurantID,
			CustomerID:          caller.UserID,
			CustomerName:        repository.Text(param.CustomerName),
			CustomerEmail:       repository.Text(param.CustomerEmail),
			SpecialInstructions: repository.Text(param.SpecialInstructions),
			Status:              repository.OrderStatusPending,
			TotalAmount:         repository.Numeric(total),
			Items:               encoded,
			CreatedAt:           repository.Timestamptz(now),
			UpdatedAt:           repository.Timestamptz(now),
		})
		if err != nil {
			if repository.IsForeignKeyViolation(err) {
				err = errors.ErrInvalidRestaurant
			}
			return fmt.Errorf("failed inserting order with error=%w", err)
		}
		logger.Trace().Msg("inserted order")

		order, err = inserted.Response()
		return err
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Str(constants.KEY_ORDER_ID, order.ID.String()).Msg("created order")

	svc.cacheOrder(c, order)
	svc.publish(c, constants.TOPIC_ORDER_CREATED, "", order)
	return order, nil
}

func (svc *OrderService) UpdateOrderStatus(
	c context.Context,
	caller request.Caller,
	orderId uuid.UUID,
	param request.UpdateOrderStatus,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateOrderStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService UpdateOrderStatus").
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_USER_ID, caller.UserID.String()).
		Str(constants.KEY_ORDER_STATUS, param.Status).
		Logger()

	if !validate.IsOrderStatus(param.Status) {
		err := fmt.Errorf("failed updating order status with error=%w", errors.ErrInvalidOrderStatus)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	next := repository.OrderStatus(param.Status)

	var previous repository.OrderStatus
	order := response.Order{}
	err := svc.store.ExecTx(c, func(q repository.Querier) error {
		logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
		logger.Trace().Msg("finding order")
		current, err := svc.findOrder(c, q, orderId)
		if err != nil {
			return err
		}
		previous = repository.OrderStatus(current.Status)
		logger = logger.With().Str(constants.KEY_ORDER_STATUS_PREV, string(previous)).Logger()
		logger.Trace().Msg("found order")

		if !caller.Privileged() {
			if current.CustomerID != caller.UserID {
				return fmt.Errorf("failed updating order status with error=%w", errors.ErrForbidden)
			}
			if next != repository.OrderStatusCancelled || previous != repository.OrderStatusPending {
				return fmt.Errorf("failed updating order status with error=%w", errors.ErrForbidden)
			}
		}
		if !CanTransition(previous, next) {
			return &TransitionError{From: previous, To: next}
		}

		logger = logger.With().Str(constants.KEY_PROCESS, "updating order status").Logger()
		logger.Trace().Msg("updating order status")
		updated, err := q.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{
			ID:        orderId,
			Status:    next,
			UpdatedAt: repository.Timestamptz(svc.now()),
		})
		if err != nil {
			return fmt.Errorf("failed updating order status with error=%w", err)
		}
		logger.Trace().Msg("updated order status")

		order, err = updated.Response()
		return err
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("updated order status")

	svc.invalidate(c, orderId)
	svc.publish(c, constants.TOPIC_ORDER_STATUS_UPDATED, string(previous), order)
	return order, nil
}

func (svc *OrderService) UpdateOrder(
	c context.Context,
	caller request.Caller,
	orderId uuid.UUID,
	param request.UpdateOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService UpdateOrder").
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_USER_ID, caller.UserID.String()).
		Logger()

	params := repository.UpdateOrderParams{
		ID:                  orderId,
		CustomerName:        repository.Text(param.CustomerName),
		CustomerEmail:       repository.Text(param.CustomerEmail),
		SpecialInstructions: repository.Text(param.SpecialInstructions),
	}
	if param.Items != nil {
		logger = logger.With().Str(constants.KEY_PROCESS, "calculating total amount").Logger()
		logger.Trace().Msg("calculating total amount")
		if len(param.Items) == 0 {
			err := fmt.Errorf("failed updating order with error=%w", errors.ErrOrderEmpty)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		items, total := orderItems(param.Items)
		encoded, err := json.Marshal(items)
		if err != nil {
			err = fmt.Errorf("failed marshaling order items with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		params.Items = encoded
		params.TotalAmount = repository.Numeric(total)
		logger.Trace().Str(constants.KEY_TOTAL_AMOUNT, total.StringFixed(2)).Msg("calculated total amount")
	}

	order := response.Order{}
	err := svc.store.ExecTx(c, func(q repository.Querier) error {
		logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
		logger.Trace().Msg("finding order")
		current, err := svc.findOrder(c, q, orderId)
		if err != nil {
			return err
		}
		logger.Trace().Msg("found order")

		if !canView(caller, current) {
			return fmt.Errorf("failed updating order with error=%w", errors.ErrForbidden)
		}
		if current.Status != string(repository.OrderStatusPending) && !caller.Admin() {
			return fmt.Errorf("failed updating order with error=%w", errors.ErrOrderNotPending)
		}

		logger = logger.With().Str(constants.KEY_PROCESS, "updating order").Logger()
		logger.Trace().Msg("updating order")
		params.UpdatedAt = repository.Timestamptz(svc.now())
		updated, err := q.UpdateOrder(c, params)
		if err != nil {
			return fmt.Errorf("failed updating order with error=%w", err)
		}
		logger.Trace().Msg("updated order")

		order, err = updated.Response()
		return err
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("updated order")

	svc.invalidate(c, orderId)
	return order, nil
}

func (svc *OrderService) DeleteOrder(c context.Context, caller request.Caller, orderId uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "OrderService DeleteOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService DeleteOrder").
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_USER_ID, caller.UserID.String()).
		Logger()

	err := svc.store.ExecTx(c, func(q repository.Querier) error {
		logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
		logger.Trace().Msg("finding order")
		current, err := svc.findOrder(c, q, orderId)
		if err != nil {
			return err
		}
		if !canView(caller, current) {
			return fmt.Errorf("failed deleting order with error=%w", errors.ErrForbidden)
		}
		logger.Trace().Msg("found order")

		logger = logger.With().Str(constants.KEY_PROCESS, "deleting order").Logger()
		logger.Trace().Msg("deleting order")
		affected, err := q.DeleteOrder(c, orderId)
		if err != nil {
			return fmt.Errorf("failed deleting order with error=%w", err)
		}
		if affected == 0 {
			return fmt.Errorf("failed deleting order with error=%w", errors.ErrOrderNotFound)
		}
		logger.Trace().Msg("deleted order")
		return nil
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted order")

	svc.invalidate(c, orderId)
	return nil
}

// QRCode renders the pickup code of an order as a png.
func (svc *OrderService) QRCode(c context.Context, caller request.Caller, orderId uuid.UUID) ([]byte, error) {
	c, span := otel.Tracer.Start(c, "OrderService QRCode")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService QRCode").
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	order, err := svc.FindOrderById(c, caller, orderId)
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "encoding qr code").Logger()
	logger.Trace().Msg("encoding qr code")
	png, err := qrcode.Encode(fmt.Sprintf(QR_CONTENT_ORDER, order.ID.String()), qrcode.Medium, QR_SIZE)
	if err != nil {
		err = fmt.Errorf("failed encoding qr code with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("encoded qr code")
	return png, nil
}

func (svc *OrderService) findOrder(c context.Context, q repository.Querier, orderId uuid.UUID) (response.Order, error) {
	order, err := q.FindOrderById(c, orderId)
	if err != nil {
		if repository.IsNotFound(err) {
			err = errors.ErrOrderNotFound
		}
		return response.Order{}, fmt.Errorf("failed finding order with error=%w", err)
	}
	return order.Response()
}

func (svc *OrderService) cacheOrder(c context.Context, order response.Order) {
	cacheKey := fmt.Sprintf(constants.CACHE_KEY_ORDER, order.ID.String())
	logger := zerolog.Ctx(c).With().Str(constants.KEY_CACHE_KEY, cacheKey).Logger()
	if err := svc.cache.Set(c, cacheKey, order); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("inserted order to cache")
}

func (svc *OrderService) fillOrder(c context.Context, order response.Order) {
	cacheKey := fmt.Sprintf(constants.CACHE_KEY_ORDER, order.ID.String())
	logger := zerolog.Ctx(c).With().Str(constants.KEY_CACHE_KEY, cacheKey).Logger()
	filled, err := svc.cache.Fill(c, cacheKey, order)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Bool(constants.KEY_CACHE_FILLED, filled).Msg("filled order cache")
}

func (svc *OrderService) invalidate(c context.Context, orderId uuid.UUID) {
	cacheKey := fmt.Sprintf(constants.CACHE_KEY_ORDER, orderId.String())
	logger := zerolog.Ctx(c).With().Str(constants.KEY_CACHE_KEY, cacheKey).Logger()
	if err := svc.cache.Invalidate(c, cacheKey); err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("invalidated order cache")
}

// publish failures are logged only, the order is already committed.
func (svc *OrderService) publish(c context.Context, topic string, previous string, order response.Order) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_EVENT_TOPIC, topic).
		Str(constants.KEY_ORDER_ID, order.ID.String()).
		Logger()

	logger.Trace().Msg("publishing order event")
	payload, err := json.Marshal(response.Event{
		Type:           topic,
		PreviousStatus: previous,
		Order:          order,
		OccurredAt:     svc.now(),
	})
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	if err := svc.publisher.Publish(c, topic, order.ID.String(), payload); err != nil {
		err = fmt.Errorf("failed publishing order event with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		otel.OrderEvents.Add(c, 1, metric.WithAttributes(attribute.String("topic", topic), attribute.Bool("ok", false)))
		return
	}
	otel.OrderEvents.Add(c, 1, metric.WithAttributes(attribute.String("topic", topic), attribute.Bool("ok", true)))
	logger.Trace().Msg("published order event")
}

func canView(caller request.Caller, order response.Order) bool {
	return caller.Privileged() || order.CustomerID == caller.UserID
}

func orderItems(items []request.OrderItem) ([]response.OrderItem, decimal.Decimal) {
	out := make([]response.OrderItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		out = append(out, response.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return out, total.Round(2)
}
