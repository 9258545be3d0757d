package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/infra"
	inOtel "github.com/Alturino/ordering/internal/otel"
	"github.com/Alturino/ordering/notification/internal/otel"
	"github.com/Alturino/ordering/order/pkg/response"
)

// STATUS_INVALID labels events whose payload could not be decoded.
const STATUS_INVALID = "invalid"

var orderEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ordering_order_events_total",
	Help: "Order events consumed by the notification service.",
}, []string{"type", "status"})

// Notifier turns order events into customer notifications. Notifications are
// written to the log.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Handle(c context.Context, msg infra.Message) error {
	c, span := otel.Tracer.Start(c, "Notifier Handle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "Notifier Handle").
		Str(constants.KEY_EVENT_TOPIC, msg.Topic).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding order event").Logger()
	logger.Trace().Msg("decoding order event")
	event := response.Event{}
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		err = fmt.Errorf("failed decoding order event with error=%w", err)
		orderEvents.WithLabelValues(msg.Topic, STATUS_INVALID).Inc()
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger = logger.With().
		Str(constants.KEY_ORDER_ID, event.Order.ID.String()).
		Str(constants.KEY_ORDER_CUSTOMER_ID, event.Order.CustomerID.String()).
		Str(constants.KEY_ORDER_STATUS, event.Order.Status).
		Logger()
	logger.Trace().Msg("decoded order event")

	orderEvents.WithLabelValues(msg.Topic, event.Order.Status).Inc()
	logger.Info().Msg(Message(event))
	return nil
}

// Message renders the text sent to the customer for an order event.
func Message(event response.Event) string {
	switch event.Type {
	case constants.TOPIC_ORDER_CREATED:
		return fmt.Sprintf("order %s received, total %s", event.Order.ID, event.Order.TotalAmount.StringFixed(2))
	case constants.TOPIC_ORDER_STATUS_UPDATED:
		return fmt.Sprintf("order %s is now %s (was %s)", event.Order.ID, event.Order.Status, event.PreviousStatus)
	default:
		return fmt.Sprintf("order %s: %s", event.Order.ID, event.Type)
	}
}
