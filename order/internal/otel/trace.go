package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/ordering/internal/constants"
)

var Tracer = otel.Tracer(
	constants.APP_ORDER_SERVICE,
	trace.WithInstrumentationAttributes(semconv.ServiceNameKey.String(constants.APP_ORDER_SERVICE)),
)

var Meter = otel.Meter(constants.APP_ORDER_SERVICE)

// OrderEvents counts published order events by topic and outcome. The
// instrument is a no-op until a meter provider is installed.
var OrderEvents, _ = Meter.Int64Counter(
	"ordering.order.events",
	metric.WithDescription("order events published to the broker"),
	metric.WithUnit("{event}"),
)
