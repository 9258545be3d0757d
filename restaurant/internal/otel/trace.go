package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/ordering/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_RESTAURANT_SERVICE)
