package otel

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// RecordError fails span with err and attaches it as an exception event
// tagged with the type of the innermost wrapped error. Nil errors and spans
// that are not recording are ignored.
func RecordError(err error, span trace.Span) {
	if err == nil || !span.IsRecording() {
		return
	}
	cause := err
	for next := errors.Unwrap(cause); next != nil; next = errors.Unwrap(cause) {
		cause = next
	}
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err, trace.WithAttributes(semconv.ErrorTypeKey.String(fmt.Sprintf("%T", cause))))
}
