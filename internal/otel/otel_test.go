package otel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkTrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/ordering/internal/config"
)

func TestInitOtelSdkDisabled(t *testing.T) {
	shutdownFuncs, err := InitOtelSdk(context.Background(), "test", config.Otel{Enabled: false})

	assert.NoError(t, err)
	assert.Empty(t, shutdownFuncs)
}

func TestShutdownOtel(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")
	called := make(chan struct{}, 3)

	err := ShutdownOtel(context.Background(), []ShutdownFunc{
		func(context.Context) error { called <- struct{}{}; return errFirst },
		func(context.Context) error { called <- struct{}{}; return nil },
		func(context.Context) error { called <- struct{}{}; return errSecond },
	})

	assert.Len(t, called, 3)
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdkTrace.NewTracerProvider(sdkTrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, span := tracer.Start(context.Background(), "failing")
	RecordError(fmt.Errorf("failed finding order with error=%w", errNotFound{}), span)
	span.End()

	_, span = tracer.Start(context.Background(), "succeeding")
	RecordError(nil, span)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	failing := spans[0]
	assert.Equal(t, codes.Error, failing.Status().Code)
	assert.Equal(t, "failed finding order with error=not found", failing.Status().Description)
	require.Len(t, failing.Events(), 1)
	assert.Equal(t, "exception", failing.Events()[0].Name)
	assert.Contains(t, failing.Events()[0].Attributes, semconv.ErrorTypeKey.String("otel.errNotFound"))

	succeeding := spans[1]
	assert.Equal(t, codes.Unset, succeeding.Status().Code)
	assert.Empty(t, succeeding.Events())
}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }
