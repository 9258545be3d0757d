package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/ordering/internal/constants"
	"github.com/Alturino/ordering/internal/infra"
	"github.com/Alturino/ordering/order/pkg/response"
)

func TestMessage(t *testing.T) {
	id := uuid.MustParse("5f1d7c1e-4c1b-4a49-9b1e-1f3f1c2e7a10")
	order := response.Order{ID: id, Status: "ready", TotalAmount: decimal.RequireFromString("30.97")}

	tests := []struct {
		name     string
		event    response.Event
		expected string
	}{
		{
			name:     "created",
			event:    response.Event{Type: constants.TOPIC_ORDER_CREATED, Order: order},
			expected: "order 5f1d7c1e-4c1b-4a49-9b1e-1f3f1c2e7a10 received, total 30.97",
		},
		{
			name:     "status updated",
			event:    response.Event{Type: constants.TOPIC_ORDER_STATUS_UPDATED, PreviousStatus: "preparing", Order: order},
			expected: "order 5f1d7c1e-4c1b-4a49-9b1e-1f3f1c2e7a10 is now ready (was preparing)",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Message(test.event))
		})
	}
}

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	c := zerolog.New(&buf).WithContext(context.Background())
	event := response.Event{
		Type:  constants.TOPIC_ORDER_CREATED,
		Order: response.Order{ID: uuid.New(), Status: "pending", TotalAmount: decimal.RequireFromString("8.99")},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	before := testutil.ToFloat64(orderEvents.WithLabelValues(constants.TOPIC_ORDER_CREATED, "pending"))

	err = NewNotifier().Handle(c, infra.Message{Topic: constants.TOPIC_ORDER_CREATED, Payload: payload})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "received, total 8.99")
	assert.Equal(t, before+1, testutil.ToFloat64(orderEvents.WithLabelValues(constants.TOPIC_ORDER_CREATED, "pending")))

	invalid := testutil.ToFloat64(orderEvents.WithLabelValues(constants.TOPIC_ORDER_CREATED, STATUS_INVALID))
	err = NewNotifier().Handle(c, infra.Message{Topic: constants.TOPIC_ORDER_CREATED, Payload: []byte("{")})
	assert.Error(t, err)
	assert.Equal(t, invalid+1, testutil.ToFloat64(orderEvents.WithLabelValues(constants.TOPIC_ORDER_CREATED, STATUS_INVALID)))
}
