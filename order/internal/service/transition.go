package service

import (
	"fmt"

	"github.com/Alturino/ordering/internal/errors"
	"github.com/Alturino/ordering/internal/repository"
)

var transitions = map[repository.OrderStatus][]repository.OrderStatus{
	repository.OrderStatusPending:   {repository.OrderStatusPreparing, repository.OrderStatusCancelled},
	repository.OrderStatusPreparing: {repository.OrderStatusReady, repository.OrderStatusCancelled},
	repository.OrderStatusReady:     {repository.OrderStatusDelivered},
}

type TransitionError struct {
	From repository.OrderStatus
	To   repository.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return errors.ErrInvalidTransition
}

// CanTransition reports whether an order in status from may move to status to.
// Delivered and cancelled orders are terminal.
func CanTransition(from, to repository.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
