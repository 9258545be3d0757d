package errors

import (
	"errors"
)

var (
	ErrEmptyAuth         = errors.New("missing authorization")
	ErrEmptySubject      = errors.New("missing subject")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrFailedHashToken   = errors.New("failed hashing token")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrEmailExist        = errors.New("email already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrInvalidPagination = errors.New("invalid page/pageSize")

	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrInvalidRestaurant  = errors.New("invalid restaurant")

	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderEmpty         = errors.New("order must contain at least one item")
	ErrOrderNotPending    = errors.New("only pending orders can be updated")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
)
