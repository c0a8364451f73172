package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal order status transition")
	ErrValidation        = errors.New("order validation failed")
	ErrStatusConflict    = errors.New("order status changed concurrently")
	ErrUnauthorized      = errors.New("unauthorized")
)
