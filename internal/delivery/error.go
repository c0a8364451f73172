package delivery

import "errors"

var (
	ErrDeliveryNotFound      = errors.New("delivery not found")
	ErrIllegalTransition     = errors.New("illegal delivery status transition")
	ErrMissingProof          = errors.New("proof of delivery required")
	ErrProofNotAllowed       = errors.New("proof can only be attached while out for delivery")
	ErrMethodAlreadyAssigned = errors.New("delivery method already assigned")
	ErrStatusConflict        = errors.New("delivery status changed concurrently")
	ErrValidation            = errors.New("delivery validation failed")
	ErrUnauthorized          = errors.New("unauthorized")
)
