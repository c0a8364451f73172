package seller

import "errors"

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrSellerNotFound     = errors.New("seller not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
