package data

import "errors"

var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrOrderNotFound             = errors.New("order not found")
	ErrInvalidLogin              = errors.New("invalid login")
	ErrInvalidPassword           = errors.New("invalid password")
)
