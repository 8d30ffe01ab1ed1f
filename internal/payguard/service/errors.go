package service

import "errors"

var (
	ErrLoginTaken         = errors.New("login is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotEnoughPoints    = errors.New("not enough points")
)
