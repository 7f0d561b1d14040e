package user

import "errors"

var (
	ErrEmailTaken         = errors.New("Email already registered! Please use a different email.")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrNotFound           = errors.New("user not found")
)
