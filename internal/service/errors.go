package service

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned when a PPF line asks for more
	// square footage than the product's rolls hold combined. Nothing is
	// mutated when this fires.
	ErrInsufficientStock = errors.New("insufficient roll stock")

	// ErrOverpayment is returned when a payment batch would push an
	// invoice past its total. The whole batch is rejected.
	ErrOverpayment = errors.New("payment exceeds remaining balance")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken is returned when creating a user whose username
	// already exists.
	ErrUsernameTaken = errors.New("username already taken")
)
