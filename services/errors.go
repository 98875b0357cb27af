package services

import "errors"

var (
	ErrInvalidStatus       = errors.New("invalid booking status")
	ErrForbidden           = errors.New("not allowed for this user")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrPaymentNotSucceeded = errors.New("payment intent has not succeeded")
	ErrAlreadyProcessed    = errors.New("payment intent already processed")
	ErrPaymentsDisabled    = errors.New("payment gateway is not configured")
)
