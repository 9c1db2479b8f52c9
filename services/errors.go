package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	ErrOTPInvalid     = errors.New("invalid or expired code")
	ErrOTPNotVerified = errors.New("reset code not verified or expired")

	ErrInvalidID        = errors.New("invalid id")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrNotInCart        = errors.New("item not in cart")

	ErrAddressNotFound = errors.New("address not found")
	ErrLovedNotFound   = errors.New("loved items not found")
	ErrOrderNotFound   = errors.New("order not found")

	ErrPaymentIntentRequired = errors.New("payment intent id is required for card payments")
	ErrPaymentNotSucceeded   = errors.New("payment not successful")
	ErrAmountMismatch        = errors.New("paid amount does not match order total")
	ErrPaymentAlreadyUsed    = errors.New("payment already attached to an order")
	ErrGatewayUnavailable    = errors.New("payment gateway is not configured")
)

// ErrInsufficientStock is matched by *StockError.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockError reports how many units are left when a request asks for more.
type StockError struct {
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Only %d items available", e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
