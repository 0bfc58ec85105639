package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")

	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")

	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is deliberately the same for an unknown email
	// and a wrong password, so login cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError marks malformed or missing input rejected before any
// business logic runs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientInventoryError names the product that could not cover the
// requested quantity. The whole order is rejected when it occurs.
type InsufficientInventoryError struct {
	ProductID   string
	ProductName string
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %s", e.ProductName)
}
