package orders

import (
	"errors"
	"fmt"

	"github.com/gocql/gocql"
)

// Validation failures (HTTP 400, never retried).
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingAccount  = errors.New("account is required")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
)

// Lookup failures (HTTP 404).
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrPromotionNotFound = errors.New("promotion not found")
)

// State failures (HTTP 400/403).
var (
	ErrOnlyPaidCancelable = errors.New("only paid orders can be canceled")
	ErrNotOrderOwner      = errors.New("order does not belong to this account")
	ErrPromotionInactive  = errors.New("promotion is not active")
)

// ErrGateway marks payment-gateway failures (HTTP 500); any stock reserved
// for the submission has already been released when it is returned.
var ErrGateway = errors.New("payment gateway error")

// InsufficientStockError names the product and the available vs. requested
// quantities so the caller can surface both counts.
type InsufficientStockError struct {
	ProductID   gocql.UUID
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}
