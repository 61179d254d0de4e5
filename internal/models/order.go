package models

import (
	"time"

	"github.com/gocql/gocql"
)

// OrderStatus is a one-directional state machine:
// Pending → Paid → Canceled. The only way back to the shelf is an explicit
// cancellation of a Paid order.
type OrderStatus string

const (
	OrderPending  OrderStatus = "Pending"
	OrderPaid     OrderStatus = "Paid"
	OrderCanceled OrderStatus = "Canceled"
)

type Order struct {
	ID          gocql.UUID  `json:"_id" db:"order_id"`
	AccountID   string      `json:"account" db:"account_id"`
	Status      OrderStatus `json:"status" db:"status"`
	Items       []OrderItem `json:"items" db:"items"`
	PromotionID *gocql.UUID `json:"promotion,omitempty" db:"promotion_id"`
	TotalAmount float64     `json:"totalAmount" db:"total_amount"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem snapshots a line at submission time; UnitPrice is the price the
// total was computed with, regardless of later catalog changes.
type OrderItem struct {
	ProductID gocql.UUID `json:"product" db:"product_id"`
	Quantity  int        `json:"quantity" db:"quantity"`
	UnitPrice float64    `json:"unitPrice,omitempty" db:"unit_price"`
}
