package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Refund struct {
	ID        gocql.UUID `json:"id" db:"refund_id"`
	OrderID   gocql.UUID `json:"order_id" db:"order_id"`
	AccountID string     `json:"account_id" db:"account_id"`
	Amount    float64    `json:"amount" db:"amount"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
