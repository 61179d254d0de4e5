package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Feedback struct {
	ID          gocql.UUID `json:"id" db:"feedback_id"`
	ProductID   gocql.UUID `json:"product_id" db:"product_id"`
	AccountID   string     `json:"account_id" db:"account_id"`
	AccountName string     `json:"account_name" db:"account_name"`
	Rating      int        `json:"rating" db:"rating"` // 1-5
	Comment     string     `json:"comment" db:"comment"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

type ProductRating struct {
	ProductID     gocql.UUID `json:"product_id"`
	AverageRating float64    `json:"average_rating"`
	TotalFeedback int        `json:"total_feedback"`
}
