package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Quantity    int        `json:"quantity" db:"quantity"` // stock on hand, never negative
	CategoryID  gocql.UUID `json:"category_id" db:"category_id"`
	BrandID     gocql.UUID `json:"brand_id" db:"brand_id"`
	SkinTypeID  gocql.UUID `json:"skin_type_id" db:"skin_type_id"`
	ImageURL    string     `json:"image_url,omitempty" db:"image_url"`
	IsDeleted   bool       `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
