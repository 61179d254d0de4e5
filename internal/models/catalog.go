package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Brand struct {
	ID          gocql.UUID `json:"id,omitempty"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	LogoURL     string     `json:"logo_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type Category struct {
	ID          gocql.UUID `json:"id,omitempty"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// SkinType is both a catalog axis (products suited to a skin) and the
// outcome of the skincare quiz.
type SkinType struct {
	ID          gocql.UUID `json:"id,omitempty"`
	Name        string     `json:"name"` // "oily", "dry", "combination", "sensitive", "normal"
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
