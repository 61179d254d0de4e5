package models

import "time"

type Account struct {
	ID         string     `json:"account_id"`
	Name       string     `json:"name,omitempty"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	Role       string     `json:"role,omitempty"` // "customer", "manager", "admin"
	SkinTypeID *string    `json:"skin_type_id,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}
