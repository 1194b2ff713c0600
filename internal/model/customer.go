package model

import "time"

// Customer is an advertiser that places bookings.
type Customer struct {
	ID             uint64    `json:"id"`               // customers.id
	OwnerID        uint64    `json:"-"`                // customers.owner_id
	Name           string    `json:"name"`             // customers.name
	ContactName    string    `json:"contact_name"`     // customers.contact_name
	Email          string    `json:"email"`            // customers.email
	Phone          string    `json:"phone"`            // customers.phone
	BusinessTypeID *uint64   `json:"business_type_id"` // customers.business_type_id (nullable)
	Archived       bool      `json:"archived"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
