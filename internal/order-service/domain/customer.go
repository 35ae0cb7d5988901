package domain

import "time"

// Customer is read-only from the order workflow's point of view. ZipCode is
// what the carrier quotes against.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ZipCode   string    `json:"zipCode"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerFilter matches case-insensitive substrings; empty fields match all.
type CustomerFilter struct {
	Name  string
	Email string
}
