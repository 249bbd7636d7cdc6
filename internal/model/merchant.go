package model

import "time"

// Merchant is a canonical payee record. Free-text transaction descriptions
// resolve to exactly one merchant.
type Merchant struct {
	ID          string
	Title       string
	Description string // empty = none
	CreatedAt   time.Time
}

// NewMerchant holds the user-supplied fields for merchant creation.
type NewMerchant struct {
	Title       string
	Description string
}
