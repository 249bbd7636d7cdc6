package model

import "time"

// AccountType classifies a user's accounts.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeInvestment AccountType = "investment"
)

// Account is a destination account transactions are imported into.
type Account struct {
	ID                 string
	Title              string
	Type               AccountType
	AccentColor        string
	DateFirstAvailable *time.Time
	CreatedAt          time.Time
}

// NewAccount holds the user-supplied fields for account creation. ID and
// CreatedAt are assigned by the store at insertion time.
type NewAccount struct {
	Title              string
	Type               AccountType
	AccentColor        string
	DateFirstAvailable *time.Time
}
