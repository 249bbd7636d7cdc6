package wizard

import (
	"io"

	"github.com/centsible-dev/centsible/internal/colmap"
	"github.com/centsible-dev/centsible/internal/csvtable"
	"github.com/centsible-dev/centsible/internal/model"
	"github.com/centsible-dev/centsible/internal/money"
)

// Event is a message the machine processes one at a time. External events are
// exported; completion events for asynchronous collaborator work are internal
// and fed back through the same queue.
type Event interface {
	name() string
}

// SubmitFile delivers the user-selected CSV export.
type SubmitFile struct {
	Name string
	Data io.Reader
}

// ChooseAccount picks the destination account for the whole batch.
type ChooseAccount struct {
	AccountID string
}

// CreateAccount requests creation of a new destination account.
type CreateAccount struct {
	Params model.NewAccount
}

// SubmitFieldMap confirms the column-to-field association.
type SubmitFieldMap struct {
	Map colmap.FieldMap
}

// SubmitSignFactor confirms the amount sign transformation factor.
type SubmitSignFactor struct {
	Factor money.SignFactor
}

// CreateMerchant requests creation of a merchant for the current row.
type CreateMerchant struct {
	Params model.NewMerchant
}

// SetConfirmedRows replaces the confirmed draft set wholesale.
type SetConfirmedRows struct {
	Rows []model.TransactionDraft
}

// DecrementRow moves the row cursor back one row, clamped at the first row.
type DecrementRow struct{}

// IncrementRow moves the row cursor forward one row, clamped at the last row.
type IncrementRow struct{}

// SubmitResolvedRows submits the fully merchant-resolved batch for creation.
// Only valid once every row has a non-empty merchant id.
type SubmitResolvedRows struct {
	Rows []model.TransactionDraft
}

func (SubmitFile) name() string         { return "SUBMIT_FILE" }
func (ChooseAccount) name() string      { return "CHOOSE_ACCOUNT" }
func (CreateAccount) name() string      { return "CREATE_ACCOUNT" }
func (SubmitFieldMap) name() string     { return "SUBMIT_COLUMN_FIELD_MAP" }
func (SubmitSignFactor) name() string   { return "SUBMIT_AMOUNT_TRANSFORMATION_FACTOR" }
func (CreateMerchant) name() string     { return "CREATE_MERCHANT" }
func (SetConfirmedRows) name() string   { return "SET_CONFIRMED_FILE_DATA" }
func (DecrementRow) name() string       { return "DECREMENT_ROW" }
func (IncrementRow) name() string       { return "INCREMENT_ROW" }
func (SubmitResolvedRows) name() string { return "SUBMIT_TRANSACTION_DATA_WITH_MERCHANT_IDS" }

// Completion events delivered by invoked collaborator work.

type accountsListed struct {
	accounts []model.Account
	err      error
}

type fileParsed struct {
	table csvtable.Table
	err   error
}

type merchantsListed struct {
	merchants []model.Merchant
	err       error
}

type merchantCreated struct {
	merchant model.Merchant
	err      error
}

type batchCommitted struct {
	count int
	err   error
}

func (accountsListed) name() string  { return "accounts.listed" }
func (fileParsed) name() string      { return "file.parsed" }
func (merchantsListed) name() string { return "merchants.listed" }
func (merchantCreated) name() string { return "merchant.created" }
func (batchCommitted) name() string  { return "batch.committed" }
