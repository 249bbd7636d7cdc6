package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/centsible-dev/centsible/internal/csvtable"
	"github.com/centsible-dev/centsible/internal/model"
	"github.com/centsible-dev/centsible/internal/money"
	"github.com/centsible-dev/centsible/internal/selector"
)

// RowView is the raw cell data a presentation layer needs to render the
// current row during merchant resolution.
type RowView struct {
	Index        int
	Count        int
	Amount       string
	Description  string
	ClearedAt    string
	TransactedAt string // empty when no transaction date column is mapped
}

// CurrentRow returns the row under the resolution cursor.
func (m *Machine) CurrentRow() RowView {
	row := m.table.Body[m.rowIndex]
	view := RowView{
		Index:       m.rowIndex,
		Count:       m.table.RowCount(),
		Amount:      row[m.fieldMap.Amount],
		Description: row[m.fieldMap.Description],
		ClearedAt:   row[m.fieldMap.ClearedAt],
	}
	if m.fieldMap.HasTransactedAt() {
		view.TransactedAt = row[m.fieldMap.TransactedAt]
	}
	return view
}

// NewRowSelector builds a fresh merchant selector for the current row. A new
// selector must be created every time the cursor moves so no selection state
// leaks between rows. Selector outputs fold back into the machine: a
// committed selection confirms the row, a create request enters the merchant
// creation step.
func (m *Machine) NewRowSelector(ctx context.Context) *selector.Machine {
	options := make([]selector.Option, len(m.merchants))
	for i, merchant := range m.merchants {
		options[i] = selector.Option{ID: merchant.ID, Title: merchant.Title}
	}

	initialInput := ""
	if m.rowIndex < len(m.confirmed) && m.confirmed[m.rowIndex].Resolved() {
		initialInput = m.merchantTitle(m.confirmed[m.rowIndex].MerchantID)
	}

	return selector.New(options, initialInput, selector.Outputs{
		SelectionChanged: func(id string) {
			m.ConfirmRowMerchant(ctx, id)
		},
		CreateRequested: func(title string) {
			m.Send(ctx, CreateMerchant{Params: model.NewMerchant{Title: title}})
		},
	})
}

// ConfirmRowMerchant normalizes the current row against the given merchant id
// and upserts the resulting draft. Empty or malformed ids are ignored, so
// clearing the selector input never erases a prior confirmation.
func (m *Machine) ConfirmRowMerchant(ctx context.Context, merchantID string) {
	if m.state != StateMatchMerchants {
		return
	}
	if uuid.Validate(merchantID) != nil {
		return
	}

	draft, err := m.normalizeRow(m.rowIndex, merchantID)
	if err != nil {
		m.notice("could not normalize row", err)
		return
	}

	rows := m.ConfirmedRows()
	rows = upsertDraft(rows, m.rowIndex, draft)
	m.Send(ctx, SetConfirmedRows{Rows: rows})
}

// normalizeRow converts a raw body row into a transaction draft: the amount
// cell becomes integer cents via the sign factor, and the date cells are
// parsed with the generic date layouts.
func (m *Machine) normalizeRow(index int, merchantID string) (model.TransactionDraft, error) {
	if index < 0 || index >= m.table.RowCount() {
		return model.TransactionDraft{}, fmt.Errorf("row index %d out of range", index)
	}
	row := m.table.Body[index]

	cents, err := money.ParseCents(row[m.fieldMap.Amount], m.signFactor)
	if err != nil {
		return model.TransactionDraft{}, fmt.Errorf("row %d: %w", index, err)
	}

	posted, err := csvtable.ParseDate(row[m.fieldMap.ClearedAt])
	if err != nil {
		return model.TransactionDraft{}, fmt.Errorf("row %d: %w", index, err)
	}

	var transacted *time.Time
	if m.fieldMap.HasTransactedAt() {
		t, err := csvtable.ParseDate(row[m.fieldMap.TransactedAt])
		if err != nil {
			return model.TransactionDraft{}, fmt.Errorf("row %d: %w", index, err)
		}
		transacted = &t
	}

	return model.TransactionDraft{
		AccountID:    m.accountID,
		MerchantID:   merchantID,
		Amount:       cents,
		Description:  row[m.fieldMap.Description],
		PostedAt:     posted,
		TransactedAt: transacted,
	}, nil
}

func (m *Machine) upsertConfirmed(index int, draft model.TransactionDraft) {
	m.confirmed = upsertDraft(m.confirmed, index, draft)
}

// upsertDraft overwrites the draft at index, padding with zero drafts when
// the index is past the end so drafts stay parallel to body rows.
func upsertDraft(rows []model.TransactionDraft, index int, draft model.TransactionDraft) []model.TransactionDraft {
	for len(rows) <= index {
		rows = append(rows, model.TransactionDraft{})
	}
	rows[index] = draft
	return rows
}

func (m *Machine) merchantTitle(id string) string {
	for _, merchant := range m.merchants {
		if merchant.ID == id {
			return merchant.Title
		}
	}
	return ""
}
