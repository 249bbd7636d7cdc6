// Package wizard implements the bulk transaction import workflow as an
// explicit finite-state machine: file intake, account selection, CSV parsing,
// column mapping, sign confirmation, per-row merchant resolution, and a final
// atomic batch commit. The machine owns all accumulated context and mutates
// it only inside its transition handlers.
package wizard

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/centsible-dev/centsible/internal/colmap"
	"github.com/centsible-dev/centsible/internal/csvtable"
	"github.com/centsible-dev/centsible/internal/model"
	"github.com/centsible-dev/centsible/internal/money"
)

// State identifies a wizard step. The presentation layer switches on the
// state tag; the machine never holds renderable values.
type State string

const (
	StateCollectFile       State = "collect_file"
	StateFetchAccounts     State = "fetch_accounts"
	StateSelectAccount     State = "select_account"
	StateParseFile         State = "parse_file"
	StateMatchColumns      State = "match_columns"
	StateConfirmAmountSign State = "confirm_amount_sign"
	StateFetchMerchants    State = "fetch_merchants"
	StateCreateMerchant    State = "create_merchant"
	StateMatchMerchants    State = "match_merchants"
	StateBulkCreate        State = "bulk_create"
	StateDone              State = "done"
)

// Directory is the storage surface the wizard needs. The concrete handle is
// injected by the process entry point; store.Store satisfies it.
type Directory interface {
	ListAccounts(ctx context.Context) ([]model.Account, error)
	CreateAccount(ctx context.Context, params model.NewAccount) (model.Account, error)
	ListMerchants(ctx context.Context) ([]model.Merchant, error)
	CreateMerchant(ctx context.Context, params model.NewMerchant) (model.Merchant, error)
	BulkCreateTransactions(ctx context.Context, drafts []model.TransactionDraft) (int, error)
}

// Notice is a user-facing failure surfaced through the notice hook. Failures
// never escape the machine as errors; they become transitions plus a Notice.
type Notice struct {
	Step    State
	Message string
	Err     error
}

// Result is passed to the completion callback when the machine finishes.
type Result struct {
	Created int
}

// Config wires the machine's collaborators.
type Config struct {
	Store Directory
	// Parse converts the submitted file into a table. Defaults to
	// csvtable.Parse.
	Parse func(io.Reader) (csvtable.Table, error)
	// OnDone fires exactly once when the terminal state is reached.
	OnDone func(Result)
	// OnNotice receives user-facing failure notices. Optional.
	OnNotice func(Notice)
	Logger   *log.Logger
}

// Machine is the bulk import orchestrator. It processes one event to
// completion before accepting the next and is not safe for concurrent use.
type Machine struct {
	cfg   Config
	state State

	queue    []Event
	draining bool
	finished bool

	// spawn runs the fire-and-forget account creation task. Overridable in
	// tests to run inline.
	spawn func(func())

	fileName        string
	file            io.Reader
	accounts        []model.Account
	merchants       []model.Merchant
	accountID       string
	table           csvtable.Table
	fieldMap        colmap.FieldMap
	signFactor      money.SignFactor
	rowIndex        int
	confirmed       []model.TransactionDraft
	pendingMerchant *model.NewMerchant
	resolved        []model.TransactionDraft
}

// New creates a machine in the initial file-collection state.
func New(cfg Config) (*Machine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("wizard: Store is required")
	}
	if cfg.Parse == nil {
		cfg.Parse = csvtable.Parse
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Machine{
		cfg:        cfg,
		state:      StateCollectFile,
		spawn:      func(fn func()) { go fn() },
		signFactor: money.FactorPositive,
	}, nil
}

// State returns the current step.
func (m *Machine) State() State { return m.state }

// Accounts returns the fetched destination accounts.
func (m *Machine) Accounts() []model.Account { return m.accounts }

// Merchants returns the most recently fetched merchant set.
func (m *Machine) Merchants() []model.Merchant { return m.merchants }

// AccountID returns the chosen destination account id.
func (m *Machine) AccountID() string { return m.accountID }

// Table returns the parsed file data.
func (m *Machine) Table() csvtable.Table { return m.table }

// FieldMap returns the confirmed column mapping.
func (m *Machine) FieldMap() colmap.FieldMap { return m.fieldMap }

// SignFactor returns the confirmed amount sign factor.
func (m *Machine) SignFactor() money.SignFactor { return m.signFactor }

// RowIndex returns the merchant-resolution cursor.
func (m *Machine) RowIndex() int { return m.rowIndex }

// ConfirmedRows returns a copy of the confirmed drafts, parallel to the
// table's body rows. Unresolved indices hold zero-value drafts.
func (m *Machine) ConfirmedRows() []model.TransactionDraft {
	out := make([]model.TransactionDraft, len(m.confirmed))
	copy(out, m.confirmed)
	return out
}

// ReadyToSubmit reports whether every body row has a merchant-resolved draft.
func (m *Machine) ReadyToSubmit() bool {
	if len(m.confirmed) < m.table.RowCount() || m.table.RowCount() == 0 {
		return false
	}
	for i := 0; i < m.table.RowCount(); i++ {
		if !m.confirmed[i].Resolved() {
			return false
		}
	}
	return true
}

// Send delivers an event. Events queued while one is being processed are
// handled in order before Send returns, so each event runs to completion
// before the next begins. Collaborator completions re-enter through the same
// queue.
func (m *Machine) Send(ctx context.Context, ev Event) {
	m.queue = append(m.queue, ev)
	if m.draining {
		return
	}
	m.draining = true
	defer func() { m.draining = false }()

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.handle(ctx, next)
	}
}

func (m *Machine) handle(ctx context.Context, ev Event) {
	m.cfg.Logger.Debug("wizard event", "state", m.state, "event", ev.name())

	switch m.state {
	case StateCollectFile:
		if e, ok := ev.(SubmitFile); ok {
			m.fileName = e.Name
			m.file = e.Data
			m.transition(ctx, StateFetchAccounts)
		}

	case StateFetchAccounts:
		if e, ok := ev.(accountsListed); ok {
			if e.err != nil {
				m.notice("could not load accounts", e.err)
				m.transition(ctx, StateCollectFile)
				return
			}
			m.accounts = e.accounts
			m.transition(ctx, StateSelectAccount)
		}

	case StateSelectAccount:
		switch e := ev.(type) {
		case ChooseAccount:
			if m.file == nil {
				m.cfg.Logger.Debug("ignoring CHOOSE_ACCOUNT: no file submitted")
				return
			}
			m.accountID = e.AccountID
			m.transition(ctx, StateParseFile)
		case CreateAccount:
			// Fire-and-forget: the refetch below can race the creation and
			// miss the new account until the next refresh.
			params := e.Params
			m.spawn(func() {
				if _, err := m.cfg.Store.CreateAccount(ctx, params); err != nil {
					m.cfg.Logger.Error("account creation failed", "title", params.Title, "error", err)
				}
			})
			m.transition(ctx, StateFetchAccounts)
		}

	case StateParseFile:
		if e, ok := ev.(fileParsed); ok {
			if e.err != nil {
				m.notice("could not parse file", e.err)
				m.transition(ctx, StateCollectFile)
				return
			}
			m.table = e.table
			m.transition(ctx, StateMatchColumns)
		}

	case StateMatchColumns:
		if e, ok := ev.(SubmitFieldMap); ok {
			m.fieldMap = e.Map
			m.transition(ctx, StateConfirmAmountSign)
		}

	case StateConfirmAmountSign:
		if e, ok := ev.(SubmitSignFactor); ok {
			if !e.Factor.Valid() {
				m.notice("invalid sign factor", fmt.Errorf("factor %d", e.Factor))
				return
			}
			m.signFactor = e.Factor
			m.transition(ctx, StateFetchMerchants)
		}

	case StateFetchMerchants:
		if e, ok := ev.(merchantsListed); ok {
			if e.err != nil {
				m.notice("could not load merchants", e.err)
				m.transition(ctx, StateCollectFile)
				return
			}
			m.merchants = e.merchants
			m.transition(ctx, StateMatchMerchants)
		}

	case StateCreateMerchant:
		if e, ok := ev.(merchantCreated); ok {
			if e.err != nil {
				m.notice("could not create merchant", e.err)
				m.transition(ctx, StateMatchMerchants)
				return
			}
			draft, err := m.normalizeRow(m.rowIndex, e.merchant.ID)
			if err != nil {
				m.notice("could not normalize row", err)
				m.transition(ctx, StateMatchMerchants)
				return
			}
			m.upsertConfirmed(m.rowIndex, draft)
			m.transition(ctx, StateFetchMerchants)
		}

	case StateMatchMerchants:
		switch e := ev.(type) {
		case CreateMerchant:
			m.pendingMerchant = &model.NewMerchant{
				Title:       e.Params.Title,
				Description: e.Params.Description,
			}
			m.transition(ctx, StateCreateMerchant)
		case SetConfirmedRows:
			m.confirmed = make([]model.TransactionDraft, len(e.Rows))
			copy(m.confirmed, e.Rows)
		case DecrementRow:
			if m.rowIndex > 0 {
				m.rowIndex--
			}
		case IncrementRow:
			if m.rowIndex+1 < m.table.RowCount() {
				m.rowIndex++
			}
		case SubmitResolvedRows:
			if !m.ReadyToSubmit() {
				m.notice("batch is not fully merchant-resolved", nil)
				return
			}
			m.resolved = make([]model.TransactionDraft, len(e.Rows))
			copy(m.resolved, e.Rows)
			m.transition(ctx, StateBulkCreate)
		}

	case StateBulkCreate:
		if e, ok := ev.(batchCommitted); ok {
			if e.err != nil {
				// Confirmed rows survive so the user can retry the commit.
				m.notice("could not create transactions", e.err)
				m.transition(ctx, StateMatchMerchants)
				return
			}
			m.finish(e.count)
		}

	case StateDone:
		// Terminal; events are ignored.
	}
}

// transition leaves the current state, runs the target's entry work, and
// queues any collaborator completion event.
func (m *Machine) transition(ctx context.Context, to State) {
	m.cfg.Logger.Debug("wizard transition", "from", m.state, "to", to)

	if m.state == StateCreateMerchant {
		m.pendingMerchant = nil
	}
	m.state = to

	switch to {
	case StateFetchAccounts:
		accounts, err := m.cfg.Store.ListAccounts(ctx)
		m.push(accountsListed{accounts: accounts, err: err})
	case StateParseFile:
		table, err := m.cfg.Parse(m.file)
		m.push(fileParsed{table: table, err: err})
	case StateFetchMerchants:
		merchants, err := m.cfg.Store.ListMerchants(ctx)
		m.push(merchantsListed{merchants: merchants, err: err})
	case StateCreateMerchant:
		merchant, err := m.cfg.Store.CreateMerchant(ctx, model.NewMerchant{Title: m.pendingMerchant.Title})
		m.push(merchantCreated{merchant: merchant, err: err})
	case StateBulkCreate:
		count, err := m.cfg.Store.BulkCreateTransactions(ctx, m.resolved)
		m.push(batchCommitted{count: count, err: err})
	}
}

func (m *Machine) finish(count int) {
	m.state = StateDone
	if m.finished {
		return
	}
	m.finished = true
	if m.cfg.OnDone != nil {
		m.cfg.OnDone(Result{Created: count})
	}
}

func (m *Machine) push(ev Event) {
	m.queue = append(m.queue, ev)
}

func (m *Machine) notice(message string, err error) {
	m.cfg.Logger.Warn(message, "state", m.state, "error", err)
	if m.cfg.OnNotice != nil {
		m.cfg.OnNotice(Notice{Step: m.state, Message: message, Err: err})
	}
}
