package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/centsible-dev/centsible/internal/colmap"
	"github.com/centsible-dev/centsible/internal/config"
	"github.com/centsible-dev/centsible/internal/gitops"
	"github.com/centsible-dev/centsible/internal/importlog"
	"github.com/centsible-dev/centsible/internal/model"
	"github.com/centsible-dev/centsible/internal/money"
	"github.com/centsible-dev/centsible/internal/store"
	"github.com/centsible-dev/centsible/internal/wizard"
)

func newImportCommand(newLogger func() *log.Logger) *cobra.Command {
	opts := importOptions{}

	cmd := &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Import bank transactions from a CSV export",
		Long: `Import runs the bulk transaction wizard end to end: the file is parsed,
columns are mapped to fields, amounts are normalized to cents, each row's
description is resolved to a merchant (creating new merchants on demand), and
the batch is committed atomically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.filePath = args[0]
			return runImport(cmd.Context(), newLogger(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataDir, "data", ".", "data directory")
	cmd.Flags().StringVar(&opts.accountRef, "account", "", "destination account title or id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().BoolVar(&opts.createAccount, "create-account", false, "create the destination account if it does not exist")
	cmd.Flags().StringVar(&opts.presetName, "preset", "", "named column preset from centsible.yaml")
	cmd.Flags().IntVar(&opts.amountCol, "amount-col", colmap.None, "amount column index")
	cmd.Flags().IntVar(&opts.descCol, "description-col", colmap.None, "description column index")
	cmd.Flags().IntVar(&opts.clearedCol, "cleared-col", colmap.None, "cleared date column index")
	cmd.Flags().IntVar(&opts.transactedCol, "transacted-col", colmap.None, "transaction date column index (optional)")
	cmd.Flags().IntVar(&opts.sign, "sign", 0, "sign factor, 100 or -100 (0 = config default)")

	return cmd
}

type importOptions struct {
	dataDir       string
	filePath      string
	accountRef    string
	createAccount bool
	presetName    string
	amountCol     int
	descCol       int
	clearedCol    int
	transactedCol int
	sign          int
}

func runImport(ctx context.Context, logger *log.Logger, opts importOptions) error {
	cfg, err := config.Load(filepath.Join(opts.dataDir, config.FileName))
	if err != nil {
		return fmt.Errorf("loading config (did you run init?): %w", err)
	}

	st, err := store.Load(opts.dataDir)
	if err != nil {
		return fmt.Errorf("loading stores: %w", err)
	}

	accountID, err := resolveAccount(ctx, st, opts.accountRef, opts.createAccount)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.filePath)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	var result *wizard.Result
	m, err := wizard.New(wizard.Config{
		Store:  st,
		Logger: logger,
		OnNotice: func(n wizard.Notice) {
			logger.Warn(n.Message, "step", string(n.Step), "error", n.Err)
		},
		OnDone: func(r wizard.Result) { result = &r },
	})
	if err != nil {
		return err
	}

	fileName := filepath.Base(opts.filePath)
	m.Send(ctx, wizard.SubmitFile{Name: fileName, Data: f})
	if m.State() != wizard.StateSelectAccount {
		return fmt.Errorf("wizard stopped at %s while loading accounts", m.State())
	}

	m.Send(ctx, wizard.ChooseAccount{AccountID: accountID})
	if m.State() != wizard.StateMatchColumns {
		return fmt.Errorf("could not parse %s", fileName)
	}

	header := m.Table().Header
	fieldMap, factor, err := resolveMapping(cfg, opts, header)
	if err != nil {
		return err
	}
	if err := fieldMap.Validate(len(header)); err != nil {
		return fmt.Errorf("column mapping: %w", err)
	}

	m.Send(ctx, wizard.SubmitFieldMap{Map: fieldMap})
	m.Send(ctx, wizard.SubmitSignFactor{Factor: factor})
	if m.State() != wizard.StateMatchMerchants {
		return fmt.Errorf("wizard stopped at %s while loading merchants", m.State())
	}

	if err := resolveMerchants(ctx, m); err != nil {
		return err
	}

	rowCount := m.Table().RowCount()
	m.Send(ctx, wizard.SubmitResolvedRows{Rows: m.ConfirmedRows()})

	if result == nil {
		entry := importlog.Entry{
			Timestamp: time.Now().UTC(),
			FileName:  fileName,
			AccountID: accountID,
			RowCount:  rowCount,
			Status:    importlog.StatusFailed,
			Note:      fmt.Sprintf("stopped at %s", m.State()),
		}
		if logErr := importlog.Append(opts.dataDir, []importlog.Entry{entry}); logErr != nil {
			logger.Error("could not append import log", "error", logErr)
		}
		return fmt.Errorf("import did not complete (stopped at %s)", m.State())
	}

	if err := st.Save(opts.dataDir); err != nil {
		return fmt.Errorf("saving stores: %w", err)
	}

	entry := importlog.Entry{
		Timestamp: time.Now().UTC(),
		FileName:  fileName,
		AccountID: accountID,
		RowCount:  rowCount,
		Created:   result.Created,
		Status:    importlog.StatusCommitted,
	}
	if err := importlog.Append(opts.dataDir, []importlog.Entry{entry}); err != nil {
		return fmt.Errorf("appending import log: %w", err)
	}

	if cfg.Git.AutoCommit && gitops.IsRepo(opts.dataDir) {
		paths := []string{store.AccountsFile, store.MerchantsFile, store.TransactionsFile, "logs"}
		message := fmt.Sprintf("import: %d transactions from %s", result.Created, fileName)
		hash, err := gitops.CommitPaths(opts.dataDir, paths, message, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			logger.Error("auto-commit failed", "error", err)
		} else {
			logger.Info("committed import", "hash", hash)
		}
	}

	fmt.Printf("Imported %d transactions from %s\n", result.Created, fileName)
	return nil
}

// resolveAccount matches the --account flag against existing accounts by id
// or title, optionally creating the account.
func resolveAccount(ctx context.Context, st store.Store, ref string, create bool) (string, error) {
	accounts, err := st.ListAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("listing accounts: %w", err)
	}
	for _, a := range accounts {
		if a.ID == ref || strings.EqualFold(a.Title, ref) {
			return a.ID, nil
		}
	}
	if !create {
		return "", fmt.Errorf("no account matching %q (use --create-account to add it)", ref)
	}
	account, err := st.CreateAccount(ctx, model.NewAccount{Title: ref, Type: model.AccountTypeChecking})
	if err != nil {
		return "", fmt.Errorf("creating account %q: %w", ref, err)
	}
	return account.ID, nil
}

// resolveMapping picks the column map and sign factor from a preset, explicit
// flags, or header-name guessing, in that order of precedence.
func resolveMapping(cfg *config.Config, opts importOptions, header []string) (colmap.FieldMap, money.SignFactor, error) {
	if opts.presetName != "" {
		p, ok := cfg.Preset(opts.presetName)
		if !ok {
			return colmap.FieldMap{}, 0, fmt.Errorf("unknown preset %q", opts.presetName)
		}
		factor, err := cfg.ResolveSignFactor(p)
		if err != nil {
			return colmap.FieldMap{}, 0, fmt.Errorf("preset %q: %w", opts.presetName, err)
		}
		return p.FieldMap(), factor, nil
	}

	fieldMap := colmap.Guess(header)
	if opts.amountCol != colmap.None {
		fieldMap.Amount = opts.amountCol
	}
	if opts.descCol != colmap.None {
		fieldMap.Description = opts.descCol
	}
	if opts.clearedCol != colmap.None {
		fieldMap.ClearedAt = opts.clearedCol
	}
	if opts.transactedCol != colmap.None {
		fieldMap.TransactedAt = opts.transactedCol
	}

	n := opts.sign
	if n == 0 {
		n = cfg.Defaults.SignFactor
	}
	factor, err := money.ParseSignFactor(n)
	if err != nil {
		return colmap.FieldMap{}, 0, err
	}
	return fieldMap, factor, nil
}

// resolveMerchants walks every row, driving a fresh selector per row: an
// exact (case-insensitive) title match is selected, anything else creates a
// new merchant named after the row's description.
func resolveMerchants(ctx context.Context, m *wizard.Machine) error {
	count := m.Table().RowCount()
	if count == 0 {
		return errors.New("file has no data rows")
	}

	for {
		row := m.CurrentRow()
		if !rowResolved(m, row.Index) {
			if err := resolveRow(ctx, m, row); err != nil {
				return err
			}
			if !rowResolved(m, row.Index) {
				return fmt.Errorf("row %d (%q): merchant resolution failed", row.Index, row.Description)
			}
		}
		if row.Index+1 >= count {
			return nil
		}
		m.Send(ctx, wizard.IncrementRow{})
	}
}

func resolveRow(ctx context.Context, m *wizard.Machine, row wizard.RowView) error {
	sel := m.NewRowSelector(ctx)
	sel.Activate()
	sel.UpdateInput(row.Description)

	for _, opt := range sel.Filtered() {
		if strings.EqualFold(opt.Title, row.Description) {
			sel.Select(opt.ID, opt.Title)
			return nil
		}
	}

	if strings.TrimSpace(row.Description) == "" {
		return fmt.Errorf("row %d has an empty description; cannot name a merchant", row.Index)
	}
	sel.Create()
	return nil
}

func rowResolved(m *wizard.Machine, index int) bool {
	confirmed := m.ConfirmedRows()
	return index < len(confirmed) && confirmed[index].Resolved()
}
