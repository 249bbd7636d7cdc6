package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible-dev/centsible/internal/colmap"
	"github.com/centsible-dev/centsible/internal/config"
	"github.com/centsible-dev/centsible/internal/importlog"
	"github.com/centsible-dev/centsible/internal/money"
	"github.com/centsible-dev/centsible/internal/store"
)

const exportCSV = "Date,Description,Amount\n" +
	"2024-01-01,COSTCO WHSE #1001,1.61\n" +
	"2024-01-02,COINBASE INC,$25.00\n" +
	"2024-01-03,TARGET 00123,12.34\n"

func initDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "Ada", true))
	return dir
}

func writeExport(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunInit_LaysOutDataDir(t *testing.T) {
	dir := initDataDir(t)

	for _, name := range []string{config.FileName, store.AccountsFile, store.MerchantsFile, store.TransactionsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Ada", cfg.Owner.Name)
}

func TestRunImport_EndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := initDataDir(t)
	exportDir := t.TempDir()
	file := writeExport(t, exportDir, "export.csv", exportCSV)

	err := runImport(ctx, quietLogger(), importOptions{
		dataDir:       dir,
		filePath:      file,
		accountRef:    "Checking",
		createAccount: true,
		amountCol:     colmap.None,
		descCol:       colmap.None,
		clearedCol:    colmap.None,
		transactedCol: colmap.None,
	})
	require.NoError(t, err)

	st, err := store.Load(dir)
	require.NoError(t, err)

	accounts, err := st.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Checking", accounts[0].Title)

	merchants, err := st.ListMerchants(ctx)
	require.NoError(t, err)
	require.Len(t, merchants, 3, "one merchant per unique description")

	txns, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, int64(161), txns[0].Amount)
	assert.Equal(t, int64(2500), txns[1].Amount)
	assert.Equal(t, int64(1234), txns[2].Amount)

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, importlog.StatusCommitted, entries[0].Status)
	assert.Equal(t, 3, entries[0].RowCount)
	assert.Equal(t, 3, entries[0].Created)
}

func TestRunImport_SecondImportReusesMerchants(t *testing.T) {
	ctx := context.Background()
	dir := initDataDir(t)
	exportDir := t.TempDir()
	file := writeExport(t, exportDir, "export.csv", exportCSV)

	opts := importOptions{
		dataDir:       dir,
		filePath:      file,
		accountRef:    "Checking",
		createAccount: true,
		amountCol:     colmap.None,
		descCol:       colmap.None,
		clearedCol:    colmap.None,
		transactedCol: colmap.None,
	}
	require.NoError(t, runImport(ctx, quietLogger(), opts))

	opts.createAccount = false
	require.NoError(t, runImport(ctx, quietLogger(), opts))

	st, err := store.Load(dir)
	require.NoError(t, err)

	merchants, err := st.ListMerchants(ctx)
	require.NoError(t, err)
	assert.Len(t, merchants, 3, "existing merchants are matched, not duplicated")

	txns, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txns, 6)
}

func TestRunImport_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	dir := initDataDir(t)
	file := writeExport(t, t.TempDir(), "export.csv", exportCSV)

	err := runImport(ctx, quietLogger(), importOptions{
		dataDir:       dir,
		filePath:      file,
		accountRef:    "Checking",
		amountCol:     colmap.None,
		descCol:       colmap.None,
		clearedCol:    colmap.None,
		transactedCol: colmap.None,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account matching")
}

func TestRunImport_EmptyDescriptionFails(t *testing.T) {
	ctx := context.Background()
	dir := initDataDir(t)
	csv := "Date,Description,Amount\n2024-01-01,,1.61\n"
	file := writeExport(t, t.TempDir(), "export.csv", csv)

	err := runImport(ctx, quietLogger(), importOptions{
		dataDir:       dir,
		filePath:      file,
		accountRef:    "Checking",
		createAccount: true,
		amountCol:     colmap.None,
		descCol:       colmap.None,
		clearedCol:    colmap.None,
		transactedCol: colmap.None,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty description")
}

func TestResolveMapping_Precedence(t *testing.T) {
	header := []string{"Date", "Description", "Amount"}
	cfg := config.Default("Ada")
	transacted := 1
	cfg.Presets = []config.Preset{
		{Name: "chase", Amount: 3, Description: 2, ClearedAt: 0, TransactedAt: &transacted, SignFactor: -100},
	}

	base := importOptions{
		amountCol:     colmap.None,
		descCol:       colmap.None,
		clearedCol:    colmap.None,
		transactedCol: colmap.None,
	}

	t.Run("preset wins", func(t *testing.T) {
		opts := base
		opts.presetName = "chase"
		opts.amountCol = 9
		fieldMap, factor, err := resolveMapping(cfg, opts, header)
		require.NoError(t, err)
		assert.Equal(t, colmap.FieldMap{Amount: 3, Description: 2, ClearedAt: 0, TransactedAt: 1}, fieldMap)
		assert.Equal(t, money.FactorNegative, factor)
	})

	t.Run("unknown preset", func(t *testing.T) {
		opts := base
		opts.presetName = "nope"
		_, _, err := resolveMapping(cfg, opts, header)
		require.Error(t, err)
	})

	t.Run("explicit flags override guesses", func(t *testing.T) {
		opts := base
		opts.amountCol = 1
		opts.sign = -100
		fieldMap, factor, err := resolveMapping(cfg, opts, header)
		require.NoError(t, err)
		assert.Equal(t, 1, fieldMap.Amount)
		assert.Equal(t, 1, fieldMap.Description, "unset flags keep the header guess")
		assert.Equal(t, 0, fieldMap.ClearedAt)
		assert.Equal(t, money.FactorNegative, factor)
	})

	t.Run("guesses plus config default sign", func(t *testing.T) {
		fieldMap, factor, err := resolveMapping(cfg, base, header)
		require.NoError(t, err)
		assert.Equal(t, colmap.FieldMap{Amount: 2, Description: 1, ClearedAt: 0, TransactedAt: colmap.None}, fieldMap)
		assert.Equal(t, money.FactorPositive, factor)
	})
}
