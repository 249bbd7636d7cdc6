package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible-dev/centsible/internal/model"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := NewMemory()
	first := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	account, err := s.CreateAccount(ctx, model.NewAccount{
		Title:              "Checking",
		Type:               model.AccountTypeChecking,
		AccentColor:        "#336699",
		DateFirstAvailable: &first,
	})
	require.NoError(t, err)
	merchant, err := s.CreateMerchant(ctx, model.NewMerchant{Title: "Costco", Description: "Warehouse club"})
	require.NoError(t, err)

	transacted := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = s.BulkCreateTransactions(ctx, []model.TransactionDraft{
		{AccountID: account.ID, MerchantID: merchant.ID, Amount: 161, Description: "COSTCO WHSE #1001", PostedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), TransactedAt: &transacted},
		{AccountID: account.ID, MerchantID: merchant.ID, Amount: -2500, Description: "COSTCO GAS", PostedAt: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	require.NoError(t, s.Save(dir))
	for _, name := range []string{AccountsFile, MerchantsFile, TransactionsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	loaded, err := Load(dir)
	require.NoError(t, err)

	accounts, err := loaded.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, account.ID, accounts[0].ID)
	assert.Equal(t, "Checking", accounts[0].Title)
	assert.Equal(t, model.AccountTypeChecking, accounts[0].Type)
	assert.Equal(t, "#336699", accounts[0].AccentColor)
	require.NotNil(t, accounts[0].DateFirstAvailable)
	assert.True(t, accounts[0].DateFirstAvailable.Equal(first))

	merchants, err := loaded.ListMerchants(ctx)
	require.NoError(t, err)
	require.Len(t, merchants, 1)
	assert.Equal(t, merchant.ID, merchants[0].ID)
	assert.Equal(t, "Warehouse club", merchants[0].Description)

	txns, err := loaded.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, int64(161), txns[0].Amount)
	require.NotNil(t, txns[0].TransactedAt)
	assert.True(t, txns[0].TransactedAt.Equal(transacted))
	assert.Nil(t, txns[1].TransactedAt)
}

func TestLoad_MissingFilesYieldEmptyStore(t *testing.T) {
	ctx := context.Background()

	s, err := Load(t.TempDir())
	require.NoError(t, err)

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	merchants, err := s.ListMerchants(ctx)
	require.NoError(t, err)
	assert.Empty(t, merchants)

	txns, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestLoad_RejectsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	data := "merchant_id,title,description,created_at\nabc,Costco,,not-a-time\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, MerchantsFile), []byte(data), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading merchants")
}

func TestReadMerchants_EmptyFile(t *testing.T) {
	merchants, err := ReadMerchants(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, merchants)
}

func TestUnmarshalAccount_FieldCount(t *testing.T) {
	_, err := UnmarshalAccount([]string{"id", "title"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 6 fields")
}
