package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centsible-dev/centsible/internal/colmap"
	"github.com/centsible-dev/centsible/internal/money"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	transacted := 1
	cfg := Default("Ada")
	cfg.Owner.Email = "ada@example.com"
	cfg.Presets = []Preset{
		{Name: "chase", Amount: 3, Description: 2, ClearedAt: 0, TransactedAt: &transacted, SignFactor: -100},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default("Ada")
	assert.Equal(t, "Ada", cfg.Owner.Name)
	assert.Equal(t, int(money.FactorPositive), cfg.Defaults.SignFactor)
	assert.True(t, cfg.Git.AutoCommit)
	assert.NotEmpty(t, cfg.Git.AuthorName)
	assert.NotEmpty(t, cfg.Git.AuthorEmail)
}

func TestPreset_FieldMap(t *testing.T) {
	p := Preset{Name: "chase", Amount: 3, Description: 2, ClearedAt: 0}
	assert.Equal(t, colmap.FieldMap{Amount: 3, Description: 2, ClearedAt: 0, TransactedAt: colmap.None}, p.FieldMap())

	transacted := 1
	p.TransactedAt = &transacted
	assert.Equal(t, 1, p.FieldMap().TransactedAt)
}

func TestPreset_Lookup(t *testing.T) {
	cfg := Default("Ada")
	cfg.Presets = []Preset{{Name: "chase"}, {Name: "amex"}}

	p, ok := cfg.Preset("amex")
	require.True(t, ok)
	assert.Equal(t, "amex", p.Name)

	_, ok = cfg.Preset("unknown")
	assert.False(t, ok)
}

func TestResolveSignFactor(t *testing.T) {
	cfg := Default("Ada")

	factor, err := cfg.ResolveSignFactor(Preset{SignFactor: -100})
	require.NoError(t, err)
	assert.Equal(t, money.FactorNegative, factor)

	factor, err = cfg.ResolveSignFactor(Preset{})
	require.NoError(t, err)
	assert.Equal(t, money.FactorPositive, factor, "unset preset factor falls back to the default")

	cfg.Defaults.SignFactor = 7
	_, err = cfg.ResolveSignFactor(Preset{})
	require.Error(t, err)
}
