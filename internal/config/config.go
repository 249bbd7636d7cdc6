// Package config loads and saves the centsible.yaml data directory
// configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/centsible-dev/centsible/internal/colmap"
	"github.com/centsible-dev/centsible/internal/money"
)

// FileName is the config file name inside a data directory.
const FileName = "centsible.yaml"

// Config represents the top-level centsible.yaml configuration.
type Config struct {
	Owner    OwnerConfig    `yaml:"owner"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Presets  []Preset       `yaml:"presets,omitempty"`
	Git      GitConfig      `yaml:"git"`
}

// OwnerConfig identifies the person the data belongs to.
type OwnerConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email,omitempty"`
}

// DefaultsConfig holds fallbacks applied when a preset leaves a value unset.
type DefaultsConfig struct {
	SignFactor int `yaml:"sign_factor"`
}

// Preset is a saved column mapping for a bank's CSV export, so repeat imports
// skip the interactive mapping step.
type Preset struct {
	Name         string `yaml:"name"`
	Amount       int    `yaml:"amount"`
	Description  int    `yaml:"description"`
	ClearedAt    int    `yaml:"cleared_at"`
	TransactedAt *int   `yaml:"transacted_at,omitempty"`
	SignFactor   int    `yaml:"sign_factor,omitempty"` // 0 = use defaults
}

// GitConfig controls git integration for the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// FieldMap converts the preset's column indices to a colmap.FieldMap.
func (p Preset) FieldMap() colmap.FieldMap {
	m := colmap.FieldMap{
		Amount:       p.Amount,
		Description:  p.Description,
		ClearedAt:    p.ClearedAt,
		TransactedAt: colmap.None,
	}
	if p.TransactedAt != nil {
		m.TransactedAt = *p.TransactedAt
	}
	return m
}

// Preset returns the named preset.
func (c *Config) Preset(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// ResolveSignFactor picks the preset's sign factor, falling back to the
// configured default.
func (c *Config) ResolveSignFactor(p Preset) (money.SignFactor, error) {
	n := p.SignFactor
	if n == 0 {
		n = c.Defaults.SignFactor
	}
	return money.ParseSignFactor(n)
}

// Load reads a centsible.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(ownerName string) *Config {
	return &Config{
		Owner: OwnerConfig{
			Name: ownerName,
		},
		Defaults: DefaultsConfig{
			SignFactor: int(money.FactorPositive),
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Centsible",
			AuthorEmail: "bot@centsible.dev",
		},
	}
}
