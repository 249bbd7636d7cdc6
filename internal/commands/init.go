package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/centsible-dev/centsible/internal/config"
	"github.com/centsible-dev/centsible/internal/gitops"
	"github.com/centsible-dev/centsible/internal/store"
)

func newInitCommand() *cobra.Command {
	var owner string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new centsible data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, owner, noGit)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner name (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git repository initialization")

	return cmd
}

func runInit(dir, owner string, noGit bool) error {
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Write centsible.yaml.
	cfg := config.Default(owner)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write empty CSV stores so the first import starts from valid files.
	if err := store.NewMemory().Save(dir); err != nil {
		return fmt.Errorf("writing stores: %w", err)
	}

	if noGit {
		fmt.Printf("Initialized centsible data directory at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(dir, "init: new centsible data directory", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized centsible data directory at %s (%s)\n", dir, hash)
	return nil
}
