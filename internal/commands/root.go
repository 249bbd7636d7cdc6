package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/centsible-dev/centsible/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "centsible",
		Short:   "Personal finance tracking from bank CSV exports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	newLogger := func() *log.Logger {
		logger := log.New(os.Stderr)
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		return logger
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(newLogger))
	rootCmd.AddCommand(newLogCommand())

	return rootCmd
}
