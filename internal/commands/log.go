package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/centsible-dev/centsible/internal/importlog"
)

func newLogCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the import history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := importlog.Read(dataDir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No imports yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tFILE\tROWS\tCREATED\tSTATUS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					e.Timestamp.Format("2006-01-02 15:04"), e.FileName, e.RowCount, e.Created, e.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", ".", "data directory")

	return cmd
}
