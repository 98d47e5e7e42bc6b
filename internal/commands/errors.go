package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gestor-dev/gestor/internal/importlog"
	"github.com/gestor-dev/gestor/internal/report"
)

func newErrorsCommand(opts *rootOptions) *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Show rows skipped while loading or importing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := importlog.Read(opts.cfg.Storage.DataDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No errors logged.")
				return nil
			}
			if last > 0 && len(entries) > last {
				entries = entries[len(entries)-last:]
			}

			cells := make([][]string, 0, len(entries))
			for _, e := range entries {
				cells = append(cells, []string{
					e.Timestamp.Local().Format(time.DateTime),
					e.Source,
					string(e.Kind),
					e.Message,
				})
			}
			fmt.Fprintln(out, report.Table([]string{"When", "Source", "Kind", "Message"}, cells))
			return nil
		},
	}

	cmd.Flags().IntVar(&last, "last", 0, "only the most recent n entries")
	return cmd
}
