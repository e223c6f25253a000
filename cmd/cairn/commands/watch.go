package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/cairn/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Recompute rule keys whenever the project changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, _ := cmd.Flags().GetDuration("debounce")
			explain, _ := cmd.Flags().GetBool("explain")

			session, err := c.open(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			err = session.Watch(cmd.Context(), app.WatchOptions{
				Targets: args,
				Keys:    app.KeysOptions{Explain: explain},
				Window:  window,
			}, func(reports []app.KeyReport, err error) {
				if err != nil {
					c.logger.Error(err)
					return
				}
				_, _ = fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
				printReports(out, reports, explain)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().Duration("debounce", 0, "Coalesce changes for this long before recomputing (default 50ms)")
	cmd.Flags().BoolP("explain", "e", false, "Print the fields folded into each key")
	return cmd
}
