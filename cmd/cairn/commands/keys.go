package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/cairn/internal/app"
)

func (c *CLI) newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys [targets...]",
		Short: "Compute rule keys and compare them with the last recorded builds",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			explain, _ := cmd.Flags().GetBool("explain")
			stats, _ := cmd.Flags().GetBool("stats")

			session, err := c.open(cmd)
			if err != nil {
				return err
			}
			reports, err := session.Keys(cmd.Context(), args, app.KeysOptions{Explain: explain})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printReports(out, reports, explain)
			if stats {
				counters, err := c.app.Counters(cmd.Context())
				if err != nil {
					return err
				}
				for _, counter := range counters {
					_, _ = fmt.Fprintf(out, "%s %d\n", counter.Name, counter.Value)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("explain", "e", false, "Print the fields folded into each key")
	cmd.Flags().Bool("stats", false, "Print cache statistics")
	return cmd
}

func printReports(out io.Writer, reports []app.KeyReport, explain bool) {
	for _, r := range reports {
		line := fmt.Sprintf("%-12s %s %s", r.Status, r.Key, r.Target)
		if !r.DepFileKey.IsZero() {
			line += " dep_file=" + r.DepFileKey.String()
		}
		if r.Err != nil {
			line += " (" + r.Err.Error() + ")"
		}
		_, _ = fmt.Fprintln(out, line)
		if explain {
			for field := range strings.Lines(r.Key.Explain()) {
				_, _ = fmt.Fprint(out, "    ", field)
			}
		}
	}
}
