package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/cairn/internal/core/domain"
)

func (c *CLI) newDepFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "depfile <target> [inputs...]",
		Short: "Record the inputs a build of target read",
		Long: "Record the inputs a build of target read, as the execution engine does after a build.\n" +
			"Archive members are written as archive!/member.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.open(cmd)
			if err != nil {
				return err
			}
			record, err := session.RecordDepFile(cmd.Context(), args[0], parseEntries(args[1:]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "rule_key %s\n", record.RuleKey)
			if !record.DepFileKey.IsZero() {
				_, _ = fmt.Fprintf(out, "manifest_key %s\n", record.ManifestKey)
				_, _ = fmt.Fprintf(out, "dep_file_key %s\n", record.DepFileKey)
			}
			return nil
		},
	}
}

func parseEntries(args []string) []domain.DependencyFileEntry {
	entries := make([]domain.DependencyFileEntry, 0, len(args))
	for _, arg := range args {
		archive, member, _ := strings.Cut(arg, "!/")
		entries = append(entries, domain.DependencyFileEntry{PathToFile: archive, PathWithinArchive: member})
	}
	return entries
}
