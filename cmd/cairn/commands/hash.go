package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

var errStaleHashes = zerr.New("file hash cache holds stale entries")

func (c *CLI) newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <paths...>",
		Short: "Print the content hashes of project-relative paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.open(cmd)
			if err != nil {
				return err
			}
			reports, err := session.Hash(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range reports {
				_, _ = fmt.Fprintf(out, "%s %s %d\n", r.Hash, r.Path, r.Size)
				if len(r.Members) > 0 {
					_, _ = fmt.Fprintf(out, "    members: %s\n", strings.Join(r.Members, ", "))
				}
			}
			return nil
		},
	}
}

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Key every rule, then check the file hash cache against the disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := c.open(cmd)
			if err != nil {
				return err
			}
			result, err := session.Verify(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "examined %d entries, %d stale\n", result.Examined, len(result.Mismatches))
			if len(result.Mismatches) > 0 {
				return zerr.With(errStaleHashes, "paths", strings.Join(result.Mismatches, ", "))
			}
			return nil
		},
	}
}
