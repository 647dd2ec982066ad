package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "List the workspace's dependencies after merging duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Deps(cmd.Context())
		},
	}
}
