package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/moor/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached resolution state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			meta, _ := cmd.Flags().GetBool("meta")

			opts := app.CleanOptions{}
			switch {
			case meta:
				opts.Meta = true
			default:
				// Default behavior: remove the whole revision cache
				opts.Cache = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("meta", "m", false, "Remove only cached repository metadata")

	return cmd
}
