package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/moor/internal/app"
	"go.trai.ch/moor/internal/core/domain"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the workspace's dependencies through its repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refresh, _ := cmd.Flags().GetBool("refresh")
			watch, _ := cmd.Flags().GetBool("watch")
			format, _ := cmd.Flags().GetString("output")
			mode, _ := cmd.Flags().GetString("mode")
			ci, _ := cmd.Flags().GetBool("ci")
			lockPath, _ := cmd.Flags().GetString("lock")

			// If --ci is set, override mode to "plain"
			if ci {
				mode = "plain"
			}

			return c.app.Resolve(cmd.Context(), app.ResolveOptions{
				Refresh:  refresh,
				Watch:    watch,
				Output:   format,
				Mode:     mode,
				LockPath: lockPath,
			})
		},
	}

	cmd.Flags().BoolP("refresh", "r", false, "Ignore cached revisions and consult every repository")
	cmd.Flags().BoolP("watch", "w", false, "Stay alive and re-resolve when the workspace changes")
	cmd.Flags().StringP("output", "o", "text", "Report format: text or json")
	cmd.Flags().String("mode", "auto", "Report style: auto, pretty, or plain")
	cmd.Flags().Bool("ci", false, "Use plain report style (shorthand for --mode=plain)")
	cmd.Flags().String("lock", "", "Write resolved revisions to the given lock file")
	// A bare --lock picks the conventional file name.
	cmd.Flags().Lookup("lock").NoOptDefVal = domain.LockFileName

	return cmd
}
