package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show the active database, mode, and pending changes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			snap := c.Snapshot()
			out := rootOpts.formatter(cmd)
			if rootOpts.Format == "json" {
				return out.Success(map[string]interface{}{
					"active":  c.ActiveDatabase(),
					"mode":    c.Mode().String(),
					"pending": c.PendingActions(),
					"events":  len(snap.Events),
					"tags":    len(snap.Tags),
				})
			}
			fmt.Fprintf(out.Writer, "database: %s\n", c.ActiveDatabase())
			fmt.Fprintf(out.Writer, "mode:     %s\n", c.Mode())
			fmt.Fprintf(out.Writer, "events:   %d\n", len(snap.Events))
			fmt.Fprintf(out.Writer, "tags:     %d\n", len(snap.Tags))
			if n := c.PendingActions(); n > 0 {
				fmt.Fprintf(out.Writer, "pending:  %d unsynced changes\n", n)
			}
			return nil
		},
	}
	return cmd
}
