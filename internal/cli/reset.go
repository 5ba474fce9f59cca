package cli

import (
	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reset",
		Short:         "Delete every database and all settings",
		Long:          "Delete every database and all settings. Irreversible; the next run starts fresh with the tutorial content.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			if !rootOpts.Yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "erase ALL databases and settings") {
				return NewExitError(ExitCommandError, "aborted")
			}
			if err := c.ResetAll(); err != nil {
				return coreError(err)
			}
			return rootOpts.formatter(cmd).Success("all data erased")
		},
	}
	return cmd
}
