package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trailhead-app/trailhead/internal/core"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:           "export [file]",
		Short:         "Export the active database as a JSON document",
		Long:          "Export the active database as a JSON document. Queued unsynced changes are included. Writes to stdout unless a file is given.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			data, err := c.ExportJSON()
			if err != nil {
				return WrapExitError(ExitFailure, "export snapshot", err)
			}

			if len(args) == 1 {
				outPath = args[0]
			}
			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
				return WrapExitError(ExitCommandError, "write export file", err)
			}
			rootOpts.formatter(cmd).VerboseLog("exported to %s", outPath)
			return nil
		},
	}
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "import <file>",
		Short:         "Import a JSON document into the active database",
		Long:          "Import a JSON document into the active database. Content merges as a union; every imported record gets a fresh identity.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "read import file", err)
			}

			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			n, err := c.ImportSnapshot(data)
			if core.IsImportInvalid(err) {
				return WrapExitError(ExitFailure, "document rejected", err)
			}
			if err != nil {
				return coreError(err)
			}
			return rootOpts.formatter(cmd).Success(fmt.Sprintf("imported %d events", n))
		},
	}
	return cmd
}
