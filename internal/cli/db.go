package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trailhead-app/trailhead/internal/core"
)

// DBOptions holds flags for the db subcommands.
type DBOptions struct {
	*RootOptions
	Discard bool
}

// NewDBCommand creates the db command group.
func NewDBCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DBOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage local databases",
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List local databases",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDatabases(opts, cmd)
		},
	}

	use := &cobra.Command{
		Use:           "use <name>",
		Short:         "Switch the active database",
		Long:          "Switch the active database. Pending unsynced changes merge into a real target; switching to demo or temporary discards them and asks first.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return useDatabase(opts, cmd, args[0])
		},
	}
	use.Flags().BoolVar(&opts.Discard, "discard", false, "discard unsynced changes if the target cannot absorb them")

	create := &cobra.Command{
		Use:           "create <name>",
		Short:         "Create a new empty database",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := opts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			if err := c.CreateDatabase(args[0]); err != nil {
				return coreError(err)
			}
			return opts.formatter(cmd).Success("created " + args[0])
		},
	}

	rm := &cobra.Command{
		Use:           "rm <name>",
		Short:         "Delete a database and its file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeDatabase(opts, cmd, args[0])
		},
	}

	cmd.AddCommand(list, use, create, rm)
	return cmd
}

func listDatabases(opts *DBOptions, cmd *cobra.Command) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	names, err := c.Databases()
	if err != nil {
		return coreError(err)
	}

	out := opts.formatter(cmd)
	if opts.Format == "json" {
		return out.Success(map[string]interface{}{
			"databases": names,
			"active":    c.ActiveDatabase(),
		})
	}
	active := c.ActiveDatabase()
	for _, name := range names {
		marker := "  "
		if name == active {
			marker = "* "
		}
		fmt.Fprintln(out.Writer, marker+name)
	}
	if active == "" || c.Mode() == core.ModeVolatile {
		fmt.Fprintln(out.Writer, "* "+active+" (not persisted)")
	}
	return nil
}

func useDatabase(opts *DBOptions, cmd *cobra.Command, name string) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	err = c.SwitchDatabase(cmd.Context(), name, opts.Discard)
	if core.IsConfirmRequired(err) && !opts.Discard {
		if opts.Yes || confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "discard unsynced changes") {
			err = c.SwitchDatabase(cmd.Context(), name, true)
		}
	}
	if err != nil {
		return coreError(err)
	}
	return opts.formatter(cmd).Success("active database: " + c.ActiveDatabase())
}

func removeDatabase(opts *DBOptions, cmd *cobra.Command, name string) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	if !opts.Yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "delete database "+name) {
		return NewExitError(ExitCommandError, "aborted")
	}

	err = c.DeleteDatabase(cmd.Context(), name)
	if core.IsBlockedDeletion(err) {
		// Best effort: the file is still held open somewhere. Warn, do
		// not fail the command.
		opts.formatter(cmd).VerboseLog("deletion blocked: %v", err)
		return opts.formatter(cmd).Success("deletion incomplete, database file still in use")
	}
	if err != nil {
		return coreError(err)
	}
	return opts.formatter(cmd).Success("deleted " + name)
}
