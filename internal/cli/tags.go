package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trailhead-app/trailhead/internal/action"
)

// NewTagsCommand creates the tags command group.
func NewTagsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List and edit tags",
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List all tags in the active database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			tags := c.Snapshot().Tags
			out := rootOpts.formatter(cmd)
			if rootOpts.Format == "json" {
				return out.Success(tags)
			}
			if len(tags) == 0 {
				fmt.Fprintln(out.Writer, "no tags")
				return nil
			}
			fmt.Fprintln(out.Writer, strings.Join(tags, "\n"))
			return nil
		},
	}

	add := &cobra.Command{
		Use:           "add <name>",
		Short:         "Add a tag",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			if err := c.Submit(action.AddTag{Name: args[0]}); err != nil {
				return coreError(err)
			}
			return rootOpts.formatter(cmd).Success("added " + args[0])
		},
	}

	rm := &cobra.Command{
		Use:           "rm <name>...",
		Short:         "Delete tags, stripping them from every event",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			if !rootOpts.Yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "delete tags "+strings.Join(args, ", ")) {
				return NewExitError(ExitCommandError, "aborted")
			}
			if err := c.Submit(action.DeleteTags{Names: args}); err != nil {
				return coreError(err)
			}
			return rootOpts.formatter(cmd).Success(fmt.Sprintf("deleted %d tags", len(args)))
		},
	}

	rename := &cobra.Command{
		Use:           "rename <old> <new>",
		Short:         "Rename a tag everywhere it appears",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			if err := c.Submit(action.RenameTag{Old: args[0], New: args[1]}); err != nil {
				return coreError(err)
			}
			return rootOpts.formatter(cmd).Success(args[0] + " -> " + args[1])
		},
	}

	reorder := &cobra.Command{
		Use:           "reorder <name>...",
		Short:         "Set the tag display order",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, shutdown, err := rootOpts.buildCore(cmd)
			if err != nil {
				return err
			}
			defer shutdown()

			if err := c.Submit(action.ReorderTags{Names: args}); err != nil {
				return coreError(err)
			}
			return rootOpts.formatter(cmd).Success("reordered")
		},
	}

	cmd.AddCommand(list, add, rm, rename, reorder)
	return cmd
}
