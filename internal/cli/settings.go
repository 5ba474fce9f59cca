package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trailhead-app/trailhead/internal/model"
)

// NewSettingsCommand creates the settings command group. Settings are
// global: they live in the dedicated settings database and apply to every
// data database.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change global settings",
	}

	get := &cobra.Command{
		Use:           "get",
		Short:         "Show the current settings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSettings(rootOpts, cmd)
		},
	}

	set := &cobra.Command{
		Use:           "set <key> <value>",
		Short:         "Change one setting",
		Long:          "Change one setting. Keys: card-density, collapse-images, overview-block-size, developer-mode.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setSetting(rootOpts, cmd, args[0], args[1])
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}

func showSettings(opts *RootOptions, cmd *cobra.Command) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	s := c.Settings()
	out := opts.formatter(cmd)
	if opts.Format == "json" {
		return out.Success(s)
	}
	fmt.Fprintf(out.Writer, "card-density:        %s\n", s.CardDensity)
	fmt.Fprintf(out.Writer, "collapse-images:     %t\n", s.CollapseImages)
	fmt.Fprintf(out.Writer, "overview-block-size: %d\n", s.OverviewBlockSize)
	fmt.Fprintf(out.Writer, "developer-mode:      %t\n", s.DeveloperMode)
	return nil
}

func setSetting(opts *RootOptions, cmd *cobra.Command, key, value string) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	s := c.Settings()
	if err := applySetting(&s, key, value); err != nil {
		return err
	}
	if err := c.UpdateSettings(s); err != nil {
		return coreError(err)
	}
	// shutdown's Close writes the dirty settings before the process exits.
	return opts.formatter(cmd).Success(key + " = " + value)
}

func applySetting(s *model.Settings, key, value string) error {
	switch key {
	case "card-density":
		if value == "" {
			return NewExitError(ExitCommandError, "card-density needs a value")
		}
		s.CardDensity = value
	case "collapse-images":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return NewExitError(ExitCommandError, "collapse-images must be true or false")
		}
		s.CollapseImages = b
	case "overview-block-size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return NewExitError(ExitCommandError, "overview-block-size must be a positive number")
		}
		s.OverviewBlockSize = n
	case "developer-mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return NewExitError(ExitCommandError, "developer-mode must be true or false")
		}
		s.DeveloperMode = b
	default:
		return NewExitError(ExitCommandError, "unknown setting "+key)
	}
	return nil
}
