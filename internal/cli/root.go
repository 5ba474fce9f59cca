// Package cli implements the trailhead command line interface on top of
// the core. Every command builds a core over the configured data
// directory, runs one operation, flushes, and exits.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/trailhead-app/trailhead/internal/config"
	"github.com/trailhead-app/trailhead/internal/core"
	"github.com/trailhead-app/trailhead/internal/store"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Verbose    bool
	Yes        bool // skip confirmation prompts
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the trailhead CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "trailhead",
		Short: "Trailhead - track events and the steps toward them",
		Long:  "Trailhead tracks personal events and goals as step-by-step progress, stored in local databases.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "config file path")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVarP(&opts.Yes, "yes", "y", false, "answer yes to confirmation prompts")

	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewTagsCommand(opts))
	cmd.AddCommand(NewDBCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// formatter builds the output formatter for a command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// buildCore loads the config, starts a core over the data directory, and
// returns it with a shutdown func that flushes and closes. The shutdown
// func must run even when the command fails.
func (o *RootOptions) buildCore(cmd *cobra.Command) (*core.Core, func(), error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "load config", err)
	}

	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	manager := store.NewManager(cfg.DataDir)
	c, err := core.New(manager,
		core.WithLogger(logger),
		core.WithSyncDelay(cfg.SyncDelay()),
	)
	if err != nil {
		manager.CloseAll()
		return nil, nil, WrapExitError(ExitCommandError, "open data directory", err)
	}
	if err := c.Start(cmd.Context()); err != nil {
		c.Close()
		return nil, nil, WrapExitError(ExitCommandError, "load databases", err)
	}

	shutdown := func() {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: close: %v\n", err)
		}
	}
	return c, shutdown, nil
}

// coreError maps a core error to an ExitError with the right exit code,
// preserving the taxonomy code for JSON output.
func coreError(err error) error {
	if err == nil {
		return nil
	}
	code := ExitFailure
	if core.IsNameConflict(err) || core.IsStorageUnavailable(err) || core.IsConfirmRequired(err) {
		code = ExitCommandError
	}
	return WrapExitError(code, "operation failed", err)
}
