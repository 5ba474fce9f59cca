package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trailhead-app/trailhead/internal/action"
	"github.com/trailhead-app/trailhead/internal/model"
)

// EventsOptions holds flags for the events subcommands.
type EventsOptions struct {
	*RootOptions
	Description string
	Tags        []string
	ImagePath   string

	FilterTag    string
	FilterStatus string // "all" | "active" | "done"
	Search       string
	Sort         string // "created" | "progress"
}

// NewEventsCommand creates the events command group.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List and edit events",
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List events in the active database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listEvents(opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.FilterTag, "tag", "", "only events carrying this tag")
	list.Flags().StringVar(&opts.FilterStatus, "status", "all", "filter by completion (all|active|done)")
	list.Flags().StringVar(&opts.Search, "search", "", "only events whose title or description contains this text")
	list.Flags().StringVar(&opts.Sort, "sort", "created", "result order (created|progress)")

	add := &cobra.Command{
		Use:           "add <title>",
		Short:         "Add a new event",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return addEvent(opts, cmd, args[0])
		},
	}
	add.Flags().StringVar(&opts.Description, "desc", "", "event description")
	add.Flags().StringArrayVar(&opts.Tags, "tag", nil, "tag to attach (repeatable)")
	add.Flags().StringVar(&opts.ImagePath, "image", "", "cover image file")

	rm := &cobra.Command{
		Use:           "rm <event-id>",
		Short:         "Delete an event",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeEvent(opts, cmd, args[0])
		},
	}

	stepAdd := &cobra.Command{
		Use:           "step-add <event-id> <description>",
		Short:         "Append a progress step to an event",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return addStep(opts, cmd, args[0], args[1])
		},
	}

	stepDone := &cobra.Command{
		Use:           "step-done <event-id> <step-id>",
		Short:         "Mark a progress step as completed",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return completeStep(opts, cmd, args[0], args[1])
		},
	}

	cmd.AddCommand(list, add, rm, stepAdd, stepDone)
	return cmd
}

func listEvents(opts *EventsOptions, cmd *cobra.Command) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	events, err := selectEvents(c.Snapshot().Events, opts)
	if err != nil {
		return err
	}

	out := opts.formatter(cmd)
	if opts.Format == "json" {
		return out.Success(events)
	}

	if len(events) == 0 {
		fmt.Fprintln(out.Writer, "no events")
		return nil
	}
	for _, e := range events {
		done := 0
		for _, s := range e.Steps {
			if s.Completed {
				done++
			}
		}
		line := fmt.Sprintf("%s  %s  [%d/%d]", e.ID, e.Title, done, len(e.Steps))
		if len(e.Tags) > 0 {
			line += "  #" + strings.Join(e.Tags, " #")
		}
		fmt.Fprintln(out.Writer, line)
		for _, s := range e.Steps {
			mark := " "
			if s.Completed {
				mark = "x"
			}
			fmt.Fprintf(out.Writer, "  [%s] %s  %s\n", mark, s.ID, s.Description)
		}
	}
	return nil
}

// selectEvents applies the list command's filter and sort flags. An event
// counts as done when it has steps and every one is completed.
func selectEvents(events []model.Event, opts *EventsOptions) ([]model.Event, error) {
	switch opts.FilterStatus {
	case "all", "active", "done":
	default:
		return nil, NewExitError(ExitCommandError, "invalid status "+opts.FilterStatus+": must be all, active, or done")
	}
	switch opts.Sort {
	case "created", "progress":
	default:
		return nil, NewExitError(ExitCommandError, "invalid sort "+opts.Sort+": must be created or progress")
	}

	needle := strings.ToLower(opts.Search)
	kept := make([]model.Event, 0, len(events))
	for _, e := range events {
		if opts.FilterTag != "" && !model.ContainsTag(e.Tags, opts.FilterTag) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) {
			continue
		}
		done := len(e.Steps) > 0 && model.Progress(e) == 1
		if (opts.FilterStatus == "done" && !done) || (opts.FilterStatus == "active" && done) {
			continue
		}
		kept = append(kept, e)
	}

	if opts.Sort == "progress" {
		slices.SortStableFunc(kept, model.ByProgressAsc)
	}
	return kept, nil
}

func addEvent(opts *EventsOptions, cmd *cobra.Command, title string) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	var imageData []byte
	if opts.ImagePath != "" {
		imageData, err = os.ReadFile(opts.ImagePath)
		if err != nil {
			return WrapExitError(ExitCommandError, "read image file", err)
		}
	}

	e := model.Event{
		ID:          c.NewID(),
		Title:       title,
		Description: opts.Description,
		CreatedAt:   c.Now(),
		Tags:        opts.Tags,
	}
	if err := c.Submit(action.AddEvent{Event: e, ImageData: imageData}); err != nil {
		return coreError(err)
	}
	return opts.formatter(cmd).Success(e.ID)
}

func removeEvent(opts *EventsOptions, cmd *cobra.Command, id string) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	i := c.Snapshot().FindEvent(id)
	if i == -1 {
		return NewExitError(ExitCommandError, "no event with id "+id)
	}
	if !opts.Yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "delete event "+id) {
		return NewExitError(ExitCommandError, "aborted")
	}

	if err := c.Submit(action.DeleteEvent{EventID: id}); err != nil {
		return coreError(err)
	}
	return opts.formatter(cmd).Success("deleted " + id)
}

func addStep(opts *EventsOptions, cmd *cobra.Command, eventID, description string) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	snap := c.Snapshot()
	i := snap.FindEvent(eventID)
	if i == -1 {
		return NewExitError(ExitCommandError, "no event with id "+eventID)
	}

	step := model.ProgressStep{ID: c.NewID(), Description: description, Timestamp: c.Now()}
	steps := append(snap.Events[i].Steps, step)
	if err := c.Submit(action.UpdateEventSteps{EventID: eventID, Steps: steps}); err != nil {
		return coreError(err)
	}
	return opts.formatter(cmd).Success(step.ID)
}

func completeStep(opts *EventsOptions, cmd *cobra.Command, eventID, stepID string) error {
	c, shutdown, err := opts.buildCore(cmd)
	if err != nil {
		return err
	}
	defer shutdown()

	snap := c.Snapshot()
	i := snap.FindEvent(eventID)
	if i == -1 {
		return NewExitError(ExitCommandError, "no event with id "+eventID)
	}

	steps := snap.Events[i].Steps
	found := false
	for j := range steps {
		if steps[j].ID == stepID {
			steps[j].Completed = true
			steps[j].Timestamp = c.Now()
			found = true
		}
	}
	if !found {
		return NewExitError(ExitCommandError, "no step with id "+stepID)
	}

	if err := c.Submit(action.UpdateEventSteps{EventID: eventID, Steps: steps}); err != nil {
		return coreError(err)
	}
	return opts.formatter(cmd).Success("completed " + stepID)
}
