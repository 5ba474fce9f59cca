package harness

import (
	"fmt"
	"slices"
)

// Assert checks every scenario assertion against the run result and
// returns one error per failed assertion.
func Assert(scenario *Scenario, result *Result) []error {
	var failures []error
	for i, a := range scenario.Assertions {
		if err := assertOne(a, result); err != nil {
			failures = append(failures, fmt.Errorf("assertion %d (%s): %w", i+1, a.Type, err))
		}
	}
	return failures
}

func assertOne(a Assertion, r *Result) error {
	switch a.Type {
	case "event_count":
		if got := len(r.Final.Events); got != a.Count {
			return fmt.Errorf("want %d events, got %d", a.Count, got)
		}
	case "pending_count":
		if r.Pending != a.Count {
			return fmt.Errorf("want %d pending actions, got %d", a.Count, r.Pending)
		}
	case "event_title":
		if a.Index < 0 || a.Index >= len(r.Final.Events) {
			return fmt.Errorf("no event at index %d", a.Index)
		}
		if got := r.Final.Events[a.Index].Title; got != a.Want {
			return fmt.Errorf("want title %q at index %d, got %q", a.Want, a.Index, got)
		}
	case "tag_present":
		if !slices.Contains(r.Final.Tags, a.Name) {
			return fmt.Errorf("tag %q not present in %v", a.Name, r.Final.Tags)
		}
	case "tag_absent":
		if slices.Contains(r.Final.Tags, a.Name) {
			return fmt.Errorf("tag %q unexpectedly present", a.Name)
		}
	case "mode":
		if got := r.Mode.String(); got != a.Want {
			return fmt.Errorf("want mode %s, got %s", a.Want, got)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
