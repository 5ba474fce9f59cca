package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden loads a scenario, runs it in a fresh temp directory, checks
// its assertions, and compares the trace against the golden file at
// testdata/golden/{name}.golden.
//
// Regenerate goldens with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenarioPath string) *Result {
	t.Helper()

	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	result, err := Run(scenario, t.TempDir())
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}

	for _, failure := range Assert(scenario, result) {
		t.Error(failure)
	}

	trace, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		t.Fatalf("marshal trace: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, trace)
	return result
}
