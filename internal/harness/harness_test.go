package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioPath(name string) string {
	return filepath.Join("testdata", "scenarios", name+".yaml")
}

func TestScenario_VolatileAddDelete(t *testing.T) {
	RunWithGolden(t, scenarioPath("volatile_add_delete"))
}

func TestScenario_TagLifecycle(t *testing.T) {
	RunWithGolden(t, scenarioPath("tag_lifecycle"))
}

func TestScenario_QueueReplacement(t *testing.T) {
	RunWithGolden(t, scenarioPath("queue_replacement"))
}

func TestScenario_DemoSession(t *testing.T) {
	RunWithGolden(t, scenarioPath("demo_session"))
}

func TestRun_DeterministicTraces(t *testing.T) {
	scenario, err := LoadScenario(scenarioPath("tag_lifecycle"))
	require.NoError(t, err)

	a, err := Run(scenario, t.TempDir())
	require.NoError(t, err)
	b, err := Run(scenario, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, a.Trace, b.Trace)
	assert.Equal(t, a.Final, b.Final)
}

func TestRun_UnknownOp(t *testing.T) {
	s := &Scenario{Name: "bad", Steps: []Step{{Op: "explode"}}}
	_, err := Run(s, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown op")
}

func TestRun_MissingTarget(t *testing.T) {
	s := &Scenario{Name: "bad", Steps: []Step{{Op: "delete-event", Target: "ghost"}}}
	_, err := Run(s, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no event titled")
}
