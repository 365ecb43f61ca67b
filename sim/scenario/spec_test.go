package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprint-sim/sprint-sim/sim/internal/testutil"
)

const minimalScenario = `
seed: 7
project: MS
board: Development Board
sprints:
  - name: Sprint 1
    duration: 10
issues:
  - summary: Task 24
    estimate: 4h
    sprint: Sprint 1
`

func TestDecode_AppliesDefaults(t *testing.T) {
	spec, err := Decode(strings.NewReader(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, spec.Version)
	assert.Equal(t, int64(7), spec.Seed)
	require.Len(t, spec.Issues, 1)
	iss := spec.Issues[0]
	assert.Equal(t, DefaultIssueType, iss.Type)
	testutil.AssertFloat64Equal(t, "complexity", DefaultComplexity, iss.Complexity, 1e-12)
	assert.Equal(t, int64(DefaultInterval), iss.Work.Interval)
	assert.Equal(t, DefaultMaxPerPeriod, iss.Work.MaxPerPeriod)
	assert.True(t, spec.CarryOverEnabled())
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(minimalScenario + "assignee: bob\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assignee")
}

func TestDecode_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		wantErr string
	}{
		{"bad estimate", [2]string{"estimate: 4h", "estimate: 4 hours"}, "issues[0]"},
		{"unknown sprint", [2]string{"sprint: Sprint 1", "sprint: Sprint 9"}, "unknown sprint"},
		{"negative duration", [2]string{"duration: 10", "duration: -1"}, "duration"},
		{"missing project", [2]string{"project: MS", "project: \"\""}, "project is required"},
		{"bad version", [2]string{"seed: 7", "seed: 7\nversion: \"2\""}, "unsupported scenario version"},
		{"negative complexity", [2]string{"estimate: 4h", "estimate: 4h\n    complexity: -1"}, "complexity"},
		{"overflowing estimate", [2]string{"estimate: 4h", "estimate: 1000h\n    complexity: 1e12"}, "overflows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(minimalScenario, tt.replace[0], tt.replace[1], 1)
			_, err := Decode(strings.NewReader(doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_SprintBudget(t *testing.T) {
	spec := Default()
	spec.Sprints = append(spec.Sprints, SprintSpec{Name: "Sprint 2", Duration: 10})
	spec.MaxSprints = 1
	assert.ErrorContains(t, spec.Validate(), "max_sprints")

	spec.MaxSprints = 2
	assert.NoError(t, spec.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0o644))

	spec, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Development Board", spec.Board)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading scenario")
}

func TestEncode_DecodesBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Encode(&buf))

	spec, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default(), spec)
}

func TestPlan(t *testing.T) {
	plan, err := Default().Plan()
	require.NoError(t, err)

	assert.Equal(t, "Development Board", plan.Board)
	require.Len(t, plan.Sprints, 1)
	assert.Equal(t, int64(10), plan.Sprints[0].Duration)
	require.Len(t, plan.Issues, 2)

	second := plan.Issues[1]
	assert.Equal(t, "MS", second.Project)
	assert.Equal(t, 20*time.Hour, second.Estimate)
	assert.Equal(t, 3*time.Hour, second.MaxPerPeriod)
	assert.Equal(t, int64(2), second.TestingDelay)
	assert.Equal(t, "Sprint 1", second.Sprint)
}

func TestConfig(t *testing.T) {
	spec := Default()
	cfg := spec.Config()
	assert.True(t, cfg.CarryOver)
	assert.Equal(t, int64(42), cfg.Seed)

	off := false
	spec.CarryOver = &off
	spec.Horizon = 25
	spec.MaxSprints = 3
	cfg = spec.Config()
	assert.False(t, cfg.CarryOver)
	assert.Equal(t, int64(25), cfg.Horizon)
	assert.Equal(t, 3, cfg.MaxSprints)
}

func TestWithSeed_DoesNotMutate(t *testing.T) {
	spec := Default()
	other := spec.WithSeed(99)
	assert.Equal(t, int64(99), other.Seed)
	assert.Equal(t, int64(42), spec.Seed)
}
