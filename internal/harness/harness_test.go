package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordergraph/internal/store"
)

func TestScenarios_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name, "scenario name matches its file")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ExpectMismatch(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong_expectations
description: "Every expectation is wrong"
steps:
  - order:
      items:
        - id: "100"
        - id: "200"
          relationships:
            - targetId: "400"
    expect:
      valid: false
      error_kind: UNRESOLVED_REFERENCE
      item: "100"
      target: "300"
      cached: true
  - order:
      items:
        - id: "x"
    expect:
      valid: false
assertions:
  - type: verdict_count
    count: 5
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Verdicts, 2)
	assert.Equal(t, []string{
		`steps[0]: expected item "100", got "200"`,
		`steps[0]: expected target "300", got "400"`,
		`steps[0]: expected cached=true, got cached=false`,
		`steps[1]: expected valid=false, got valid=true (accepted)`,
	}, result.Errors[:4])
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[4], "Assertion failed: verdict_count")
	assert.Contains(t, result.Errors[4], "Expected: 5")
	assert.Contains(t, result.Errors[4], "Actual: 2")
}

func TestRun_MissingDocumentIsAnError(t *testing.T) {
	scenario := &Scenario{
		Name:        "missing",
		Description: "document vanished after load",
		Steps:       []Step{{Document: "gone.json", path: filepath.Join(t.TempDir(), "gone.json")}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0]")
}

func TestRun_DecodeErrorIsAnError(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: bad_inline
description: "Inline order without an item collection"
steps:
  - order:
      id: "1"
`))
	require.NoError(t, err)

	_, err = Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no item collection found")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: a\ndescription: b\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: b\nsteps: [{order: {items: []}}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: a\nsteps: [{order: {items: []}}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: a\ndescription: b\n",
			wantErr: "steps list is required",
		},
		{
			name:    "both document and order",
			yaml:    "name: a\ndescription: b\nsteps: [{document: x.json, order: {items: []}}]\n",
			wantErr: "exactly one of document or order",
		},
		{
			name:    "valid with error kind",
			yaml:    "name: a\ndescription: b\nsteps: [{order: {items: []}, expect: {valid: true, error_kind: NO_START_NODE}}]\n",
			wantErr: "error_kind is set on a valid expectation",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: a\ndescription: b\nsteps: [{order: {items: []}}]\nassertions: [{type: trace_order}]\n",
			wantErr: `unknown assertion type "trace_order"`,
		},
		{
			name:    "negative count",
			yaml:    "name: a\ndescription: b\nsteps: [{order: {items: []}}]\nassertions: [{type: cache_hits, count: -1}]\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "negative max steps",
			yaml:    "name: a\ndescription: b\nmax_steps: -3\nsteps: [{order: {items: []}}]\n",
			wantErr: "max_steps must be non-negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	writeFile(t, path, "name: a\ndescription: b\nsteps: [{document: orders/none.json}]\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found: orders/none.json")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertRejectedCount,
		Expected: "1",
		Actual:   "0",
		Verdicts: []store.Verdict{
			{Seq: 1, Kind: "order", OrderID: "1", Valid: true},
			{Seq: 2, Kind: "productOrder", OrderID: "2", ErrorKind: "NO_END_NODE"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: rejected_count")
	assert.Contains(t, msg, "[1] order order=1 valid")
	assert.Contains(t, msg, "[2] productOrder order=2 NO_END_NODE")
}

func TestSnapshot_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "endpoints.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Snapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCompareGoldenFile(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "endpoints.yaml"))
	require.NoError(t, err)
	result, err := Run(scenario)
	require.NoError(t, err)

	path := GoldenPath(filepath.Join(t.TempDir(), "endpoints.yaml"))

	status, err := CompareGoldenFile(path, scenario.Name, result, false)
	require.NoError(t, err)
	assert.Equal(t, GoldenMissing, status)

	status, err = CompareGoldenFile(path, scenario.Name, result, true)
	require.NoError(t, err)
	assert.Equal(t, GoldenUpdated, status)

	status, err = CompareGoldenFile(path, scenario.Name, result, false)
	require.NoError(t, err)
	assert.Equal(t, GoldenMatch, status)

	result.Verdicts = result.Verdicts[:len(result.Verdicts)-1]
	status, err = CompareGoldenFile(path, scenario.Name, result, false)
	require.NoError(t, err)
	assert.Equal(t, GoldenMismatch, status)
}

func TestGoldenPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/path/to/scenario.yaml", "/path/to/golden/scenario.golden"},
		{"/path/to/scenario.yml", "/path/to/golden/scenario.golden"},
		{"scenarios/test.yaml", "scenarios/golden/test.golden"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GoldenPath(tt.in))
	}
}
