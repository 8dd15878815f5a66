package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ordergraph/internal/order"
	"github.com/roach88/ordergraph/internal/store"
)

// VerdictSnapshot captures the verdict log of a scenario execution.
type VerdictSnapshot struct {
	ScenarioName string          `json:"scenario_name"`
	Verdicts     []store.Verdict `json:"verdicts"`
}

// Snapshot returns the canonical JSON of a scenario's verdict log, the
// content of its golden file.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	return order.MarshalCanonical(VerdictSnapshot{
		ScenarioName: scenarioName,
		Verdicts:     result.Verdicts,
	})
}

// RunWithGolden executes a scenario and compares the verdict log against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the log doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

// GoldenStatus describes how a verdict log compared to its golden file.
type GoldenStatus string

const (
	GoldenMissing  GoldenStatus = "missing"
	GoldenMatch    GoldenStatus = "match"
	GoldenMismatch GoldenStatus = "mismatch"
	GoldenUpdated  GoldenStatus = "updated"
)

// GoldenPath returns golden/<name>.golden next to a scenario file.
func GoldenPath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// CompareGoldenFile compares the verdict log of result with the golden file
// at path. With update set the file is rewritten instead. A missing golden
// file is not an error.
func CompareGoldenFile(path, scenarioName string, result *Result, update bool) (GoldenStatus, error) {
	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", scenarioName, err)
	}

	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("create golden directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("write golden file: %w", err)
		}
		return GoldenUpdated, nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return GoldenMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, data) {
		return GoldenMismatch, nil
	}
	return GoldenMatch, nil
}
