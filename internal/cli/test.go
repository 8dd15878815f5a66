package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/ordergraph/internal/harness"
	"github.com/roach88/ordergraph/internal/store"
)

// Directories next to scenario files that hold fixtures, not scenarios.
var fixtureDirs = []string{"golden", "orders"}

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool
	Filter string
}

// StepVerdict summarizes the verdict of one scenario step.
type StepVerdict struct {
	Seq     int64  `json:"seq"`
	Outcome string `json:"outcome"` // "valid" or the error kind
	Item    string `json:"item,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
}

func (s StepVerdict) String() string {
	return describeOutcome(s.Outcome == "valid", s.Outcome, s.Item, s.Cached)
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name      string        `json:"name"`
	File      string        `json:"file"`
	Pass      bool          `json:"pass"`
	Golden    string        `json:"golden,omitempty"`
	Steps     []StepVerdict `json:"steps,omitempty"`
	CacheHits uint64        `json:"cache_hits"`
	Errors    []string      `json:"errors,omitempty"`
}

func (r ScenarioResult) fail(msg string) ScenarioResult {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
	return r
}

// TestResult aggregates scenario results and the verdicts they produced.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
	Accepted  int              `json:"accepted"`
	Rejected  int              `json:"rejected"`
	Cached    int              `json:"cached"`
}

func (t *TestResult) add(r ScenarioResult) {
	t.Scenarios = append(t.Scenarios, r)
	t.Total++
	if r.Pass {
		t.Passed++
	} else {
		t.Failed++
	}
	for _, s := range r.Steps {
		if s.Outcome == "valid" {
			t.Accepted++
		} else {
			t.Rejected++
		}
		if s.Cached {
			t.Cached++
		}
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run validation scenarios",
		Long: `Run the scenario files found under a directory.

Each scenario checks its orders through a fresh gate and in-memory audit
log, then compares every verdict with the step's expect clause and the
scenario assertions. When golden/<scenario>.golden exists next to the
scenario file, the verdict log must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  ordergraph test ./scenarios
  ordergraph test ./scenarios --filter "cyclic*"
  ordergraph test ./scenarios --update
  ordergraph test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden files from the current verdict logs")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose file name matches this glob")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if _, err := os.Stat(dir); err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}
	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files))}
	for _, file := range files {
		formatter.VerboseLog("Running %s", file)
		result.add(runScenarioFile(file, opts.Update))
	}

	if formatter.Format == "json" {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result)
}

// findScenarioFiles lists the .yaml and .yml files under dir, skipping
// fixture directories. filter is matched against the file name without its
// extension.
func findScenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && slices.Contains(fixtureDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			ok, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenarioFile loads, runs and golden-checks one scenario file.
func runScenarioFile(file string, update bool) ScenarioResult {
	r := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return r.fail(fmt.Sprintf("failed to load scenario: %v", err))
	}
	r.Name = scenario.Name

	run, err := harness.Run(scenario)
	if err != nil {
		return r.fail(fmt.Sprintf("execution failed: %v", err))
	}
	r.Pass = run.Pass
	r.Errors = run.Errors
	r.CacheHits = run.CacheHits
	r.Steps = lo.Map(run.Verdicts, func(v store.Verdict, _ int) StepVerdict {
		outcome := "valid"
		if !v.Valid {
			outcome = v.ErrorKind
		}
		return StepVerdict{Seq: v.Seq, Outcome: outcome, Item: v.ErrorItem, Cached: v.Cached}
	})

	status, err := harness.CompareGoldenFile(harness.GoldenPath(file), scenario.Name, run, update)
	if err != nil {
		return r.fail(err.Error())
	}
	r.Golden = string(status)
	if status == harness.GoldenMismatch {
		return r.fail("verdict log does not match golden file (run with --update to regenerate)")
	}
	return r
}

func outputTestJSON(formatter *OutputFormatter, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}
	if err := formatter.Encode(response); err != nil {
		return err
	}
	return testExit(result)
}

// outputTestText prints one line per scenario with its step verdicts, then
// the failures and a summary.
func outputTestText(formatter *OutputFormatter, result TestResult) error {
	w := formatter.Writer

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	for _, r := range result.Scenarios {
		mark := "✓"
		if !r.Pass {
			mark = "✗"
		}
		steps := strings.Join(lo.Map(r.Steps, func(s StepVerdict, _ int) string { return s.String() }), ", ")
		if steps == "" {
			steps = "no verdicts"
		}
		note := ""
		if r.Golden == string(harness.GoldenUpdated) {
			note = " (golden updated)"
		}
		fmt.Fprintf(w, "%s %s: %s%s\n", mark, r.Name, steps, note)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "    %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Verdicts: %d accepted, %d rejected, %d from cache\n", result.Accepted, result.Rejected, result.Cached)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
	return testExit(result)
}

func testExit(result TestResult) error {
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
