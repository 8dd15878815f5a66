package harness

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ordergraph/internal/gate"
	"github.com/roach88/ordergraph/internal/intake"
	"github.com/roach88/ordergraph/internal/store"
	"github.com/roach88/ordergraph/internal/testutil"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Verdicts are the gate's verdicts in step order.
	Verdicts []store.Verdict `json:"verdicts"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// CacheHits counts steps served from the verdict cache.
	CacheHits uint64 `json:"cache_hits"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Verdicts: []store.Verdict{},
		Errors:   []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory audit store and a fresh gate,
// so results are reproducible. Errors are returned for problems running the
// scenario (unreadable documents, store failures); failed expectations are
// reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	g, err := gate.New(st,
		gate.WithIDGenerator(testutil.NewSequentialRunIDs(scenario.RunPrefix)),
		gate.WithMaxSteps(scenario.MaxSteps),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gate: %w", err)
	}
	defer g.Close()

	result := NewResult()
	for i, step := range scenario.Steps {
		doc, err := loadStep(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}

		v, err := g.Check(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		result.Verdicts = append(result.Verdicts, *v)

		if step.Expect != nil {
			for _, msg := range checkExpect(i, step.Expect, v) {
				result.AddError(msg)
			}
		}
	}
	result.CacheHits = g.CacheHits()

	recorded, err := st.ReadVerdicts(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, msg := range EvaluateAssertions(result, recorded, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// loadStep decodes the step's document. File steps keep the path as
// written in the scenario as their source, so golden files do not depend
// on the working directory.
func loadStep(step Step) (*intake.Document, error) {
	if step.Order != nil {
		data, err := yaml.Marshal(step.Order)
		if err != nil {
			return nil, fmt.Errorf("inline order: %w", err)
		}
		return intake.Decode(data, intake.FormatYAML)
	}

	doc, err := intake.LoadFile(step.path)
	if err != nil {
		return nil, err
	}
	doc.Source = step.Document
	return doc, nil
}

// checkExpect compares a verdict with its expect clause.
func checkExpect(index int, want *ExpectClause, got *gate.Verdict) []string {
	var errs []string
	if got.Valid != want.Valid {
		detail := "accepted"
		if !got.Valid {
			detail = got.Message
		}
		errs = append(errs, fmt.Sprintf("steps[%d]: expected valid=%t, got valid=%t (%s)",
			index, want.Valid, got.Valid, detail))
	}
	if want.ErrorKind != "" && want.ErrorKind != got.ErrorKind {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected error_kind %s, got %q",
			index, want.ErrorKind, got.ErrorKind))
	}
	if want.Item != "" && want.Item != got.ErrorItem {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected item %q, got %q",
			index, want.Item, got.ErrorItem))
	}
	if want.Target != "" && want.Target != got.ErrorTarget {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected target %q, got %q",
			index, want.Target, got.ErrorTarget))
	}
	if want.Cached != nil && *want.Cached != got.Cached {
		errs = append(errs, fmt.Sprintf("steps[%d]: expected cached=%t, got cached=%t",
			index, *want.Cached, got.Cached))
	}
	return errs
}
