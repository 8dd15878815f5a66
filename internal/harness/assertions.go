package harness

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/ordergraph/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes the verdict log to help debug the failure.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Verdicts []store.Verdict // Recorded verdicts for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nVerdict log:\n")
	for _, v := range e.Verdicts {
		outcome := "valid"
		if !v.Valid {
			outcome = v.ErrorKind
		}
		fmt.Fprintf(&buf, "  [%d] %s order=%s %s\n", v.Seq, v.Kind, v.OrderID, outcome)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. recorded is the verdict log read back from the audit store.
func EvaluateAssertions(result *Result, recorded []store.Verdict, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, recorded, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, recorded []store.Verdict, a Assertion) error {
	var actual int
	switch a.Type {
	case AssertVerdictCount:
		actual = len(recorded)
	case AssertRejectedCount:
		actual = lo.CountBy(recorded, func(v store.Verdict) bool { return !v.Valid })
	case AssertCacheHits:
		actual = int(result.CacheHits)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}

	if actual == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d", a.Count),
		Actual:   fmt.Sprintf("%d", actual),
		Verdicts: recorded,
	}
}
