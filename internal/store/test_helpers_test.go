package store

import (
	"fmt"
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestVerdict creates a passing verdict with minimal required fields.
func createTestVerdict(runID string, seq int64, fingerprint string) Verdict {
	return Verdict{
		RunID:       runID,
		Seq:         seq,
		Source:      fmt.Sprintf("orders/%s.json", runID),
		OrderID:     "order-" + runID,
		Kind:        "order",
		Fingerprint: fingerprint,
		ItemCount:   3,
		Valid:       true,
		MaxSteps:    100000,
	}
}
