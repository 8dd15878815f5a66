package store

import (
	"context"
	"fmt"
)

// WriteVerdict appends a verdict to the audit log.
// Uses ON CONFLICT(run_id) DO NOTHING for idempotency - writing the same run
// twice is silently ignored.
func (s *Store) WriteVerdict(ctx context.Context, v Verdict) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verdicts
		(run_id, seq, source, order_id, kind, fingerprint, item_count, valid,
		 error_kind, error_item, error_target, message, max_steps, cached)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		v.RunID,
		v.Seq,
		v.Source,
		v.OrderID,
		v.Kind,
		v.Fingerprint,
		v.ItemCount,
		boolToInt(v.Valid),
		v.ErrorKind,
		v.ErrorItem,
		v.ErrorTarget,
		v.Message,
		v.MaxSteps,
		boolToInt(v.Cached),
	)
	if err != nil {
		return fmt.Errorf("write verdict: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
