package store

import (
	"context"
	"database/sql"
	"fmt"
)

const verdictColumns = `run_id, seq, source, order_id, kind, fingerprint, item_count, valid,
	error_kind, error_item, error_target, message, max_steps, cached`

// ReadVerdicts returns the most recent limit verdicts in seq order.
// A limit of zero or less returns the whole log.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ReadVerdicts(ctx context.Context, limit int) ([]Verdict, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+verdictColumns+` FROM (
				SELECT * FROM verdicts
				ORDER BY seq DESC, run_id COLLATE BINARY DESC
				LIMIT ?
			)
			ORDER BY seq ASC, run_id COLLATE BINARY ASC
		`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+verdictColumns+` FROM verdicts
			ORDER BY seq ASC, run_id COLLATE BINARY ASC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("read verdicts: %w", err)
	}
	return collectVerdicts(rows)
}

// ReadVerdictsByFingerprint returns every verdict recorded for a document
// fingerprint in seq order.
func (s *Store) ReadVerdictsByFingerprint(ctx context.Context, fingerprint string) ([]Verdict, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+verdictColumns+` FROM verdicts
		WHERE fingerprint = ?
		ORDER BY seq ASC, run_id COLLATE BINARY ASC
	`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("read verdicts by fingerprint: %w", err)
	}
	return collectVerdicts(rows)
}

func collectVerdicts(rows *sql.Rows) ([]Verdict, error) {
	defer rows.Close()

	verdicts := []Verdict{}
	for rows.Next() {
		v, err := scanVerdict(rows)
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}
	return verdicts, nil
}

func scanVerdict(rows *sql.Rows) (Verdict, error) {
	var (
		v             Verdict
		valid, cached int
	)
	err := rows.Scan(
		&v.RunID,
		&v.Seq,
		&v.Source,
		&v.OrderID,
		&v.Kind,
		&v.Fingerprint,
		&v.ItemCount,
		&valid,
		&v.ErrorKind,
		&v.ErrorItem,
		&v.ErrorTarget,
		&v.Message,
		&v.MaxSteps,
		&cached,
	)
	if err != nil {
		return Verdict{}, fmt.Errorf("scan verdict: %w", err)
	}
	v.Valid = valid == 1
	v.Cached = cached == 1
	return v, nil
}
