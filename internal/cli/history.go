package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/ordergraph/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit       int
	Fingerprint string
}

// HistoryResult holds the verdicts listed by the history command.
type HistoryResult struct {
	Database string          `json:"database"`
	Verdicts []store.Verdict `json:"verdicts"`
	Total    int             `json:"total"`
	Rejected int             `json:"rejected"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded verdicts",
		Long: `List the verdicts recorded in the audit database, oldest first.

Exit codes:
  0 - Success
  2 - Command error (no database configured, database not found, etc.)

Examples:
  ordergraph history --db ./audit.db
  ordergraph history --db ./audit.db --limit 5
  ordergraph history --db ./audit.db --fingerprint 8a2d8c1b... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "show only the most recent N verdicts (0 for all)")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "show only verdicts for this document fingerprint")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Database == "" {
		_ = formatter.Error(ErrCodeStore, "no audit database configured (use --db or ORDERGRAPH_DB)", nil)
		return NewExitError(ExitCommandError, "no audit database configured")
	}
	// Open would create a missing database; history only reads.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var verdicts []store.Verdict
	if opts.Fingerprint != "" {
		verdicts, err = st.ReadVerdictsByFingerprint(ctx, opts.Fingerprint)
		if err == nil && opts.Limit > 0 && len(verdicts) > opts.Limit {
			verdicts = verdicts[len(verdicts)-opts.Limit:]
		}
	} else {
		verdicts, err = st.ReadVerdicts(ctx, opts.Limit)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read verdicts", err)
	}

	result := HistoryResult{
		Database: opts.Database,
		Verdicts: verdicts,
		Total:    len(verdicts),
		Rejected: lo.CountBy(verdicts, func(v store.Verdict) bool { return !v.Valid }),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return outputHistoryText(formatter, result)
}

// outputHistoryText prints one row per verdict.
func outputHistoryText(formatter *OutputFormatter, result HistoryResult) error {
	w := formatter.Writer

	if result.Total == 0 {
		fmt.Fprintf(w, "No verdicts recorded in %s\n", result.Database)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tKIND\tORDER\tITEMS\tRESULT\tSOURCE")
	for _, v := range result.Verdicts {
		outcome := describeOutcome(v.Valid, v.ErrorKind, v.ErrorItem, v.Cached)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			v.Seq, truncateID(v.RunID), v.Kind, orDash(v.OrderID), v.ItemCount, outcome, orDash(v.Source))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "History: %d verdict(s), %d rejected\n", result.Total, result.Rejected)
	return nil
}

// describeOutcome renders a verdict as "valid" or "KIND item", marking
// verdicts served from the cache.
func describeOutcome(valid bool, kind, item string, cached bool) string {
	out := "valid"
	if !valid {
		out = kind
		if item != "" {
			out += " " + item
		}
	}
	if cached {
		out += " (cached)"
	}
	return out
}

// truncateID shortens a run id for display.
func truncateID(id string) string {
	if len(id) > 13 {
		return id[:13]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
