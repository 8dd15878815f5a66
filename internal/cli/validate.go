package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ordergraph/internal/config"
	"github.com/roach88/ordergraph/internal/gate"
	"github.com/roach88/ordergraph/internal/graph"
	"github.com/roach88/ordergraph/internal/intake"
	"github.com/roach88/ordergraph/internal/store"
)

// DocumentResult is the outcome for one file passed to validate.
type DocumentResult struct {
	File    string        `json:"file"`
	Verdict *gate.Verdict `json:"verdict,omitempty"`
	Error   *CLIError     `json:"error,omitempty"`
	Items   int           `json:"-"`
	Kind    intake.Kind   `json:"-"`
	OrderID string        `json:"-"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool             `json:"valid"`
	Documents []DocumentResult `json:"documents"`
	Accepted  int              `json:"accepted"`
	Rejected  int              `json:"rejected"`
	Failed    int              `json:"failed"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate order dependency graphs",
		Long: `Validate the item dependency graph of one or more order documents.

Documents may be JSON (.json), YAML (.yaml, .yml) or CUE (.cue) and hold a
generic order (items), a product order (productOrderItem) or a service
order (serviceOrderItem). With --db every verdict is recorded in the audit
database.

Exit codes:
  0 - All documents valid
  1 - One or more documents rejected
  2 - Command error (unreadable file, decode or schema errors, etc.)

Examples:
  ordergraph validate order.json
  ordergraph validate orders/*.yaml --db ./audit.db
  ordergraph validate order.cue --max-steps 5000 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), rootOpts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&maxSteps, "max-steps", graph.DefaultMaxSteps, "cycle walk step budget per order")
	_ = rootOpts.viper.BindPFlag(config.KeyMaxSteps, cmd.Flags().Lookup("max-steps"))

	return cmd
}

func runValidate(ctx context.Context, opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.Config

	g, closeGate, err := openGate(ctx, opts)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open audit database", err)
	}
	defer closeGate()

	formatter.VerboseLog("Checking %d document(s) with max steps %d", len(files), cfg.MaxSteps)

	result := ValidationResult{Documents: make([]DocumentResult, 0, len(files))}
	for _, file := range files {
		res := checkFile(ctx, g, file)
		if res.Verdict != nil {
			formatter.VerboseLog("%s: run %s seq %d fingerprint %s", file,
				res.Verdict.RunID, res.Verdict.Seq, res.Verdict.Fingerprint)
		}
		switch {
		case res.Error != nil && res.Verdict == nil:
			result.Failed++
		case res.Verdict.Valid:
			result.Accepted++
		default:
			result.Rejected++
		}
		result.Documents = append(result.Documents, res)
	}
	result.Valid = result.Rejected == 0 && result.Failed == 0

	if formatter.Format == "json" {
		if err := outputValidateJSON(formatter, result); err != nil {
			return err
		}
	} else {
		outputValidateText(formatter, result)
	}

	switch {
	case result.Failed > 0:
		// Unreadable documents are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("%d document(s) could not be checked", result.Failed))
	case result.Rejected > 0:
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d document(s)", result.Rejected))
	}
	return nil
}

// openGate builds the gate from the resolved config. With a database
// configured, the logical clock resumes after the last recorded verdict.
func openGate(ctx context.Context, opts *RootOptions) (*gate.Gate, func(), error) {
	cfg := opts.Config
	gateOpts := []gate.Option{
		gate.WithMaxSteps(cfg.MaxSteps),
		gate.WithCache(cfg.Cache.Size, cfg.Cache.TTL),
		gate.WithLogger(opts.Logger),
	}
	if opts.ids != nil {
		gateOpts = append(gateOpts, gate.WithIDGenerator(opts.ids))
	}

	var (
		recorder gate.Recorder
		st       *store.Store
	)
	if cfg.DB != "" {
		var err error
		st, err = store.Open(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		seq, err := st.MaxSeq(ctx)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		recorder = st
		gateOpts = append(gateOpts, gate.WithClock(gate.NewClockAt(seq)))
	}

	g, err := gate.New(recorder, gateOpts...)
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, nil, err
	}

	return g, func() {
		g.Close()
		if st != nil {
			st.Close()
		}
	}, nil
}

// checkFile loads and checks one document.
func checkFile(ctx context.Context, g *gate.Gate, file string) DocumentResult {
	res := DocumentResult{File: file}

	doc, err := intake.LoadFile(file)
	if err != nil {
		res.Error = toCLIError(err)
		return res
	}
	res.Kind = doc.Kind
	res.OrderID = doc.OrderID()
	res.Items = doc.ItemCount()

	v, err := g.Check(ctx, doc)
	if err != nil {
		res.Error = &CLIError{Code: ErrCodeCheck, Message: err.Error()}
		return res
	}
	res.Verdict = v
	if !v.Valid {
		res.Error = &CLIError{
			Code:    v.ErrorKind,
			Message: v.Message,
			Details: verdictDetails(v),
		}
	}
	return res
}

func verdictDetails(v *gate.Verdict) any {
	details := map[string]any{}
	if v.ErrorItem != "" {
		details["item_id"] = v.ErrorItem
	}
	if v.ErrorTarget != "" {
		details["target_id"] = v.ErrorTarget
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// outputValidateJSON writes the result as a single CLIResponse.
func outputValidateJSON(formatter *OutputFormatter, result ValidationResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if !result.Valid {
		response.Status = "error"
		for _, doc := range result.Documents {
			if doc.Error != nil {
				response.Error = &CLIError{Code: doc.Error.Code, Message: doc.Error.Message}
				break
			}
		}
	}
	return formatter.Encode(response)
}

// outputValidateText writes one line per document and a summary.
func outputValidateText(formatter *OutputFormatter, result ValidationResult) {
	w := formatter.Writer

	for _, doc := range result.Documents {
		switch {
		case doc.Verdict == nil:
			fmt.Fprintf(w, "✗ %s\n", doc.File)
			fmt.Fprintf(w, "  %s: %s\n", doc.Error.Code, doc.Error.Message)
		case doc.Verdict.Valid:
			fmt.Fprintf(w, "✓ %s (%s)\n", doc.File, describeDocument(doc))
		default:
			fmt.Fprintf(w, "✗ %s (%s)\n", doc.File, describeDocument(doc))
			fmt.Fprintf(w, "  %s\n", doc.Error.Message)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Validation Summary: %d accepted, %d rejected, %d failed, %d total\n",
		result.Accepted, result.Rejected, result.Failed, len(result.Documents))
}

func describeDocument(doc DocumentResult) string {
	desc := string(doc.Kind)
	if doc.OrderID != "" {
		desc += " " + doc.OrderID
	}
	return fmt.Sprintf("%s, %d item(s)", desc, doc.Items)
}
