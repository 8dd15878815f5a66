package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ordergraph/internal/graph"
	"github.com/roach88/ordergraph/internal/intake"
	"github.com/roach88/ordergraph/internal/order"
)

// FindResult is the item located by the find command.
type FindResult struct {
	File    string      `json:"file"`
	Kind    intake.Kind `json:"kind"`
	OrderID string      `json:"order_id,omitempty"`
	Bundle  bool        `json:"bundle"`
	Item    any         `json:"item"`
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <file> <item-id>",
		Short: "Look up an order item by id",
		Long: `Print the order item with the given id.

The lookup does not validate the dependency graph, so it also works on
orders that validate rejects.

Exit codes:
  0 - Item found
  1 - No item with that id (NOT_FOUND)
  2 - Command error (unreadable file, decode or schema errors, etc.)

Examples:
  ordergraph find order.json 200
  ordergraph find product_order.yaml 100-1 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runFind(opts *RootOptions, file, id string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := intake.LoadFile(file)
	if err != nil {
		_ = formatter.Fail(toCLIError(err))
		return WrapExitError(ExitCommandError, "failed to load document", err)
	}

	item, err := doc.FindItem(id)
	if err != nil {
		if !graph.IsKind(err, graph.KindNotFound) {
			return err
		}
		_ = formatter.Fail(toCLIError(err))
		return WrapExitError(ExitFailure, "item not found", err)
	}

	result := FindResult{
		File:    file,
		Kind:    doc.Kind,
		OrderID: doc.OrderID(),
		Item:    item,
	}
	if typed, ok := item.(order.Typed); ok {
		result.Bundle = order.IsBundle(typed)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return outputFindText(formatter, result)
}

// outputFindText prints a header line and the item as indented JSON.
func outputFindText(formatter *OutputFormatter, result FindResult) error {
	w := formatter.Writer

	header := fmt.Sprintf("%s %s", result.Kind, result.OrderID)
	if result.OrderID == "" {
		header = string(result.Kind)
	}
	if result.Bundle {
		header += " (bundle)"
	}
	fmt.Fprintf(w, "Item in %s: %s\n", result.File, header)

	data, err := json.MarshalIndent(result.Item, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format item: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
