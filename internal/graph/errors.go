package graph

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes validation failures.
type ErrorKind string

const (
	// KindNotFound indicates a requested item id is absent from the order.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindNoStartNode indicates every item has at least one relationship.
	KindNoStartNode ErrorKind = "NO_START_NODE"

	// KindNoEndNode indicates every item is referenced by another item.
	KindNoEndNode ErrorKind = "NO_END_NODE"

	// KindUnresolvedReference indicates a relationship targets a missing item.
	KindUnresolvedReference ErrorKind = "UNRESOLVED_REFERENCE"

	// KindCyclicDependency indicates an item transitively depends on itself.
	KindCyclicDependency ErrorKind = "CYCLIC_DEPENDENCY"

	// KindGraphTooComplex indicates the cycle walk ran out of steps.
	// The order is not necessarily invalid, only too large or too densely
	// connected to check within the step budget.
	KindGraphTooComplex ErrorKind = "GRAPH_TOO_COMPLEX"
)

// Sentinel errors, one per kind, for errors.Is checks.
var (
	ErrNotFound            = errors.New("item not found")
	ErrNoStartNode         = errors.New("no start node")
	ErrNoEndNode           = errors.New("no end node")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrCyclicDependency    = errors.New("cyclic dependency")
	ErrGraphTooComplex     = errors.New("graph too complex")
)

var sentinels = map[ErrorKind]error{
	KindNotFound:            ErrNotFound,
	KindNoStartNode:         ErrNoStartNode,
	KindNoEndNode:           ErrNoEndNode,
	KindUnresolvedReference: ErrUnresolvedReference,
	KindCyclicDependency:    ErrCyclicDependency,
	KindGraphTooComplex:     ErrGraphTooComplex,
}

// ValidationError describes the first structural defect found in an order.
//
// Only the fields relevant to Kind are set:
//   - NotFound: ItemID is the requested id
//   - NoStartNode, NoEndNode: OrderID only (when known)
//   - UnresolvedReference: ItemID is the source, TargetID the missing item
//   - CyclicDependency: ItemID is the item found in its own closure
//   - GraphTooComplex: ItemID is the item being walked, Steps and Limit the budget
type ValidationError struct {
	Kind     ErrorKind
	Message  string
	OrderID  string
	ItemID   string
	TargetID string
	Steps    int
	Limit    int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("%s: %s (order=%s)", e.Kind, e.Message, e.OrderID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the sentinel for the error's kind.
func (e *ValidationError) Unwrap() error {
	return sentinels[e.Kind]
}

// KindOf returns the kind of a ValidationError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a ValidationError of the given kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// NewNotFoundError creates a ValidationError for a missing item.
func NewNotFoundError(id string) *ValidationError {
	return &ValidationError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("order item with id %q not found", id),
		ItemID:  id,
	}
}

// NewNoStartNodeError creates a ValidationError for an order without a start item.
func NewNoStartNodeError() *ValidationError {
	return &ValidationError{
		Kind:    KindNoStartNode,
		Message: "no independent start node exists",
	}
}

// NewNoEndNodeError creates a ValidationError for an order without an end item.
func NewNoEndNodeError() *ValidationError {
	return &ValidationError{
		Kind:    KindNoEndNode,
		Message: "no end node exists for the order flow",
	}
}

// NewUnresolvedReferenceError creates a ValidationError for a dangling relationship.
func NewUnresolvedReferenceError(sourceID, targetID string) *ValidationError {
	return &ValidationError{
		Kind:     KindUnresolvedReference,
		Message:  fmt.Sprintf("item %s refers to non-existent item %s", sourceID, targetID),
		ItemID:   sourceID,
		TargetID: targetID,
	}
}

// NewCyclicDependencyError creates a ValidationError for an item in a cycle.
func NewCyclicDependencyError(id string) *ValidationError {
	return &ValidationError{
		Kind:    KindCyclicDependency,
		Message: fmt.Sprintf("there is a cyclic dependency on order item %s", id),
		ItemID:  id,
	}
}

// NewGraphTooComplexError creates a ValidationError for an exhausted step budget.
func NewGraphTooComplexError(id string, steps, limit int) *ValidationError {
	return &ValidationError{
		Kind:    KindGraphTooComplex,
		Message: fmt.Sprintf("very complex order item tree not supported (%d steps > %d limit)", steps, limit),
		ItemID:  id,
		Steps:   steps,
		Limit:   limit,
	}
}
