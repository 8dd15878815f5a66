// Package graph validates order item dependency graphs.
//
// An order is a flat list of items. Each item points at other items of the
// same order through relationships, which makes the order a directed graph:
// nodes are item ids, edges run from an item to each relationship target.
//
// Validate runs four stages in a fixed order and returns the first failure:
//
//  1. CheckStart: some item has no relationships, so the flow can begin
//  2. CheckEnd: some item is referenced by no other item, so the flow can finish
//  3. CheckReferences: every relationship target exists in the order
//  4. CheckCycles: no item reaches itself by following relationships
//
// The stage order decides which error an order with several defects gets,
// so it must not change. References are resolved before cycles are searched,
// which lets the cycle walk assume every target exists.
//
// The package is generic over Node, a two-method capability interface, so the
// same validator serves every order shape. It does no I/O, keeps no state
// between calls and never logs; a call is a pure function of its input.
package graph
