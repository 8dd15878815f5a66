// Package order defines the order records validated by internal/graph.
//
// Three record shapes are supported, each implementing graph.Node:
//   - Order/Item: the generic shape (relationship target in "targetId")
//   - ProductOrder/ProductOrderItem: TMF622, target in the relationship "id"
//   - ServiceOrder/ServiceOrderItem: TMF641, target in "orderItem.itemId"
//
// The shapes share no base type; the validator only needs the two methods of
// graph.Node. All JSON and YAML tags use the camelCase TMF field names.
//
// The package also computes content fingerprints of orders from RFC 8785
// canonical JSON (see canonical.go and fingerprint.go).
package order
