// Package intake turns order documents on disk into typed order records.
//
// Three document shapes are recognised by their item collection key:
//
//	items             generic order       (order.Order)
//	productOrderItem  product order       (order.ProductOrder)
//	serviceOrderItem  service order       (order.ServiceOrder)
//
// Documents may be written as JSON, YAML or CUE. CUE documents are
// evaluated first, so definitions and references resolve before decoding.
// Every decoded record is checked against its struct tags; a missing item
// id or relationship target is reported as a SchemaError before the graph
// is ever built.
package intake
