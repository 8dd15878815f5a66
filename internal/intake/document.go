package intake

import (
	"fmt"

	"github.com/roach88/ordergraph/internal/graph"
	"github.com/roach88/ordergraph/internal/order"
)

// Kind names the shape of an order document.
type Kind string

const (
	KindOrder        Kind = "order"
	KindProductOrder Kind = "productOrder"
	KindServiceOrder Kind = "serviceOrder"
)

// itemsKey maps each kind to the top-level key holding its items.
var itemsKey = map[Kind]string{
	KindOrder:        "items",
	KindProductOrder: "productOrderItem",
	KindServiceOrder: "serviceOrderItem",
}

// Document is a decoded order of one of the three shapes. Exactly one of
// Order, ProductOrder and ServiceOrder is set, matching Kind.
type Document struct {
	Kind   Kind
	Source string
	Format Format

	Order        *order.Order
	ProductOrder *order.ProductOrder
	ServiceOrder *order.ServiceOrder
}

// OrderID returns the id of the contained order, which may be empty.
func (d *Document) OrderID() string {
	switch d.Kind {
	case KindProductOrder:
		return d.ProductOrder.ID
	case KindServiceOrder:
		return d.ServiceOrder.ID
	default:
		return d.Order.ID
	}
}

// ItemCount returns the number of items in the contained order.
func (d *Document) ItemCount() int {
	switch d.Kind {
	case KindProductOrder:
		return len(d.ProductOrder.ProductOrderItems)
	case KindServiceOrder:
		return len(d.ServiceOrder.ServiceOrderItems)
	default:
		return len(d.Order.Items)
	}
}

// Validate runs the dependency graph checks on the contained order.
func (d *Document) Validate(opts ...graph.Option) error {
	switch d.Kind {
	case KindProductOrder:
		return d.ProductOrder.Validate(opts...)
	case KindServiceOrder:
		return d.ServiceOrder.Validate(opts...)
	default:
		return d.Order.Validate(opts...)
	}
}

// FindItem looks up an item by id. The returned value is the typed item
// record of the document's shape.
func (d *Document) FindItem(id string) (any, error) {
	switch d.Kind {
	case KindProductOrder:
		return d.ProductOrder.FindItem(id)
	case KindServiceOrder:
		return d.ServiceOrder.FindItem(id)
	default:
		return d.Order.FindItem(id)
	}
}

// Fingerprint returns the domain separated content hash of the contained
// order. Documents that differ only in key order or formatting share a
// fingerprint.
func (d *Document) Fingerprint() (string, error) {
	switch d.Kind {
	case KindProductOrder:
		return order.Fingerprint(order.DomainProductOrder, d.ProductOrder)
	case KindServiceOrder:
		return order.Fingerprint(order.DomainServiceOrder, d.ServiceOrder)
	case KindOrder:
		return order.Fingerprint(order.DomainOrder, d.Order)
	default:
		return "", fmt.Errorf("fingerprint: unknown document kind %q", d.Kind)
	}
}

// record returns the typed order for schema checks.
func (d *Document) record() any {
	switch d.Kind {
	case KindProductOrder:
		return d.ProductOrder
	case KindServiceOrder:
		return d.ServiceOrder
	default:
		return d.Order
	}
}
