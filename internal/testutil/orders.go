package testutil

import (
	"encoding/json"
	"strconv"

	"github.com/roach88/ordergraph/internal/order"
)

// Item builds a generic order item with a "reliesOn" relationship to each
// target.
func Item(id string, targets ...string) order.Item {
	item := order.Item{ID: id}
	for _, target := range targets {
		item.Relationships = append(item.Relationships, order.Relationship{
			RelationshipType: "reliesOn",
			TargetID:         target,
		})
	}
	return item
}

// Order builds a generic order.
func Order(id string, items ...order.Item) *order.Order {
	return &order.Order{ID: id, Items: items}
}

// ComplexOrder builds an order with one independent item plus n items that
// each relate to all of "0" .. "n-1". For n = 1000 the cycle walk exceeds
// the default step budget.
func ComplexOrder(n int) *order.Order {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}

	o := &order.Order{ID: "complex", Items: make([]order.Item, 0, n+1)}
	o.Items = append(o.Items, Item("IndependentStartItem"))
	for _, id := range ids {
		o.Items = append(o.Items, Item(id, ids...))
	}
	return o
}

// JSON marshals v, panicking on error. Test fixtures only.
func JSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
