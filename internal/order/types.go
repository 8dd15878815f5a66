package order

import (
	"github.com/samber/lo"

	"github.com/roach88/ordergraph/internal/graph"
)

// RelationshipBundles marks a composition relationship.
const RelationshipBundles = "bundles"

// Relationship is a directed, typed edge from an item to another item.
type Relationship struct {
	RelationshipType string `json:"relationshipType,omitempty" yaml:"relationshipType,omitempty"`
	TargetID         string `json:"targetId" yaml:"targetId" validate:"required"`
}

// Item is one unit of a generic order.
type Item struct {
	ID            string         `json:"id" yaml:"id" validate:"required"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty" validate:"dive"`
}

// Order is a generic order: an id plus its items in declared order.
type Order struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Items []Item `json:"items" yaml:"items" validate:"dive"`
}

// ItemID implements graph.Node.
func (i Item) ItemID() string { return i.ID }

// RelationshipTargetIDs implements graph.Node.
func (i Item) RelationshipTargetIDs() []string {
	return lo.Map(i.Relationships, func(r Relationship, _ int) string { return r.TargetID })
}

// RelationshipTypes returns the type of each relationship in declared order.
func (i Item) RelationshipTypes() []string {
	return lo.Map(i.Relationships, func(r Relationship, _ int) string { return r.RelationshipType })
}

// Validate checks that the order's items form an executable fulfillment plan.
// See graph.Validate for the stages and their order.
func (o *Order) Validate(opts ...graph.Option) error {
	return graph.Validate(o.Items, append([]graph.Option{graph.WithOrderID(o.ID)}, opts...)...)
}

// FindItem returns the item with the given id or a NotFound error.
func (o *Order) FindItem(id string) (Item, error) {
	return graph.FindByID(o.Items, id)
}

// Typed is implemented by every item shape that exposes relationship types.
type Typed interface {
	RelationshipTypes() []string
}

// IsBundle reports whether any relationship of the item is a "bundles"
// relationship, making the item a composition of other items.
func IsBundle(item Typed) bool {
	return lo.Contains(item.RelationshipTypes(), RelationshipBundles)
}
