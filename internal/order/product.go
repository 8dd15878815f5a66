package order

import (
	"github.com/samber/lo"

	"github.com/roach88/ordergraph/internal/graph"
)

// ProductOrderItemRelationship links a product order item to another item.
// The target item's id is carried in ID.
type ProductOrderItemRelationship struct {
	ID               string `json:"id" yaml:"id" validate:"required"`
	RelationshipType string `json:"relationshipType,omitempty" yaml:"relationshipType,omitempty"`
}

// ProductRef is the product an item orders. Only identity is kept.
type ProductRef struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// ProductOrderItem is an item of a TMF622 product order.
type ProductOrderItem struct {
	ID                            string                         `json:"id" yaml:"id" validate:"required"`
	Action                        string                         `json:"action,omitempty" yaml:"action,omitempty"`
	Quantity                      int64                          `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Product                       *ProductRef                    `json:"product,omitempty" yaml:"product,omitempty"`
	ProductOrderItemRelationships []ProductOrderItemRelationship `json:"productOrderItemRelationship,omitempty" yaml:"productOrderItemRelationship,omitempty" validate:"dive"`
}

// ProductOrder is a TMF622 product order.
type ProductOrder struct {
	ID                string             `json:"id,omitempty" yaml:"id,omitempty"`
	ExternalID        string             `json:"externalId,omitempty" yaml:"externalId,omitempty"`
	ProductOrderItems []ProductOrderItem `json:"productOrderItem" yaml:"productOrderItem" validate:"dive"`
}

// ItemID implements graph.Node.
func (i ProductOrderItem) ItemID() string { return i.ID }

// RelationshipTargetIDs implements graph.Node.
func (i ProductOrderItem) RelationshipTargetIDs() []string {
	return lo.Map(i.ProductOrderItemRelationships, func(r ProductOrderItemRelationship, _ int) string { return r.ID })
}

// RelationshipTypes returns the type of each relationship in declared order.
func (i ProductOrderItem) RelationshipTypes() []string {
	return lo.Map(i.ProductOrderItemRelationships, func(r ProductOrderItemRelationship, _ int) string { return r.RelationshipType })
}

// Validate checks that the order's items form an executable fulfillment plan.
func (o *ProductOrder) Validate(opts ...graph.Option) error {
	return graph.Validate(o.ProductOrderItems, append([]graph.Option{graph.WithOrderID(o.ID)}, opts...)...)
}

// FindItem returns the item with the given id or a NotFound error.
func (o *ProductOrder) FindItem(id string) (ProductOrderItem, error) {
	return graph.FindByID(o.ProductOrderItems, id)
}
