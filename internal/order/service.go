package order

import (
	"github.com/samber/lo"

	"github.com/roach88/ordergraph/internal/graph"
)

// OrderItemRef points at another item of the same service order.
type OrderItemRef struct {
	ItemID         string `json:"itemId" yaml:"itemId" validate:"required"`
	ServiceOrderID string `json:"serviceOrderId,omitempty" yaml:"serviceOrderId,omitempty"`
}

// ServiceOrderItemRelationship links a service order item to another item.
type ServiceOrderItemRelationship struct {
	RelationshipType string       `json:"relationshipType,omitempty" yaml:"relationshipType,omitempty"`
	OrderItem        OrderItemRef `json:"orderItem" yaml:"orderItem"`
}

// ServiceRef is the service an item orders. Only identity is kept.
type ServiceRef struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// ServiceOrderItem is an item of a TMF641 service order.
type ServiceOrderItem struct {
	ID                            string                         `json:"id" yaml:"id" validate:"required"`
	Action                        string                         `json:"action,omitempty" yaml:"action,omitempty"`
	Service                       *ServiceRef                    `json:"service,omitempty" yaml:"service,omitempty"`
	ServiceOrderItemRelationships []ServiceOrderItemRelationship `json:"serviceOrderItemRelationship,omitempty" yaml:"serviceOrderItemRelationship,omitempty" validate:"dive"`
}

// ServiceOrder is a TMF641 service order.
type ServiceOrder struct {
	ID                string             `json:"id,omitempty" yaml:"id,omitempty"`
	ExternalID        string             `json:"externalId,omitempty" yaml:"externalId,omitempty"`
	ServiceOrderItems []ServiceOrderItem `json:"serviceOrderItem" yaml:"serviceOrderItem" validate:"dive"`
}

// ItemID implements graph.Node.
func (i ServiceOrderItem) ItemID() string { return i.ID }

// RelationshipTargetIDs implements graph.Node.
func (i ServiceOrderItem) RelationshipTargetIDs() []string {
	return lo.Map(i.ServiceOrderItemRelationships, func(r ServiceOrderItemRelationship, _ int) string { return r.OrderItem.ItemID })
}

// RelationshipTypes returns the type of each relationship in declared order.
func (i ServiceOrderItem) RelationshipTypes() []string {
	return lo.Map(i.ServiceOrderItemRelationships, func(r ServiceOrderItemRelationship, _ int) string { return r.RelationshipType })
}

// Validate checks that the order's items form an executable fulfillment plan.
func (o *ServiceOrder) Validate(opts ...graph.Option) error {
	return graph.Validate(o.ServiceOrderItems, append([]graph.Option{graph.WithOrderID(o.ID)}, opts...)...)
}

// FindItem returns the item with the given id or a NotFound error.
func (o *ServiceOrder) FindItem(id string) (ServiceOrderItem, error) {
	return graph.FindByID(o.ServiceOrderItems, id)
}
