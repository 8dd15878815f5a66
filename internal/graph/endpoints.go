package graph

// CheckStart verifies that at least one item has no relationships.
//
// Such an item has no prerequisites and can begin the fulfillment flow.
// Returns a NoStartNode error otherwise, including for an empty order.
func CheckStart[N Node](g *Graph[N]) error {
	for _, n := range g.Nodes() {
		if len(n.RelationshipTargetIDs()) == 0 {
			return nil
		}
	}
	return NewNoStartNodeError()
}

// CheckEnd verifies that at least one item is referenced by no other item.
//
// A relationship from an item to itself does not count as a reference from
// another item, so a self edge alone never disqualifies its own item.
// Returns a NoEndNode error when every item is referenced.
func CheckEnd[N Node](g *Graph[N]) error {
	referenced := referencedByOthers(g)
	for _, n := range g.Nodes() {
		if _, ok := referenced[n.ItemID()]; !ok {
			return nil
		}
	}
	return NewNoEndNodeError()
}

// referencedByOthers returns the ids targeted by at least one relationship
// whose source is a different item.
//
// Computed once per call so CheckEnd is linear in the number of
// relationships rather than items × relationships.
func referencedByOthers[N Node](g *Graph[N]) map[string]struct{} {
	referenced := make(map[string]struct{})
	for _, n := range g.Nodes() {
		source := n.ItemID()
		for _, target := range n.RelationshipTargetIDs() {
			if target == source {
				continue
			}
			referenced[target] = struct{}{}
		}
	}
	return referenced
}
