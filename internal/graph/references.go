package graph

// CheckReferences verifies that every relationship target exists.
//
// Items and their relationships are scanned in declared order; the first
// target that does not resolve fails with an UnresolvedReference error naming
// the source item and the missing target.
func CheckReferences[N Node](g *Graph[N]) error {
	for _, n := range g.Nodes() {
		for _, target := range n.RelationshipTargetIDs() {
			if _, ok := g.Lookup(target); !ok {
				return NewUnresolvedReferenceError(n.ItemID(), target)
			}
		}
	}
	return nil
}
