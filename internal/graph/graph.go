package graph

// Node is an order item as seen by the validator.
//
// RelationshipTargetIDs returns the ids of the items this item depends on, in
// declared order. A nil or empty result means the item has no relationships.
type Node interface {
	ItemID() string
	RelationshipTargetIDs() []string
}

// Graph is a read-only view over an order's items.
//
// It keeps the declared item order for scans (which decides which item a
// failure names) and an id index for lookups. Ids are assumed unique; with
// duplicates the index keeps the last item carrying the id.
type Graph[N Node] struct {
	nodes []N
	index map[string]N
}

// New builds a Graph over nodes. The slice is not copied and must not be
// mutated while the Graph is in use.
func New[N Node](nodes []N) *Graph[N] {
	index := make(map[string]N, len(nodes))
	for _, n := range nodes {
		index[n.ItemID()] = n
	}
	return &Graph[N]{nodes: nodes, index: index}
}

// Lookup returns the node with the given id.
func (g *Graph[N]) Lookup(id string) (N, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in declared order.
func (g *Graph[N]) Nodes() []N {
	return g.nodes
}

// Len returns the number of nodes.
func (g *Graph[N]) Len() int {
	return len(g.nodes)
}
