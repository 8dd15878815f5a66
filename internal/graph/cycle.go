package graph

// DefaultMaxSteps is the step budget of a single dependency walk.
//
// It caps CPU time on pathological fan-out (for example 1000 items with 1000
// relationships each) without a wall-clock timeout. It is a circuit breaker,
// not a precise complexity bound.
const DefaultMaxSteps = 100000

// DependencySet is the set of item ids reachable from an item.
type DependencySet map[string]struct{}

// Contains reports whether id is in the set.
func (s DependencySet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// DeepDependencies returns every id reachable from start by following
// relationships, using a step budget of maxSteps.
//
// The start item itself is only included when a cycle leads back to it.
// Every traversed relationship costs one step; the counter is shared by the
// whole walk and is not reset per branch. When it exceeds maxSteps the walk
// stops and a GraphTooComplex error is returned along with no set.
//
// A target that does not resolve is recorded in the set but not expanded,
// since a missing item has no relationships of its own.
func DeepDependencies[N Node](g *Graph[N], start N, maxSteps int) (DependencySet, error) {
	w := &walker[N]{
		graph:    g,
		root:     start.ItemID(),
		visited:  make(map[string]struct{}),
		deps:     make(DependencySet),
		maxSteps: maxSteps,
	}
	if err := w.walk(start); err != nil {
		return nil, err
	}
	return w.deps, nil
}

// CheckCycles verifies that no item depends on itself.
//
// For each item in declared order the full dependency closure is computed and
// searched for the item's own id. The closure is always completed before the
// check, so a dense graph trips the step budget even when it also contains a
// cycle. The first item found in its own closure fails with a
// CyclicDependency error.
//
// Each item gets a fresh walk. Nothing is cached between items, so a walk
// aborted by the budget never leaves a partial closure behind.
func CheckCycles[N Node](g *Graph[N], maxSteps int) error {
	for _, n := range g.Nodes() {
		deps, err := DeepDependencies(g, n, maxSteps)
		if err != nil {
			return err
		}
		if deps.Contains(n.ItemID()) {
			return NewCyclicDependencyError(n.ItemID())
		}
	}
	return nil
}

// walker holds the state of one dependency walk.
type walker[N Node] struct {
	graph    *Graph[N]
	root     string
	visited  map[string]struct{}
	deps     DependencySet
	steps    int
	maxSteps int
}

// walk expands n depth-first. Nodes already expanded in this walk are
// skipped, which keeps diamond-shaped sharing linear and ends the walk on
// cycles.
func (w *walker[N]) walk(n N) error {
	id := n.ItemID()
	if _, seen := w.visited[id]; seen {
		return nil
	}
	w.visited[id] = struct{}{}

	for _, target := range n.RelationshipTargetIDs() {
		w.steps++
		if w.steps > w.maxSteps {
			return NewGraphTooComplexError(w.root, w.steps, w.maxSteps)
		}
		w.deps[target] = struct{}{}

		next, ok := w.graph.Lookup(target)
		if !ok {
			continue
		}
		if err := w.walk(next); err != nil {
			return err
		}
	}
	return nil
}
