package graph

// Option configures a validation call.
type Option func(*settings)

type settings struct {
	maxSteps int
	orderID  string
}

// WithMaxSteps sets the step budget of each dependency walk.
//
// Default: DefaultMaxSteps. Values below 1 keep the default.
func WithMaxSteps(maxSteps int) Option {
	return func(s *settings) {
		if maxSteps > 0 {
			s.maxSteps = maxSteps
		}
	}
}

// WithOrderID attaches the order id to any returned ValidationError.
func WithOrderID(id string) Option {
	return func(s *settings) {
		s.orderID = id
	}
}

// Validate checks that nodes form an executable fulfillment plan.
//
// Stages run in this order and the first failure is returned unchanged:
//
//  1. CheckStart      (NoStartNode)
//  2. CheckEnd        (NoEndNode)
//  3. CheckReferences (UnresolvedReference)
//  4. CheckCycles     (CyclicDependency, GraphTooComplex)
//
// Returns nil for a valid order. Every error is a *ValidationError.
// The graph view is built fresh for each call and nothing is retained.
func Validate[N Node](nodes []N, opts ...Option) error {
	s := &settings{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(s)
	}

	g := New(nodes)
	if err := CheckStart(g); err != nil {
		return withOrderID(err, s.orderID)
	}
	if err := CheckEnd(g); err != nil {
		return withOrderID(err, s.orderID)
	}
	if err := CheckReferences(g); err != nil {
		return withOrderID(err, s.orderID)
	}
	if err := CheckCycles(g, s.maxSteps); err != nil {
		return withOrderID(err, s.orderID)
	}
	return nil
}

// withOrderID stamps the order id onto a ValidationError.
func withOrderID(err error, orderID string) error {
	if orderID == "" {
		return err
	}
	if ve, ok := err.(*ValidationError); ok {
		ve.OrderID = orderID
	}
	return err
}

// FindByID returns the first node with the given id, in declared order.
// Returns a NotFound error if no node matches.
func FindByID[N Node](nodes []N, id string) (N, error) {
	for _, n := range nodes {
		if n.ItemID() == id {
			return n, nil
		}
	}
	var zero N
	return zero, NewNotFoundError(id)
}
