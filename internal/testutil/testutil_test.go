package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordergraph/internal/graph"
)

func TestSequentialRunIDs(t *testing.T) {
	gen := NewSequentialRunIDs("")
	assert.Equal(t, "test-run-0001", gen.Generate())
	assert.Equal(t, "test-run-0002", gen.Generate())

	gen.Reset()
	assert.Equal(t, "test-run-0001", gen.Generate())

	named := NewSequentialRunIDs("cycle")
	assert.Equal(t, "cycle-0001", named.Generate())
}

func TestItemAndOrder(t *testing.T) {
	o := Order("1", Item("100"), Item("200", "100"))

	require.Len(t, o.Items, 2)
	assert.Equal(t, []string{"100"}, o.Items[1].RelationshipTargetIDs())
	assert.NoError(t, o.Validate())
}

func TestComplexOrder(t *testing.T) {
	o := ComplexOrder(1000)

	require.Len(t, o.Items, 1001)
	assert.Len(t, o.Items[1].Relationships, 1000)

	err := o.Validate()
	assert.True(t, graph.IsKind(err, graph.KindGraphTooComplex), "got %v", err)
}

func TestJSON(t *testing.T) {
	assert.JSONEq(t, `{"id":"1","items":[{"id":"a"}]}`, string(JSON(Order("1", Item("a")))))
}
