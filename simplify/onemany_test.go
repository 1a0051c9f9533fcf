package simplify

import (
	"testing"

	"github.com/mudesheng/lga/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outEdgeTo(t *testing.T, g graph.Reader, from, to graph.VertexID) graph.EdgeID {
	t.Helper()
	for _, e := range g.OutgoingEdges(from) {
		if g.EdgeEnd(e) == to {
			return e
		}
	}
	require.Failf(t, "missing edge", "%d -> %d", from, to)
	return graph.NoEdge
}

func TestResolveIncoming(t *testing.T) {
	g := graph.NewMemGraph(3)
	a1, a2, v, b := g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex()
	in1 := addEdge(g, a1, v, 5, 2)
	addEdge(g, a2, v, 3, 4)
	unique := addEdge(g, v, b, 7, 6)
	rawIn1, rawUnique := g.RawCoverage(in1), g.RawCoverage(unique)

	n, err := NewOneManyResolver(g).Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, g.ContainsVertex(v))
	assert.False(t, g.ContainsVertex(g.ConjugateVertex(v)))
	assert.Equal(t, 4, g.EdgeCount())
	assert.Equal(t, 2, g.IncomingEdgeCount(b))

	e1 := outEdgeTo(t, g, a1, b)
	assert.Equal(t, 12, g.Length(e1))
	assert.Equal(t, rawIn1+rawUnique, g.RawCoverage(e1))
	assert.Equal(t, g.RawCoverage(e1), g.RawCoverage(g.ConjugateEdge(e1)))
	e2 := outEdgeTo(t, g, a2, b)
	assert.Equal(t, 10, g.Length(e2))
	// the duplicated vertices were merged away
	assert.Equal(t, 6, g.VertexCount())
}

func TestResolveOutgoing(t *testing.T) {
	g := graph.NewMemGraph(3)
	a, v, b1, b2 := g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex()
	addEdge(g, a, v, 4, 1)
	addEdge(g, v, b1, 2, 1)
	addEdge(g, v, b2, 6, 1)

	n, err := NewOneManyResolver(g).Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, g.ContainsVertex(v))
	assert.Equal(t, 2, g.OutgoingEdgeCount(a))
	assert.Equal(t, 6, g.Length(outEdgeTo(t, g, a, b1)))
	assert.Equal(t, 10, g.Length(outEdgeTo(t, g, a, b2)))
	for _, e := range g.Edges() {
		assert.Equal(t, 1.0, g.Coverage(e))
	}
}

func TestResolveSkipsLoops(t *testing.T) {
	g := graph.NewMemGraph(3)
	a, v := g.AddFreeVertex(), g.AddFreeVertex()
	addEdge(g, a, v, 2, 1)
	addEdge(g, v, v, 3, 1)
	n, err := NewOneManyResolver(g).Resolve()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, g.ContainsVertex(v))

	h := graph.NewMemGraph(3)
	x, w := h.AddFreeVertex(), h.AddFreeVertex()
	addEdge(h, x, w, 2, 1)
	addEdge(h, h.ConjugateVertex(w), w, 2, 1)
	addEdge(h, w, x, 2, 1)
	n, err = NewOneManyResolver(h).Resolve()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResolveSingleSweep(t *testing.T) {
	g := graph.NewMemGraph(3)
	// w is created first so the sweep reaches it before v
	w, a1, a2, v, b := g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex()
	addEdge(g, a1, v, 2, 1)
	addEdge(g, a2, v, 2, 1)
	addEdge(g, v, w, 2, 1)
	addEdge(g, w, b, 2, 1)
	n, err := NewOneManyResolver(g).Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	// w gained a second incoming edge but was already visited
	assert.Equal(t, 2, g.IncomingEdgeCount(w))
	assert.True(t, g.ContainsVertex(w))
	n, err = NewOneManyResolver(g).Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, g.ContainsVertex(w))
}
