package graph

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/mudesheng/lga/bnt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexPairs(t *testing.T) {
	g := NewMemGraph(3)
	v := g.AddVertex("ACC")
	cv := g.ConjugateVertex(v)
	assert.NotEqual(t, v, cv)
	assert.Equal(t, v, g.ConjugateVertex(cv))
	assert.Equal(t, bnt.Seq("GGT"), g.VertexKmer(cv))
	assert.Equal(t, 2, g.VertexCount())

	p := NewMemGraph(4)
	pv := p.AddVertex("ACGT")
	assert.Equal(t, pv, p.ConjugateVertex(pv))
	assert.Equal(t, 1, p.VertexCount())
}

func TestAddEdgeConjugate(t *testing.T) {
	g := NewMemGraph(3)
	a, b := g.AddVertex("ACC"), g.AddVertex("CGT")
	e := g.AddEdge(a, b, "ACCGT")
	ce := g.ConjugateEdge(e)
	require.NotEqual(t, e, ce)
	assert.Equal(t, e, g.ConjugateEdge(ce))
	assert.Equal(t, g.ConjugateVertex(b), g.EdgeStart(ce))
	assert.Equal(t, g.ConjugateVertex(a), g.EdgeEnd(ce))
	assert.Equal(t, bnt.Seq("ACGGT"), g.EdgeNucls(ce))
	assert.Equal(t, 2, g.Length(e))
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, e, g.GetEdge(a, b, 2))
	assert.Equal(t, NoEdge, g.GetEdge(a, b, 3))

	g.IncCoverage(e, 4)
	assert.Equal(t, 2.0, g.Coverage(e))
	assert.Zero(t, g.Coverage(ce))
}

func TestMergePath(t *testing.T) {
	g := NewMemGraph(3)
	a, m, b := g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex()
	e1 := g.AddEdge(a, m, "AAAAC")
	e2 := g.AddEdge(m, b, "AACGGG")
	g.IncCoverage(e1, 2)
	g.IncCoverage(e2, 3)
	ne, err := g.MergePath([]EdgeID{e1, e2})
	require.NoError(t, err)
	assert.Equal(t, bnt.Seq("AAAACGGG"), g.EdgeNucls(ne))
	assert.Equal(t, 5, g.Length(ne))
	assert.Equal(t, int64(5), g.RawCoverage(ne))
	assert.Equal(t, int64(5), g.RawCoverage(g.ConjugateEdge(ne)))
	assert.False(t, g.ContainsEdge(e1))
	assert.False(t, g.ContainsEdge(g.ConjugateEdge(e2)))
	assert.False(t, g.ContainsVertex(m))
	assert.False(t, g.ContainsVertex(g.ConjugateVertex(m)))
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, 4, g.VertexCount())

	_, err = g.MergePath([]EdgeID{ne, ne})
	assert.ErrorIs(t, err, ErrBrokenPath)
}

func TestForceDeleteVertex(t *testing.T) {
	g := NewMemGraph(3)
	a, v, b := g.AddFreeVertex(), g.AddFreeVertex(), g.AddFreeVertex()
	g.AddEdge(a, v, "AAAA")
	g.AddEdge(v, b, "CCCC")
	g.AddEdge(b, a, "GGGA")
	g.ForceDeleteVertex(v)
	assert.False(t, g.ContainsVertex(v))
	assert.False(t, g.ContainsVertex(g.ConjugateVertex(v)))
	assert.Equal(t, 2, g.EdgeCount())
	assert.Zero(t, g.OutgoingEdgeCount(a))
	assert.Equal(t, 1, g.IncomingEdgeCount(a))
	assert.Len(t, g.Vertices(), 4)
}

func TestSaveLoad(t *testing.T) {
	g := NewMemGraph(3)
	a, b, c := g.AddVertex("ACC"), g.AddVertex("CGT"), g.AddFreeVertex()
	e := g.AddEdge(a, b, "ACCGT")
	g.IncCoverage(e, 6)
	g.AddEdge(b, c, "CGTTT")
	g.ForceDeleteVertex(c)

	fn := filepath.Join(t.TempDir(), "t.graph.zst")
	require.NoError(t, Save(g, fn))
	lg, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, g.K(), lg.K())
	assert.Equal(t, g.Vertices(), lg.Vertices())
	assert.Equal(t, g.Edges(), lg.Edges())
	assert.Equal(t, int64(6), lg.RawCoverage(e))
	assert.Equal(t, g.ConjugateEdge(e), lg.ConjugateEdge(e))
	assert.Equal(t, g.OutgoingEdges(a), lg.OutgoingEdges(a))
	assert.False(t, lg.ContainsVertex(c))
	// new IDs continue after the loaded ones
	assert.Equal(t, VertexID(len(g.vertices)), lg.AddFreeVertex())
}

func TestWriters(t *testing.T) {
	g := NewMemGraph(3)
	a, b := g.AddVertex("ACC"), g.AddVertex("CGT")
	e := g.AddEdge(a, b, "ACCGT")
	g.IncCoverage(e, 2)
	dir := t.TempDir()

	dotfn := filepath.Join(dir, "t.dot")
	require.NoError(t, WriteDot(g, dotfn))
	dot, err := os.ReadFile(dotfn)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph G")
	assert.Contains(t, string(dot), "ID:1 len:2 cov:1.0")

	fafn := filepath.Join(dir, "t.edges.fa.zst")
	n, err := WriteEdgesFa(g, fafn)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	fp, err := os.Open(fafn)
	require.NoError(t, err)
	defer fp.Close()
	zr, err := zstd.NewReader(fp)
	require.NoError(t, err)
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, ">1\t1\t3\tlen:2\tcov:1.00\nACCGT\n", string(raw))

	statfn := filepath.Join(dir, "t.stat")
	st := NewStat(g, 7)
	st.Threshold = 1.5
	require.NoError(t, StatWriter(statfn, st))
	rst, err := StatReader(statfn)
	require.NoError(t, err)
	assert.Equal(t, st, rst)
}
