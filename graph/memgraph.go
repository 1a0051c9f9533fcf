package graph

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/mudesheng/lga/bnt"
)

type vertexInfo struct {
	kmer bnt.Seq
	conj VertexID
	out  []EdgeID
	in   []EdgeID
}

type edgeInfo struct {
	start, end VertexID
	conj       EdgeID
	nucls      bnt.Seq
	raw        int64
}

// MemGraph keeps vertices and edges in slices indexed by ID. Index 0 is
// reserved and deleted records stay in place, so IDs never move.
type MemGraph struct {
	k        int
	vertices []vertexInfo
	edges    []edgeInfo
	vDeleted *bitset.BitSet
	eDeleted *bitset.BitSet
	numV     int
	numE     int
}

var _ Graph = (*MemGraph)(nil)

func NewMemGraph(k int) *MemGraph {
	g := &MemGraph{
		k:        k,
		vertices: make([]vertexInfo, 1, 1024),
		edges:    make([]edgeInfo, 1, 1024),
		vDeleted: bitset.New(1024),
		eDeleted: bitset.New(1024),
	}
	g.vDeleted.Set(0)
	g.eDeleted.Set(0)
	return g
}

func (g *MemGraph) K() int { return g.k }

func (g *MemGraph) newVertex(kmer bnt.Seq) VertexID {
	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, vertexInfo{kmer: kmer})
	g.vDeleted.Clear(uint(id))
	g.numV++
	return id
}

func (g *MemGraph) AddVertex(kmer bnt.Seq) VertexID {
	rc := kmer.Complement()
	v := g.newVertex(kmer)
	if rc == kmer {
		g.vertices[v].conj = v
		return v
	}
	cv := g.newVertex(rc)
	g.vertices[v].conj = cv
	g.vertices[cv].conj = v
	return v
}

func (g *MemGraph) AddFreeVertex() VertexID {
	v := g.newVertex("")
	cv := g.newVertex("")
	g.vertices[v].conj = cv
	g.vertices[cv].conj = v
	return v
}

func (g *MemGraph) ContainsVertex(v VertexID) bool {
	return int(v) < len(g.vertices) && !g.vDeleted.Test(uint(v))
}

func (g *MemGraph) ConjugateVertex(v VertexID) VertexID { return g.vertices[v].conj }

func (g *MemGraph) VertexKmer(v VertexID) bnt.Seq { return g.vertices[v].kmer }

func (g *MemGraph) VertexCount() int { return g.numV }

func (g *MemGraph) Vertices() []VertexID {
	vs := make([]VertexID, 0, g.numV)
	for i := 1; i < len(g.vertices); i++ {
		if !g.vDeleted.Test(uint(i)) {
			vs = append(vs, VertexID(i))
		}
	}
	return vs
}

func (g *MemGraph) newEdge(from, to VertexID, nucls bnt.Seq) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, edgeInfo{start: from, end: to, nucls: nucls})
	g.eDeleted.Clear(uint(id))
	g.vertices[from].out = append(g.vertices[from].out, id)
	g.vertices[to].in = append(g.vertices[to].in, id)
	g.numE++
	return id
}

func (g *MemGraph) AddEdge(from, to VertexID, nucls bnt.Seq) EdgeID {
	cfrom, cto := g.vertices[to].conj, g.vertices[from].conj
	rc := nucls.Complement()
	e := g.newEdge(from, to, nucls)
	if cfrom == from && cto == to && rc == nucls {
		g.edges[e].conj = e
		return e
	}
	ce := g.newEdge(cfrom, cto, rc)
	g.edges[e].conj = ce
	g.edges[ce].conj = e
	return e
}

func (g *MemGraph) ContainsEdge(e EdgeID) bool {
	return int(e) < len(g.edges) && !g.eDeleted.Test(uint(e))
}

func (g *MemGraph) ConjugateEdge(e EdgeID) EdgeID { return g.edges[e].conj }
func (g *MemGraph) EdgeStart(e EdgeID) VertexID   { return g.edges[e].start }
func (g *MemGraph) EdgeEnd(e EdgeID) VertexID     { return g.edges[e].end }
func (g *MemGraph) EdgeNucls(e EdgeID) bnt.Seq    { return g.edges[e].nucls }

func (g *MemGraph) Length(e EdgeID) int {
	if l := len(g.edges[e].nucls) - g.k; l > 0 {
		return l
	}
	return 0
}

func (g *MemGraph) IncCoverage(e EdgeID, c int64) { g.edges[e].raw += c }

func (g *MemGraph) RawCoverage(e EdgeID) int64 { return g.edges[e].raw }

func (g *MemGraph) Coverage(e EdgeID) float64 {
	l := g.Length(e)
	if l == 0 {
		return 0
	}
	return float64(g.edges[e].raw) / float64(l)
}

func (g *MemGraph) EdgeCount() int { return g.numE }

func (g *MemGraph) Edges() []EdgeID {
	es := make([]EdgeID, 0, g.numE)
	for i := 1; i < len(g.edges); i++ {
		if !g.eDeleted.Test(uint(i)) {
			es = append(es, EdgeID(i))
		}
	}
	return es
}

func (g *MemGraph) GetEdge(from, to VertexID, length int) EdgeID {
	for _, e := range g.vertices[from].out {
		if g.edges[e].end == to && g.Length(e) == length {
			return e
		}
	}
	return NoEdge
}

// OutgoingEdges and IncomingEdges return internal slices that the next
// mutation may rewrite; copy them before mutating the graph.
func (g *MemGraph) OutgoingEdges(v VertexID) []EdgeID { return g.vertices[v].out }
func (g *MemGraph) IncomingEdges(v VertexID) []EdgeID { return g.vertices[v].in }
func (g *MemGraph) OutgoingEdgeCount(v VertexID) int  { return len(g.vertices[v].out) }
func (g *MemGraph) IncomingEdgeCount(v VertexID) int  { return len(g.vertices[v].in) }

func removeEdgeID(arr []EdgeID, e EdgeID) []EdgeID {
	for i, x := range arr {
		if x == e {
			copy(arr[i:], arr[i+1:])
			return arr[:len(arr)-1]
		}
	}
	return arr
}

func (g *MemGraph) unlinkEdge(e EdgeID) {
	if g.eDeleted.Test(uint(e)) {
		return
	}
	ei := &g.edges[e]
	g.vertices[ei.start].out = removeEdgeID(g.vertices[ei.start].out, e)
	g.vertices[ei.end].in = removeEdgeID(g.vertices[ei.end].in, e)
	g.eDeleted.Set(uint(e))
	g.numE--
}

// deleteEdge removes e together with its conjugate.
func (g *MemGraph) deleteEdge(e EdgeID) {
	ce := g.edges[e].conj
	g.unlinkEdge(e)
	g.unlinkEdge(ce)
}

func (g *MemGraph) deleteVertexPair(v VertexID) {
	for _, x := range []VertexID{v, g.vertices[v].conj} {
		if !g.vDeleted.Test(uint(x)) {
			g.vDeleted.Set(uint(x))
			g.numV--
		}
	}
}

func (g *MemGraph) isolated(v VertexID) bool {
	for _, x := range []VertexID{v, g.vertices[v].conj} {
		if len(g.vertices[x].out) > 0 || len(g.vertices[x].in) > 0 {
			return false
		}
	}
	return true
}

func (g *MemGraph) MergePath(path []EdgeID) (EdgeID, error) {
	if len(path) == 0 {
		return NoEdge, fmt.Errorf("[MergePath] empty path: %w", ErrBrokenPath)
	}
	if !g.ContainsEdge(path[0]) {
		return NoEdge, fmt.Errorf("[MergePath] edge %d deleted: %w", path[0], ErrBrokenPath)
	}
	nucls := g.edges[path[0]].nucls
	raw := g.edges[path[0]].raw
	for i := 1; i < len(path); i++ {
		prev, e := path[i-1], path[i]
		if !g.ContainsEdge(e) || g.edges[prev].end != g.edges[e].start {
			return NoEdge, fmt.Errorf("[MergePath] edge %d does not follow edge %d: %w", e, prev, ErrBrokenPath)
		}
		nucls = nucls.Concat(g.edges[e].nucls, g.k)
		raw += g.edges[e].raw
	}
	start, end := g.edges[path[0]].start, g.edges[path[len(path)-1]].end
	ne := g.AddEdge(start, end, nucls)
	g.IncCoverage(ne, raw)
	if ce := g.edges[ne].conj; ce != ne {
		g.IncCoverage(ce, raw)
	}
	for _, e := range path {
		g.deleteEdge(e)
	}
	for _, e := range path[:len(path)-1] {
		if mid := g.edges[e].end; !g.vDeleted.Test(uint(mid)) && g.isolated(mid) {
			g.deleteVertexPair(mid)
		}
	}
	return ne, nil
}

func (g *MemGraph) ForceDeleteVertex(v VertexID) {
	for _, x := range []VertexID{v, g.vertices[v].conj} {
		for len(g.vertices[x].out) > 0 {
			g.deleteEdge(g.vertices[x].out[0])
		}
		for len(g.vertices[x].in) > 0 {
			g.deleteEdge(g.vertices[x].in[0])
		}
	}
	g.deleteVertexPair(v)
}
