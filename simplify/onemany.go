package simplify

import (
	"fmt"

	"github.com/mudesheng/lga/graph"
	log "github.com/sirupsen/logrus"
)

// OneManyResolver splits vertices with one edge on one side and several on
// the other: the single edge is duplicated for every partner and each
// partner is merged with its copy, after which the hub disappears.
type OneManyResolver struct {
	g graph.Graph
}

func NewOneManyResolver(g graph.Graph) *OneManyResolver {
	return &OneManyResolver{g: g}
}

// touchesSelf reports whether v is its own conjugate or some edge at v
// runs between v and v or its conjugate. Such vertices are left alone.
func (r *OneManyResolver) touchesSelf(v graph.VertexID) bool {
	g := r.g
	cv := g.ConjugateVertex(v)
	if cv == v {
		return true
	}
	for _, e := range g.OutgoingEdges(v) {
		if end := g.EdgeEnd(e); end == v || end == cv {
			return true
		}
	}
	for _, e := range g.IncomingEdges(v) {
		if start := g.EdgeStart(e); start == v || start == cv {
			return true
		}
	}
	return false
}

// copyCoverage gives dst and its conjugate the raw coverage of src.
func (r *OneManyResolver) copyCoverage(dst, src graph.EdgeID) {
	c := r.g.RawCoverage(src)
	r.g.IncCoverage(dst, c)
	if cd := r.g.ConjugateEdge(dst); cd != dst {
		r.g.IncCoverage(cd, c)
	}
}

// resolveIncoming handles one outgoing edge and several incoming ones.
func (r *OneManyResolver) resolveIncoming(v graph.VertexID) error {
	g := r.g
	unique := g.OutgoingEdges(v)[0]
	incoming := append([]graph.EdgeID(nil), g.IncomingEdges(v)...)
	for _, in := range incoming {
		tmp := g.AddFreeVertex()
		e2 := g.AddEdge(tmp, g.EdgeEnd(unique), g.EdgeNucls(unique))
		r.copyCoverage(e2, unique)
		e1 := g.AddEdge(g.EdgeStart(in), tmp, g.EdgeNucls(in))
		r.copyCoverage(e1, in)
		if _, err := g.MergePath([]graph.EdgeID{e1, e2}); err != nil {
			return fmt.Errorf("[resolveIncoming] vertex %d: %w", v, err)
		}
	}
	g.ForceDeleteVertex(v)
	return nil
}

// resolveOutgoing handles one incoming edge and several outgoing ones.
func (r *OneManyResolver) resolveOutgoing(v graph.VertexID) error {
	g := r.g
	unique := g.IncomingEdges(v)[0]
	outgoing := append([]graph.EdgeID(nil), g.OutgoingEdges(v)...)
	for _, out := range outgoing {
		tmp := g.AddFreeVertex()
		e1 := g.AddEdge(g.EdgeStart(unique), tmp, g.EdgeNucls(unique))
		r.copyCoverage(e1, unique)
		e2 := g.AddEdge(tmp, g.EdgeEnd(out), g.EdgeNucls(out))
		r.copyCoverage(e2, out)
		if _, err := g.MergePath([]graph.EdgeID{e1, e2}); err != nil {
			return fmt.Errorf("[resolveOutgoing] vertex %d: %w", v, err)
		}
	}
	g.ForceDeleteVertex(v)
	return nil
}

// Resolve sweeps once over the vertices present at the start and returns
// how many hubs were removed. Vertices created or exposed by the sweep are
// not revisited; run Resolve again to go further.
func (r *OneManyResolver) Resolve() (resolved int, err error) {
	g := r.g
	for _, v := range g.Vertices() {
		if !g.ContainsVertex(v) {
			continue
		}
		out, in := g.OutgoingEdgeCount(v), g.IncomingEdgeCount(v)
		switch {
		case out == 1 && in > 1:
			if r.touchesSelf(v) {
				continue
			}
			err = r.resolveIncoming(v)
		case in == 1 && out > 1:
			if r.touchesSelf(v) {
				continue
			}
			err = r.resolveOutgoing(v)
		default:
			continue
		}
		if err != nil {
			return resolved, err
		}
		resolved++
	}
	log.Infof("[Resolve] resolved vertices:%d vertices:%d edges:%d", resolved, g.VertexCount(), g.EdgeCount())
	return resolved, nil
}
