package abruijn

import (
	"fmt"

	"github.com/mudesheng/lga/bnt"
	"github.com/mudesheng/lga/graph"
)

// GetOrCreateVertex returns the vertex of kmer, creating the complementary
// pair on first sight. Repeated calls return the same vertex.
func (b *Builder) GetOrCreateVertex(kmer bnt.Seq) (graph.VertexID, error) {
	if v, ok := b.vmap.Get(kmer); ok {
		return v, nil
	}
	return b.createVertex(kmer)
}

func (b *Builder) createVertex(kmer bnt.Seq) (graph.VertexID, error) {
	if _, ok := b.vmap.Get(kmer); ok {
		return graph.NoVertex, fmt.Errorf("[createVertex] kmer %s: %w", kmer, ErrDuplicateVertex)
	}
	v := b.g.AddVertex(kmer)
	if err := b.vmap.InsertPair(kmer, v, b.g.ConjugateVertex(v)); err != nil {
		return graph.NoVertex, fmt.Errorf("[createVertex] %w", err)
	}
	return v, nil
}

// landmarkPositions fills the scratch index with the positions of s whose
// k-mer is a landmark.
func (b *Builder) landmarkPositions(s bnt.Seq) []int {
	b.sc.ha = b.hasher.Kmers(s, b.sc.ha)
	index := b.sc.index[:0]
	for i, h := range b.sc.ha {
		if b.IsLandmark(h) {
			index = append(index, i)
		}
	}
	b.sc.index = index
	return index
}

// AddToGraph threads s through the graph: consecutive landmarks are joined
// by an edge spanning both k-mers, reused when an edge with the same
// endpoints and length exists. Each read adds one unit of per-base coverage
// to the edge and to its conjugate.
func (b *Builder) AddToGraph(s bnt.Seq) error {
	index := b.landmarkPositions(s)
	vs := b.sc.vs[:0]
	for _, p := range index {
		v, err := b.GetOrCreateVertex(s.Subseq(p, p+b.k))
		if err != nil {
			return fmt.Errorf("[AddToGraph] %w", err)
		}
		vs = append(vs, v)
	}
	b.sc.vs = vs
	for i := 0; i+1 < len(vs); i++ {
		l := index[i+1] - index[i]
		e := b.g.GetEdge(vs[i], vs[i+1], l)
		if e == graph.NoEdge {
			e = b.g.AddEdge(vs[i], vs[i+1], s.Subseq(index[i], index[i+1]+b.k))
		}
		b.g.IncCoverage(e, int64(l))
		if ce := b.g.ConjugateEdge(e); ce != e {
			b.g.IncCoverage(ce, int64(l))
		}
	}
	b.stats.Reads++
	return nil
}

// MapToReads records where every landmark of s occurs and returns the read
// number assigned to s.
func (b *Builder) MapToReads(s bnt.Seq) int {
	id := b.readNum
	b.readNum++
	for _, p := range b.landmarkPositions(s) {
		h := b.sc.ha[p]
		b.seqReads[h] = append(b.seqReads[h], ReadPos{Read: id, Pos: p})
	}
	return id
}
