// Package graph stores the landmark graph: vertices come in complementary
// pairs and every edge has a conjugate running the opposite strand.
package graph

import (
	"errors"

	"github.com/mudesheng/lga/bnt"
)

type VertexID uint32
type EdgeID uint32

const (
	NoVertex VertexID = 0
	NoEdge   EdgeID   = 0
)

var ErrBrokenPath = errors.New("edges do not form a path")

// Reader is the read-only view used by whole-graph analyses.
type Reader interface {
	K() int

	Vertices() []VertexID
	VertexCount() int
	ContainsVertex(v VertexID) bool
	ConjugateVertex(v VertexID) VertexID
	VertexKmer(v VertexID) bnt.Seq

	Edges() []EdgeID
	EdgeCount() int
	ContainsEdge(e EdgeID) bool
	ConjugateEdge(e EdgeID) EdgeID
	EdgeStart(e EdgeID) VertexID
	EdgeEnd(e EdgeID) VertexID
	EdgeNucls(e EdgeID) bnt.Seq
	// Length is the nucleotide length minus K.
	Length(e EdgeID) int
	RawCoverage(e EdgeID) int64
	// Coverage is raw coverage per base of Length.
	Coverage(e EdgeID) float64
	// GetEdge returns the live edge from -> to of the given length or NoEdge.
	GetEdge(from, to VertexID, length int) EdgeID

	OutgoingEdges(v VertexID) []EdgeID
	IncomingEdges(v VertexID) []EdgeID
	OutgoingEdgeCount(v VertexID) int
	IncomingEdgeCount(v VertexID) int
}

// Graph adds the mutations used by construction and the rewriter. Every
// mutation keeps the conjugate structure consistent.
type Graph interface {
	Reader

	// AddVertex creates kmer and its reverse complement as a pair.
	AddVertex(kmer bnt.Seq) VertexID
	// AddFreeVertex creates a pair without a k-mer label.
	AddFreeVertex() VertexID
	// AddEdge creates from -> to and its conjugate.
	AddEdge(from, to VertexID, nucls bnt.Seq) EdgeID
	// IncCoverage adds c to the raw coverage of e only.
	IncCoverage(e EdgeID, c int64)
	// MergePath replaces a contiguous path by one edge carrying the summed
	// raw coverage, removing the path and its conjugate.
	MergePath(path []EdgeID) (EdgeID, error)
	// ForceDeleteVertex removes v, its conjugate and every incident edge.
	ForceDeleteVertex(v VertexID)
}
