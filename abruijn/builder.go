// Package abruijn builds the sparse landmark graph from reads: it selects
// landmark k-mers, turns them into complementary vertex pairs and joins
// consecutive landmarks of a read with edges carrying the spanned sequence.
package abruijn

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mudesheng/lga/bnt"
	"github.com/mudesheng/lga/graph"
	"github.com/mudesheng/lga/kmerhash"
	log "github.com/sirupsen/logrus"
)

var (
	ErrDuplicateVertex   = errors.New("vertex already present")
	ErrNoSecondMinimizer = errors.New("no second minimizer in read")
)

// Mode selects how landmarks are chosen per read.
type Mode int

const (
	ModeMinimizers Mode = iota
	ModeLocalMinimizers
	ModeAllKmers
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "minimizers", "":
		return ModeMinimizers, nil
	case "local":
		return ModeLocalMinimizers, nil
	case "all":
		return ModeAllKmers, nil
	}
	return 0, fmt.Errorf("[ParseMode] unknown landmark mode: %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeMinimizers:
		return "minimizers"
	case ModeLocalMinimizers:
		return "local"
	case ModeAllKmers:
		return "all"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// TrustPolicy reports whether a k-mer hash may become a landmark.
type TrustPolicy func(hash uint64) bool

func TrustAll(uint64) bool { return true }

type Options struct {
	Mode Mode
	// HTake is the number of smallest hashes promoted per read.
	HTake int
	// WindowSize is the odd local minimizer window.
	WindowSize int
	Trusted    TrustPolicy
	Workers    int
}

func DefaultOptions() Options {
	return Options{Mode: ModeMinimizers, HTake: 4, WindowSize: 11, Trusted: TrustAll, Workers: 1}
}

// ReadPos locates a landmark occurrence.
type ReadPos struct {
	Read int
	Pos  int
}

// Stats reports what one construction batch produced.
type Stats struct {
	Reads         int
	Landmarks     int
	Vertices      int
	Edges         int
	Tips          int
	TipExtensions int
	// MappedReads and ReadPositions count the reads and landmark
	// occurrences recorded by MapToReads.
	MappedReads   int
	ReadPositions int
}

type scratch struct {
	ha    []uint64
	hbest []uint64
	vs    []graph.VertexID
	index []int
}

// VertexMap binds landmark k-mers to vertices. A k-mer and its reverse
// complement are always inserted together.
type VertexMap struct {
	m map[bnt.Seq]graph.VertexID
}

func NewVertexMap() *VertexMap {
	return &VertexMap{m: make(map[bnt.Seq]graph.VertexID)}
}

func (vm *VertexMap) Get(kmer bnt.Seq) (graph.VertexID, bool) {
	v, ok := vm.m[kmer]
	return v, ok
}

func (vm *VertexMap) Len() int { return len(vm.m) }

// InsertPair records kmer -> v and Complement(kmer) -> cv.
func (vm *VertexMap) InsertPair(kmer bnt.Seq, v, cv graph.VertexID) error {
	rc := kmer.Complement()
	if _, ok := vm.m[kmer]; ok {
		return fmt.Errorf("[InsertPair] kmer %s: %w", kmer, ErrDuplicateVertex)
	}
	if _, ok := vm.m[rc]; ok {
		return fmt.Errorf("[InsertPair] kmer %s: %w", rc, ErrDuplicateVertex)
	}
	vm.m[kmer] = v
	vm.m[rc] = cv
	return nil
}

// Builder is the construction context of one batch. It owns the landmark
// set, the vertex map and the tip annotations, and is not safe for
// concurrent use.
type Builder struct {
	g         graph.Graph
	hasher    kmerhash.Hasher
	k         int
	opt       Options
	earmarked map[uint64]struct{}
	vmap      *VertexMap
	seqReads  map[uint64][]ReadPos
	readNum   int
	hasRight  map[uint64]Direction
	tips      map[uint64]Direction
	tipExt    map[uint64]map[TipExtension]struct{}
	sc        scratch
	stats     Stats
}

// NewBuilder begins a construction batch over g.
func NewBuilder(g graph.Graph, hasher kmerhash.Hasher, opt Options) (*Builder, error) {
	if g.K() != hasher.K() {
		return nil, fmt.Errorf("[NewBuilder] graph K:%d != hasher K:%d", g.K(), hasher.K())
	}
	if opt.HTake < 1 {
		return nil, fmt.Errorf("[NewBuilder] HTake:%d must be positive", opt.HTake)
	}
	if opt.Mode == ModeLocalMinimizers && opt.WindowSize%2 != 1 {
		return nil, fmt.Errorf("[NewBuilder] WindowSize:%d must be odd", opt.WindowSize)
	}
	if opt.Trusted == nil {
		opt.Trusted = TrustAll
	}
	if opt.Workers < 1 {
		opt.Workers = 1
	}
	b := &Builder{
		g:         g,
		hasher:    hasher,
		k:         hasher.K(),
		opt:       opt,
		earmarked: make(map[uint64]struct{}),
		vmap:      NewVertexMap(),
		seqReads:  make(map[uint64][]ReadPos),
	}
	b.ResetTips()
	return b, nil
}

func (b *Builder) Graph() graph.Graph { return b.g }

func (b *Builder) K() int { return b.k }

func (b *Builder) IsLandmark(h uint64) bool {
	_, ok := b.earmarked[h]
	return ok
}

func (b *Builder) LandmarkCount() int { return len(b.earmarked) }

// Landmarks returns the landmark set in ascending order.
func (b *Builder) Landmarks() []uint64 {
	arr := make([]uint64, 0, len(b.earmarked))
	for h := range b.earmarked {
		arr = append(arr, h)
	}
	sort.Slice(arr, func(i, j int) bool { return arr[i] < arr[j] })
	return arr
}

func (b *Builder) earmark(h uint64) {
	b.earmarked[h] = struct{}{}
}

// ReadPositions returns the occurrences recorded by MapToReads.
func (b *Builder) ReadPositions(h uint64) []ReadPos { return b.seqReads[h] }

func (b *Builder) Stats() Stats {
	st := b.stats
	st.Landmarks = len(b.earmarked)
	st.Vertices = b.g.VertexCount()
	st.Edges = b.g.EdgeCount()
	st.Tips = len(b.tips)
	st.TipExtensions = 0
	for _, m := range b.tipExt {
		st.TipExtensions += len(m)
	}
	st.MappedReads = b.readNum
	for _, rp := range b.seqReads {
		st.ReadPositions += len(rp)
	}
	return st
}

// Finalize ends the batch: it reports statistics and releases the scratch
// buffers, read positions and tip annotations. The graph and the landmark
// set stay valid.
func (b *Builder) Finalize() Stats {
	st := b.Stats()
	b.sc = scratch{}
	b.seqReads = make(map[uint64][]ReadPos)
	b.ResetTips()
	log.Infof("[Finalize] reads:%d landmarks:%d vertices:%d edges:%d tips:%d tipExtensions:%d mappedReads:%d readPositions:%d",
		st.Reads, st.Landmarks, st.Vertices, st.Edges, st.Tips, st.TipExtensions, st.MappedReads, st.ReadPositions)
	return st
}
