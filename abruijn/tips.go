package abruijn

import (
	"sort"

	"github.com/mudesheng/lga/bnt"
	"github.com/mudesheng/lga/utils"
	log "github.com/sirupsen/logrus"
)

// Direction is a set of sides of a landmark, expressed in the landmark's
// canonical orientation.
type Direction uint8

const (
	Right Direction = 1 << iota
	Left
	Both = Right | Left
)

func (d Direction) Has(x Direction) bool { return d&x == x }

// OneSided reports whether exactly one side is set.
func (d Direction) OneSided() bool { return d == Right || d == Left }

func (d Direction) String() string {
	switch d {
	case 0:
		return "none"
	case Right:
		return "right"
	case Left:
		return "left"
	}
	return "both"
}

// readSide converts a side along the read into the canonical orientation
// of a k-mer that is lesser or not.
func readSide(lesser, readRight bool) Direction {
	if lesser == readRight {
		return Right
	}
	return Left
}

// TipExtension is a candidate landmark found next to a tip.
type TipExtension struct {
	Hash uint64
	Dist int
}

// ResetTips clears every tip annotation.
func (b *Builder) ResetTips() {
	b.hasRight = make(map[uint64]Direction)
	b.tips = make(map[uint64]Direction)
	b.tipExt = make(map[uint64]map[TipExtension]struct{})
}

func (b *Builder) HasRight(h uint64) (Direction, bool) {
	d, ok := b.hasRight[h]
	return d, ok
}

func (b *Builder) IsTip(h uint64) (Direction, bool) {
	d, ok := b.tips[h]
	return d, ok
}

// TipExtensions returns the candidates of tip h sorted by distance.
func (b *Builder) TipExtensions(h uint64) []TipExtension {
	m := b.tipExt[h]
	arr := make([]TipExtension, 0, len(m))
	for te := range m {
		arr = append(arr, te)
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Dist != arr[j].Dist {
			return arr[i].Dist < arr[j].Dist
		}
		return arr[i].Hash < arr[j].Hash
	})
	return arr
}

// RevealTips marks, for every landmark of s, on which sides another
// landmark of the same read was seen.
func (b *Builder) RevealTips(s bnt.Seq) {
	index := b.landmarkPositions(s)
	for i, p := range index {
		h := b.sc.ha[p]
		lesser := s.Subseq(p, p+b.k).Lesser()
		if i < len(index)-1 {
			b.hasRight[h] |= readSide(lesser, true)
		}
		if i > 0 {
			b.hasRight[h] |= readSide(lesser, false)
		}
	}
}

// CollectTips turns every landmark seen on exactly one side into a tip
// and returns the number of tips.
func (b *Builder) CollectTips() int {
	for h, d := range b.hasRight {
		if d.OneSided() && b.IsLandmark(h) {
			b.tips[h] = d
		}
	}
	return len(b.tips)
}

// FindTipExtensions scans the open side of every tip occurring in s for
// trusted non-landmark k-mers and records them as candidates.
func (b *Builder) FindTipExtensions(s bnt.Seq) {
	b.sc.ha = b.hasher.Kmers(s, b.sc.ha)
	ha := b.sc.ha
	for p, h := range ha {
		d, ok := b.tips[h]
		if !ok {
			continue
		}
		lo, hi := p+1, len(ha)
		if d == readSide(s.Subseq(p, p+b.k).Lesser(), true) {
			// the neighbour lies to the right along this read
			lo, hi = 0, p
		}
		for j := lo; j < hi; j++ {
			hj := ha[j]
			if b.IsLandmark(hj) || !b.opt.Trusted(hj) {
				continue
			}
			if _, ok := b.hasRight[hj]; !ok {
				b.hasRight[hj] = 0
			}
			m := b.tipExt[h]
			if m == nil {
				m = make(map[TipExtension]struct{})
				b.tipExt[h] = m
			}
			m[TipExtension{Hash: hj, Dist: utils.AbsInt(j - p)}] = struct{}{}
		}
	}
}

// LookRight refines the side annotation of every annotated hash in s
// relative to the first and last landmark of the read.
func (b *Builder) LookRight(s bnt.Seq) {
	b.sc.ha = b.hasher.Kmers(s, b.sc.ha)
	ha := b.sc.ha
	low, high := -1, -1
	for p, h := range ha {
		if b.IsLandmark(h) {
			if low < 0 {
				low = p
			}
			high = p
		}
	}
	if low < 0 {
		return
	}
	for p, h := range ha {
		if _, ok := b.hasRight[h]; !ok {
			continue
		}
		lesser := s.Subseq(p, p+b.k).Lesser()
		if p < high {
			b.hasRight[h] |= readSide(lesser, true)
		}
		if p > low {
			b.hasRight[h] |= readSide(lesser, false)
		}
	}
}

// ResolveTips runs one tip refinement over reads and returns the number
// of tips that found at least one candidate. The graph is not changed.
func (b *Builder) ResolveTips(reads []bnt.Seq) int {
	b.ResetTips()
	for _, s := range reads {
		b.RevealTips(s)
	}
	numTips := b.CollectTips()
	for _, s := range reads {
		b.FindTipExtensions(s)
	}
	for _, s := range reads {
		b.LookRight(s)
	}
	extended := 0
	for h, d := range b.tips {
		if len(b.tipExt[h]) > 0 {
			extended++
		} else {
			log.Debugf("[ResolveTips] tip %X side:%v has no candidate", h, d)
		}
	}
	log.Infof("[ResolveTips] tips:%d extended:%d", numTips, extended)
	return extended
}
