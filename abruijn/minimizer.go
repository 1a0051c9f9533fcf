package abruijn

import (
	"fmt"
	"sort"

	"github.com/exascience/pargo/parallel"
	"github.com/mudesheng/lga/bnt"
	"github.com/mudesheng/lga/kmerhash"
	log "github.com/sirupsen/logrus"
)

// topMinimizers keeps the htake smallest distinct trusted hashes of ha in
// ascending order and returns them.
func topMinimizers(ha []uint64, htake int, hbest []uint64, trusted TrustPolicy) []uint64 {
	if cap(hbest) < htake {
		hbest = make([]uint64, htake)
	}
	hbest = hbest[:htake]
	for i := range hbest {
		hbest[i] = kmerhash.KMax
	}
	last := htake - 1
	for _, h := range ha {
		if h >= hbest[last] || !trusted(h) {
			continue
		}
		j := sort.Search(htake, func(i int) bool { return hbest[i] >= h })
		if hbest[j] == h {
			continue
		}
		copy(hbest[j+1:], hbest[j:last])
		hbest[j] = h
	}
	n := 0
	for n < htake && hbest[n] != kmerhash.KMax {
		n++
	}
	return hbest[:n]
}

// localMinimizers calls emit for the centre hash of every window whose
// minimum sits at the centre and is trusted. w must be odd; a window longer
// than ha is shrunk to the largest odd size that fits.
func localMinimizers(ha []uint64, w int, trusted TrustPolicy, emit func(uint64)) {
	n := len(ha)
	if n == 0 {
		return
	}
	if w > n {
		w = n
		if w%2 == 0 {
			w--
		}
	}
	half := w / 2
	curMin := minHash(ha[:w])
	for i := 0; i+w <= n; i++ {
		if i > 0 {
			if ha[i-1] == curMin {
				curMin = minHash(ha[i : i+w])
			} else if ha[i+w-1] < curMin {
				curMin = ha[i+w-1]
			}
		}
		if ha[i+half] == curMin && trusted(curMin) {
			emit(curMin)
		}
	}
}

func minHash(ha []uint64) uint64 {
	m := kmerhash.KMax
	for _, h := range ha {
		if h < m {
			m = h
		}
	}
	return m
}

// FindMinimizers promotes the HTake smallest distinct trusted hashes of s
// to landmarks and returns them in ascending order.
func (b *Builder) FindMinimizers(s bnt.Seq) []uint64 {
	b.sc.ha = b.hasher.Kmers(s, b.sc.ha)
	b.sc.hbest = topMinimizers(b.sc.ha, b.opt.HTake, b.sc.hbest, b.opt.Trusted)
	for _, h := range b.sc.hbest {
		b.earmark(h)
	}
	return append([]uint64(nil), b.sc.hbest...)
}

// TakeAllKmers promotes every trusted k-mer of s and returns how many
// k-mers were trusted.
func (b *Builder) TakeAllKmers(s bnt.Seq) (n int) {
	b.sc.ha = b.hasher.Kmers(s, b.sc.ha)
	for _, h := range b.sc.ha {
		if b.opt.Trusted(h) {
			b.earmark(h)
			n++
		}
	}
	return n
}

// FindLocalMinimizers promotes the trusted window minima of s.
func (b *Builder) FindLocalMinimizers(s bnt.Seq, windowSize int) (n int, err error) {
	if windowSize < 1 || windowSize%2 != 1 {
		return 0, fmt.Errorf("[FindLocalMinimizers] windowSize:%d must be odd", windowSize)
	}
	b.sc.ha = b.hasher.Kmers(s, b.sc.ha)
	localMinimizers(b.sc.ha, windowSize, b.opt.Trusted, func(h uint64) {
		b.earmark(h)
		n++
	})
	return n, nil
}

// FindSecondMinimizer makes sure s holds at least two distinct landmarks
// by promoting its smallest trusted non-landmark hashes. A read without any
// trusted k-mer is left alone.
func (b *Builder) FindSecondMinimizer(s bnt.Seq) error {
	b.sc.ha = b.hasher.Kmers(s, b.sc.ha)
	have := 0
	var first uint64
	for _, h := range b.sc.ha {
		if !b.IsLandmark(h) {
			continue
		}
		if have == 0 {
			first, have = h, 1
		} else if h != first {
			return nil
		}
	}
	cand := b.sc.hbest[:0]
	for _, h := range b.sc.ha {
		if !b.IsLandmark(h) && b.opt.Trusted(h) {
			cand = append(cand, h)
		}
	}
	b.sc.hbest = cand
	if len(cand) == 0 && have == 0 {
		return nil
	}
	sort.Slice(cand, func(i, j int) bool { return cand[i] < cand[j] })
	need := 2 - have
	prev := kmerhash.KMax
	for _, h := range cand {
		if need == 0 {
			break
		}
		if h == prev {
			continue
		}
		b.earmark(h)
		prev = h
		need--
	}
	if need > 0 {
		return fmt.Errorf("[FindSecondMinimizer] read len:%d holds %d landmark(s): %w", len(s), 2-need, ErrNoSecondMinimizer)
	}
	return nil
}

// selectRead runs the configured landmark mode over one read.
func (b *Builder) selectRead(s bnt.Seq) error {
	switch b.opt.Mode {
	case ModeMinimizers:
		b.FindMinimizers(s)
	case ModeLocalMinimizers:
		_, err := b.FindLocalMinimizers(s, b.opt.WindowSize)
		return err
	case ModeAllKmers:
		b.TakeAllKmers(s)
	default:
		return fmt.Errorf("[selectRead] unknown mode: %v", b.opt.Mode)
	}
	return nil
}

// candidates collects the landmarks one read would promote, using private
// scratch so that workers never share buffers.
func (b *Builder) candidates(s bnt.Seq, sc *scratch, found []uint64) []uint64 {
	sc.ha = b.hasher.Kmers(s, sc.ha)
	switch b.opt.Mode {
	case ModeMinimizers:
		sc.hbest = topMinimizers(sc.ha, b.opt.HTake, sc.hbest, b.opt.Trusted)
		found = append(found, sc.hbest...)
	case ModeLocalMinimizers:
		localMinimizers(sc.ha, b.opt.WindowSize, b.opt.Trusted, func(h uint64) { found = append(found, h) })
	case ModeAllKmers:
		for _, h := range sc.ha {
			if b.opt.Trusted(h) {
				found = append(found, h)
			}
		}
	}
	return found
}

// SelectLandmarks runs the configured mode over all reads and returns the
// number of new landmarks. With more than one worker the reads are split
// into ranges selected in parallel; the landmark set is only written after
// all workers are done.
func (b *Builder) SelectLandmarks(reads []bnt.Seq) (int, error) {
	before := len(b.earmarked)
	if b.opt.Workers <= 1 || len(reads) < 2 {
		for _, s := range reads {
			if err := b.selectRead(s); err != nil {
				return len(b.earmarked) - before, err
			}
		}
	} else {
		res := parallel.RangeReduce(0, len(reads), b.opt.Workers, func(low, high int) interface{} {
			var sc scratch
			var found []uint64
			for i := low; i < high; i++ {
				found = b.candidates(reads[i], &sc, found)
			}
			return found
		}, func(x, y interface{}) interface{} {
			return append(x.([]uint64), y.([]uint64)...)
		})
		for _, h := range res.([]uint64) {
			b.earmark(h)
		}
	}
	added := len(b.earmarked) - before
	log.Debugf("[SelectLandmarks] mode:%v reads:%d new landmarks:%d", b.opt.Mode, len(reads), added)
	return added, nil
}
