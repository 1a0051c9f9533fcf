// Package simplify runs whole-graph refinement passes over a finished
// landmark graph.
package simplify

import (
	"math"
	"sort"

	"github.com/mudesheng/lga/graph"
	"github.com/mudesheng/lga/utils"
	log "github.com/sirupsen/logrus"
)

// DefaultMedianMinLen is the edge length above which Median samples edges.
const DefaultMedianMinLen = 500

// Histogram counts interesting edges per rounded coverage bucket.
type Histogram map[int]int

// MaxKey returns the largest bucket, -1 for an empty histogram.
func (h Histogram) MaxKey() int {
	m := -1
	for k := range h {
		if k > m {
			m = k
		}
	}
	return m
}

// ThresholdFinder estimates the coverage below which short connections
// between branching vertices are likely erroneous. It never mutates the
// graph.
type ThresholdFinder struct {
	g           graph.Reader
	bucketWidth int
}

// NewThresholdFinder uses bucketWidth for the smoothing kernel, or a width
// derived from the average coverage when bucketWidth is 0.
func NewThresholdFinder(g graph.Reader, bucketWidth int) *ThresholdFinder {
	return &ThresholdFinder{g: g, bucketWidth: bucketWidth}
}

// sameEdgePair reports whether two 2-edge lists hold the same edges.
func sameEdgePair(a, b []graph.EdgeID) bool {
	if len(a) != 2 || len(b) != 2 {
		return false
	}
	return (a[0] == b[0] && a[1] == b[1]) || (a[0] == b[1] && a[1] == b[0])
}

// IsInteresting reports whether e is a short connection leaving a branching
// vertex and entering a merging one, excluding simple two-edge bulges.
func (tf *ThresholdFinder) IsInteresting(e graph.EdgeID) bool {
	g := tf.g
	if g.Length(e) > g.K()+1 {
		return false
	}
	start, end := g.EdgeStart(e), g.EdgeEnd(e)
	if g.OutgoingEdgeCount(start) < 2 || g.IncomingEdgeCount(end) < 2 {
		return false
	}
	if sameEdgePair(g.OutgoingEdges(start), g.IncomingEdges(end)) {
		return false
	}
	return true
}

// ConstructHistogram buckets the rounded coverage of every interesting edge.
func (tf *ThresholdFinder) ConstructHistogram() Histogram {
	h := make(Histogram)
	for _, e := range tf.g.Edges() {
		if tf.IsInteresting(e) {
			h[int(math.Round(tf.g.Coverage(e)))]++
		}
	}
	return h
}

// weight smooths the histogram at val with a triangular kernel of width bw.
func weight(val int, h Histogram, bw, size int) int {
	w := 0
	for i := 0; i < bw && val+i < size; i++ {
		w += h[val+i] * utils.MinInt(i+1, bw-i)
	}
	return w
}

// AvgCoverage is the length weighted mean coverage of all edges.
func (tf *ThresholdFinder) AvgCoverage() float64 {
	var cov, length float64
	for _, e := range tf.g.Edges() {
		l := float64(tf.g.Length(e))
		cov += tf.g.Coverage(e) * l
		length += l
	}
	if length == 0 {
		return 0
	}
	return cov / length
}

// Median returns the median coverage of edges longer than minLen, 0 when
// there are none.
func (tf *ThresholdFinder) Median(minLen int) float64 {
	var covs []float64
	for _, e := range tf.g.Edges() {
		if tf.g.Length(e) > minLen {
			covs = append(covs, tf.g.Coverage(e))
		}
	}
	if len(covs) == 0 {
		return 0
	}
	sort.Float64s(covs)
	return covs[len(covs)/2]
}

// FindThresholdIn scans the smoothed histogram for the first point where
// rising weights outnumber falling ones over a bucket width. Without such
// a point it falls back to a tenth of the average coverage.
func (tf *ThresholdFinder) FindThresholdIn(h Histogram) float64 {
	avg := tf.AvgCoverage()
	bw := tf.bucketWidth
	if bw <= 0 {
		bw = int(0.3*avg + 5)
	}
	size := h.MaxKey() + 1
	cnt := 0
	for i := 1; i+bw < size; i++ {
		if weight(i, h, bw, size) > weight(i-1, h, bw, size) {
			cnt++
		}
		if i > bw && weight(i-bw, h, bw, size) > weight(i-bw-1, h, bw, size) {
			cnt--
		}
		if 2*cnt >= bw {
			log.Debugf("[FindThresholdIn] bucketWidth:%d threshold:%d", bw, i)
			return float64(i)
		}
	}
	log.Infof("[FindThresholdIn] proper threshold was not found, threshold set to 0.1 of average coverage:%.2f", avg)
	return 0.1 * avg
}

// FindThreshold returns the erroneous connection coverage threshold. It is
// never below the average coverage; an empty graph yields 0.
func (tf *ThresholdFinder) FindThreshold() float64 {
	if tf.g.EdgeCount() == 0 {
		return 0
	}
	avg := tf.AvgCoverage()
	thr := tf.FindThresholdIn(tf.ConstructHistogram())
	log.Infof("[FindThreshold] average coverage:%.2f histogram threshold:%.2f", avg, thr)
	return math.Max(avg, thr)
}
