package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// runMetrics collects the gauges of one command and writes them as a
// node_exporter textfile.
type runMetrics struct {
	reg    *prometheus.Registry
	gauges map[string]prometheus.Gauge
}

func newRunMetrics(cmd, runID string) *runMetrics {
	m := &runMetrics{reg: prometheus.NewRegistry(), gauges: make(map[string]prometheus.Gauge)}
	factory := promauto.With(m.reg)
	for name, help := range map[string]string{
		"reads":              "reads threaded through the graph",
		"landmarks":          "distinct landmark hashes",
		"vertices":           "live graph vertices",
		"edges":              "live graph edges",
		"tips":               "landmarks seen on one side only",
		"tip_extensions":     "candidate tip extensions",
		"avg_coverage":       "length weighted average edge coverage",
		"median_coverage":    "median coverage of long edges",
		"coverage_threshold": "erroneous connection coverage threshold",
		"resolved_vertices":  "one-to-many vertices split",
		"kmer_filter_load":   "cuckoo filter load factor",
		"mapped_reads":       "reads whose landmark positions were recorded",
		"read_positions":     "landmark occurrences recorded in reads",
	} {
		m.gauges[name] = factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "lga",
			Subsystem:   cmd,
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"run": runID},
		})
	}
	return m
}

func (m *runMetrics) set(name string, v float64) {
	g, ok := m.gauges[name]
	if !ok {
		log.Fatalf("[runMetrics.set] unknown gauge: %s", name)
	}
	g.Set(v)
}

func (m *runMetrics) write(fn string) {
	if err := prometheus.WriteToTextfile(fn, m.reg); err != nil {
		log.Fatalf("[runMetrics.write] write file: %s err: %v", fn, err)
	}
}
