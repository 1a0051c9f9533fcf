package main

import (
	"time"

	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/lga/graph"
	"github.com/mudesheng/lga/simplify"
	"github.com/mudesheng/lga/utils"
	log "github.com/sirupsen/logrus"
)

type optionsSmfy struct {
	utils.ArgsOpt
	BucketWidth  int
	MedianMinLen int
	Resolve      bool
	Rounds       int
	Graph        bool
}

func checkArgsSmfy(c cli.Command) (opt optionsSmfy, succ bool) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if !suc {
		log.Fatalf("[checkArgsSmfy] check global Arguments error, opt: %v", gOpt)
	}
	opt.ArgsOpt = gOpt
	var ok bool
	opt.BucketWidth, ok = c.Flag("BucketWidth").Get().(int)
	if !ok || opt.BucketWidth < 0 {
		log.Fatalf("[checkArgsSmfy] argument 'BucketWidth': %v set error", c.Flag("BucketWidth").String())
	}
	opt.MedianMinLen, ok = c.Flag("MedianMinLen").Get().(int)
	if !ok || opt.MedianMinLen < 0 {
		log.Fatalf("[checkArgsSmfy] argument 'MedianMinLen': %v set error", c.Flag("MedianMinLen").String())
	}
	opt.Resolve, ok = c.Flag("Resolve").Get().(bool)
	if !ok {
		log.Fatalf("[checkArgsSmfy] argument 'Resolve': %v set error", c.Flag("Resolve").String())
	}
	opt.Rounds, ok = c.Flag("Rounds").Get().(int)
	if !ok || opt.Rounds < 1 {
		log.Fatalf("[checkArgsSmfy] argument 'Rounds': %v must >= 1", c.Flag("Rounds").String())
	}
	opt.Graph, ok = c.Flag("Graph").Get().(bool)
	if !ok {
		log.Fatalf("[checkArgsSmfy] argument 'Graph': %v set error", c.Flag("Graph").String())
	}
	return opt, true
}

func Smfy(c cli.Command) {
	t0 := time.Now()
	opt, suc := checkArgsSmfy(c)
	if !suc {
		log.Fatalf("[Smfy] check Arguments error, opt: %v", opt)
	}
	log.Infof("Arguments: %+v", opt)
	defer startCPUProfile(opt.Cpuprofile)()

	st, err := graph.StatReader(opt.Prefix + ".lga.stat")
	if err != nil {
		log.Fatalf("[Smfy] %v", err)
	}
	g, err := graph.Load(opt.Prefix + ".graph.zst")
	if err != nil {
		log.Fatalf("[Smfy] %v", err)
	}
	if g.K() != opt.Kmer {
		log.Fatalf("[Smfy] graph kmer: %d not equal to argument 'K': %d", g.K(), opt.Kmer)
	}
	log.Infof("[Smfy] run: %s vertices: %d edges: %d", st.RunID, g.VertexCount(), g.EdgeCount())
	m := newRunMetrics("smfy", st.RunID)

	tf := simplify.NewThresholdFinder(g, opt.BucketWidth)
	avg := tf.AvgCoverage()
	median := tf.Median(opt.MedianMinLen)
	thr := tf.FindThreshold()
	log.Infof("[Smfy] avg coverage: %.2f median coverage: %.2f threshold: %.2f", avg, median, thr)
	m.set("avg_coverage", avg)
	m.set("median_coverage", median)
	m.set("coverage_threshold", thr)

	resolved := 0
	if opt.Resolve {
		r := simplify.NewOneManyResolver(g)
		for i := 0; i < opt.Rounds; i++ {
			n, err := r.Resolve()
			if err != nil {
				log.Fatalf("[Smfy] resolve round %d: %v", i, err)
			}
			log.Infof("[Smfy] round %d resolved %d vertices", i, n)
			resolved += n
			if n == 0 {
				break
			}
		}
	}

	if err := graph.Save(g, opt.Prefix+".smfy.graph.zst"); err != nil {
		log.Fatalf("[Smfy] %v", err)
	}
	if _, err := graph.WriteEdgesFa(g, opt.Prefix+".edges.smfy.fa.zst"); err != nil {
		log.Fatalf("[Smfy] %v", err)
	}
	if opt.Graph {
		if err := graph.WriteDot(g, opt.Prefix+".smfy.dot"); err != nil {
			log.Fatalf("[Smfy] %v", err)
		}
	}
	st.Vertices, st.Edges, st.Threshold = g.VertexCount(), g.EdgeCount(), thr
	if err := graph.StatWriter(opt.Prefix+".smfy.stat", st); err != nil {
		log.Fatalf("[Smfy] %v", err)
	}
	m.set("vertices", float64(st.Vertices))
	m.set("edges", float64(st.Edges))
	m.set("landmarks", float64(st.Landmarks))
	m.set("resolved_vertices", float64(resolved))
	m.write(opt.Prefix + ".smfy.prom")
	log.Infof("[Smfy] total used: %v", time.Since(t0))
}
