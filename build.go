package main

import (
	"os"
	"runtime/pprof"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/lga/abruijn"
	"github.com/mudesheng/lga/bnt"
	"github.com/mudesheng/lga/cuckoofilter"
	"github.com/mudesheng/lga/graph"
	"github.com/mudesheng/lga/kmerhash"
	"github.com/mudesheng/lga/readsio"
	"github.com/mudesheng/lga/utils"
	log "github.com/sirupsen/logrus"
)

type optionsBuild struct {
	utils.ArgsOpt
	Mode            abruijn.Mode
	HTake           int
	WinSize         int
	Hasher          string
	MinKmerFreq     int
	CFSize          int64
	SecondMinimizer bool
	Tips            bool
	MapReads        bool
	Graph           bool
}

func checkArgsBuild(c cli.Command) (opt optionsBuild, succ bool) {
	gOpt, suc := utils.CheckGlobalArgs(c.Parent())
	if !suc {
		log.Fatalf("[checkArgsBuild] check global Arguments error, opt: %v", gOpt)
	}
	opt.ArgsOpt = gOpt
	var err error
	if opt.Mode, err = abruijn.ParseMode(c.Flag("Mode").String()); err != nil {
		log.Fatalf("[checkArgsBuild] argument 'Mode': %v", err)
	}
	var ok bool
	opt.HTake, ok = c.Flag("HTake").Get().(int)
	if !ok || opt.HTake < 1 {
		log.Fatalf("[checkArgsBuild] argument 'HTake': %v set error", c.Flag("HTake").String())
	}
	opt.WinSize, ok = c.Flag("WinSize").Get().(int)
	if !ok || opt.WinSize < 1 || opt.WinSize%2 != 1 {
		log.Fatalf("[checkArgsBuild] argument 'WinSize': %v must be odd", c.Flag("WinSize").String())
	}
	opt.Hasher = c.Flag("Hasher").String()
	if opt.Hasher == "lex" {
		if msg := utils.CheckLexKmer(opt.Kmer); msg != "" {
			log.Fatalf("[checkArgsBuild] %s", msg)
		}
	}
	opt.MinKmerFreq, ok = c.Flag("MinKmerFreq").Get().(int)
	if !ok || opt.MinKmerFreq < 1 || opt.MinKmerFreq > cuckoofilter.MaxC {
		log.Fatalf("[checkArgsBuild] argument 'MinKmerFreq': %v must between 1~%d", c.Flag("MinKmerFreq").String(), cuckoofilter.MaxC)
	}
	opt.CFSize, ok = c.Flag("S").Get().(int64)
	if !ok || opt.CFSize < 0 {
		log.Fatalf("[checkArgsBuild] argument 'S': %v set error", c.Flag("S").String())
	}
	for name, dst := range map[string]*bool{
		"SecondMinimizer": &opt.SecondMinimizer,
		"Tips":            &opt.Tips,
		"MapReads":        &opt.MapReads,
		"Graph":           &opt.Graph,
	} {
		if *dst, ok = c.Flag(name).Get().(bool); !ok {
			log.Fatalf("[checkArgsBuild] argument '%s': %v set error", name, c.Flag(name).String())
		}
	}
	return opt, true
}

func startCPUProfile(fn string) func() {
	if fn == "" {
		return func() {}
	}
	fp, err := os.Create(fn)
	if err != nil {
		log.Fatalf("[startCPUProfile] create file: %s err: %v", fn, err)
	}
	if err := pprof.StartCPUProfile(fp); err != nil {
		log.Fatalf("[startCPUProfile] %v", err)
	}
	return func() {
		pprof.StopCPUProfile()
		fp.Close()
	}
}

// trustPolicy counts kmers in a cuckoofilter when a minimum frequency is
// requested, otherwise every kmer may become a landmark.
func trustPolicy(opt optionsBuild, hasher kmerhash.Hasher, reads []bnt.Seq, m *runMetrics) abruijn.TrustPolicy {
	if opt.MinKmerFreq <= 1 {
		return abruijn.TrustAll
	}
	size := uint64(opt.CFSize)
	if size == 0 {
		for _, s := range reads {
			size += uint64(len(s))
		}
	}
	cf := cuckoofilter.MakeCuckooFilter(size)
	if failed := cf.CountReads(hasher, reads); failed > 0 {
		log.Warnf("[trustPolicy] %d kmers could not be placed in the cuckoofilter, consider a larger 'S'", failed)
	}
	st := cf.GetStat()
	m.set("kmer_filter_load", st.Load)
	return cf.Trusted(opt.MinKmerFreq)
}

func Build(c cli.Command) {
	t0 := time.Now()
	opt, suc := checkArgsBuild(c)
	if !suc {
		log.Fatalf("[Build] check Arguments error, opt: %v", opt)
	}
	log.Infof("Arguments: %+v", opt)
	defer startCPUProfile(opt.Cpuprofile)()

	cfgInfo, err := readsio.ParseCfg(opt.CfgFn)
	if err != nil {
		log.Fatalf("[Build] %v", err)
	}
	reads, err := readsio.LoadReads(cfgInfo.ReadFiles(), utils.MaxInt(opt.Kmer, cfgInfo.MinRdLen))
	if err != nil {
		log.Fatalf("[Build] %v", err)
	}
	log.Infof("[Build] load reads: %d used: %v", len(reads), time.Since(t0))

	hasher, err := kmerhash.New(opt.Hasher, opt.Kmer)
	if err != nil {
		log.Fatalf("[Build] %v", err)
	}
	g := graph.NewMemGraph(opt.Kmer)
	stat := graph.NewStat(g, 0)
	m := newRunMetrics("build", stat.RunID)

	bo := abruijn.DefaultOptions()
	bo.Mode, bo.HTake, bo.WindowSize, bo.Workers = opt.Mode, opt.HTake, opt.WinSize, opt.NumCPU
	bo.Trusted = trustPolicy(opt, hasher, reads, m)
	b, err := abruijn.NewBuilder(g, hasher, bo)
	if err != nil {
		log.Fatalf("[Build] %v", err)
	}

	bar := pb.Full.Start64(int64(len(reads)))
	err = b.BuildGraph(reads, abruijn.BuildOptions{
		SecondMinimizer: opt.SecondMinimizer,
		MapReads:        opt.MapReads,
		Progress:        func(n int) { bar.Add(n) },
	})
	bar.Finish()
	if err != nil {
		log.Fatalf("[Build] %v", err)
	}
	if opt.Tips {
		b.ResolveTips(reads)
	}
	st := b.Finalize()

	if err := graph.Save(g, opt.Prefix+".graph.zst"); err != nil {
		log.Fatalf("[Build] %v", err)
	}
	if _, err := graph.WriteEdgesFa(g, opt.Prefix+".edges.fa.zst"); err != nil {
		log.Fatalf("[Build] %v", err)
	}
	if opt.Graph {
		if err := graph.WriteDot(g, opt.Prefix+".dot"); err != nil {
			log.Fatalf("[Build] %v", err)
		}
	}
	stat.Vertices, stat.Edges, stat.Landmarks = st.Vertices, st.Edges, st.Landmarks
	if err := graph.StatWriter(opt.Prefix+".lga.stat", stat); err != nil {
		log.Fatalf("[Build] %v", err)
	}

	m.set("reads", float64(st.Reads))
	m.set("landmarks", float64(st.Landmarks))
	m.set("vertices", float64(st.Vertices))
	m.set("edges", float64(st.Edges))
	m.set("tips", float64(st.Tips))
	m.set("tip_extensions", float64(st.TipExtensions))
	m.set("mapped_reads", float64(st.MappedReads))
	m.set("read_positions", float64(st.ReadPositions))
	m.write(opt.Prefix + ".build.prom")
	log.Infof("[Build] total used: %v", time.Since(t0))
}
