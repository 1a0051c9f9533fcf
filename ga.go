package main

import (
	"github.com/jwaldrip/odin/cli"
)

const Kmerdef = 31

var app = cli.New("1.0.0", "Landmark Graph Assembler, sparse A-Bruijn graph construction from reads", func(c cli.Command) {})

func init() {
	app.DefineStringFlag("C", "lga.toml", "configure file")
	app.DefineStringFlag("cpuprofile", "", "write cpu profile to file")
	app.DefineIntFlag("K", Kmerdef, "kmer length")
	app.DefineStringFlag("p", "./lga", "prefix of the output file")
	app.DefineIntFlag("t", 1, "number of CPU used")
	app.DefineBoolFlag("Debug", false, "Enable Debug model[false]")
	build := app.DefineSubCommand("build", "select landmarks and construct the landmark graph", Build)
	{
		build.DefineStringFlag("Mode", "minimizers", "landmark selection mode[minimizers|local|all]")
		build.DefineIntFlag("HTake", 4, "number of smallest hashes taken per read in minimizers mode")
		build.DefineIntFlag("WinSize", 11, "odd size of sliding window in local mode")
		build.DefineStringFlag("Hasher", "xx", "kmer hash function[xx|lex]")
		build.DefineIntFlag("MinKmerFreq", 1, "Min Kmer Freq allown landmark, >1 counts kmers in a cuckoofilter")
		build.DefineInt64Flag("S", 0, "the Size number of items cuckoofilter set, default[0] for total kmers")
		build.DefineBoolFlag("SecondMinimizer", true, "make every read hold two landmarks")
		build.DefineBoolFlag("Tips", false, "collect tips and candidate extensions")
		build.DefineBoolFlag("MapReads", false, "record landmark positions per read")
		build.DefineBoolFlag("Graph", false, "output dot graph file")
	}
	smfy := app.DefineSubCommand("smfy", "Simplify landmark graph", Smfy)
	{
		smfy.DefineIntFlag("BucketWidth", 0, "coverage histogram smoothing width, default[0] derived from average coverage")
		smfy.DefineIntFlag("MedianMinLen", 500, "minimum edge length sampled for median coverage")
		smfy.DefineBoolFlag("Resolve", true, "split one-to-many branching vertices")
		smfy.DefineIntFlag("Rounds", 1, "number of resolve sweeps")
		smfy.DefineBoolFlag("Graph", false, "output dot graph file")
	}
}

func main() {
	app.Start()
}
