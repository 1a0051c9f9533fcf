package utils

import (
	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/lga/kmerhash"
	log "github.com/sirupsen/logrus"
)

type ArgsOpt struct {
	Prefix     string
	Kmer       int
	NumCPU     int
	CfgFn      string
	Cpuprofile string
	Debug      bool
}

// return global arguments and check if successed
func CheckGlobalArgs(c cli.Command) (opt ArgsOpt, succ bool) {
	opt.Prefix = c.Flag("p").String()
	if opt.Prefix == "" {
		log.Fatalf("[CheckGlobalArgs] args 'p' not set")
	}
	opt.CfgFn = c.Flag("C").String()
	if opt.CfgFn == "" {
		log.Fatalf("[CheckGlobalArgs] args 'C' not set")
	}
	opt.Cpuprofile = c.Flag("cpuprofile").String()

	var ok bool
	opt.Kmer, ok = c.Flag("K").Get().(int)
	if !ok {
		log.Fatalf("[CheckGlobalArgs] args 'K' : %v set error", c.Flag("K").String())
	}
	if err := CheckKmer(opt.Kmer); err != "" {
		log.Fatalf("[CheckGlobalArgs] %s", err)
	}
	opt.NumCPU, ok = c.Flag("t").Get().(int)
	if !ok || opt.NumCPU < 1 {
		log.Fatalf("[CheckGlobalArgs] args 't': %v set error", c.Flag("t").String())
	}
	opt.Debug, ok = c.Flag("Debug").Get().(bool)
	if !ok {
		log.Fatalf("[CheckGlobalArgs] args 'Debug': %v set error", c.Flag("Debug").String())
	}
	if opt.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return opt, true
}

// CheckKmer returns a message describing why k is not a usable kmer
// length, or "" when it is.
func CheckKmer(k int) string {
	if k < 3 {
		return "the argument 'K' must be at least 3"
	} else if k%2 != 1 {
		return "the argument 'K' must odd Number"
	}
	return ""
}

// CheckLexKmer additionally bounds k for the 2-bit packed hasher.
func CheckLexKmer(k int) string {
	if msg := CheckKmer(k); msg != "" {
		return msg
	}
	if k > kmerhash.MaxLexK {
		return "the argument 'K' must small than 32 for the lex hasher"
	}
	return ""
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	} else {
		return a
	}
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	} else {
		return b
	}
}

func MinInt(a, b int) int {
	if a > b {
		return b
	} else {
		return a
	}
}
