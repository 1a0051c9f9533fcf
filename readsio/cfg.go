// Package readsio loads the sequencing libraries named in the TOML
// configuration file.
package readsio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	// AsmFlagAll marks a library used by every assembly step.
	AsmFlagAll = 1
	// SeqProfileShort marks short accurate reads.
	SeqProfileShort = 1
)

type LibInfo struct {
	Name          string   `toml:"name"`           // name of library
	AsmFlag       uint8    `toml:"asm_flag"`       // 1 used for all step of assembly pipeline, 2 scaffold phase only, 3 filling gap only
	SeqProfile    uint8    `toml:"seq_profile"`    // denote the data origin
	QualBenchmark uint8    `toml:"qual_benchmark"` // the benchmark of quality score
	ReadLen       int      `toml:"read_len"`
	InsertSize    int      `toml:"avg_insert_len"` // paired read insert size
	InsertSD      int      `toml:"insert_SD"`      // Standard Deviation
	FnName        []string `toml:"files"`          // the files name slice
}

type CfgInfo struct {
	MaxRdLen int       `toml:"max_rd_len"` // maximum read length
	MinRdLen int       `toml:"min_rd_len"` // minimum read length
	Libs     []LibInfo `toml:"lib"`
}

// ParseCfg reads the TOML configuration. Relative file names are taken
// relative to the configuration file.
func ParseCfg(fn string) (cfgInfo CfgInfo, err error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return cfgInfo, fmt.Errorf("[ParseCfg] read cfg file: %s failed: %w", fn, err)
	}
	if err := toml.Unmarshal(data, &cfgInfo); err != nil {
		return cfgInfo, fmt.Errorf("[ParseCfg] parse cfg file: %s: %w", fn, err)
	}
	dir := filepath.Dir(fn)
	for i := range cfgInfo.Libs {
		lib := &cfgInfo.Libs[i]
		if lib.Name == "" {
			return cfgInfo, fmt.Errorf("[ParseCfg] lib %d without name in %s", i, fn)
		}
		for j, f := range lib.FnName {
			if _, _, err := GetReadsFileFormat(f); err != nil {
				return cfgInfo, fmt.Errorf("[ParseCfg] lib %s: %w", lib.Name, err)
			}
			if !filepath.IsAbs(f) {
				lib.FnName[j] = filepath.Join(dir, f)
			}
		}
	}
	if cfgInfo.MaxRdLen > 0 && cfgInfo.MinRdLen > cfgInfo.MaxRdLen {
		return cfgInfo, fmt.Errorf("[ParseCfg] min_rd_len:%d > max_rd_len:%d", cfgInfo.MinRdLen, cfgInfo.MaxRdLen)
	}
	return cfgInfo, nil
}

// ReadFiles returns the files of the libraries used for graph building.
func (cfg CfgInfo) ReadFiles() (fns []string) {
	for _, lib := range cfg.Libs {
		if lib.AsmFlag == AsmFlagAll || lib.SeqProfile == SeqProfileShort {
			fns = append(fns, lib.FnName...)
		}
	}
	return fns
}
