package abruijn

import (
	"fmt"

	"github.com/mudesheng/lga/bnt"
	log "github.com/sirupsen/logrus"
)

type BuildOptions struct {
	// SecondMinimizer repairs reads left with fewer than two landmarks.
	SecondMinimizer bool
	// MapReads records landmark occurrences per read.
	MapReads bool
	// Progress, when set, is called with the number of reads threaded.
	Progress func(n int)
}

// BuildGraph selects landmarks over all reads and then threads every read
// through the graph. Reads shorter than K contribute nothing.
func (b *Builder) BuildGraph(reads []bnt.Seq, bo BuildOptions) error {
	added, err := b.SelectLandmarks(reads)
	if err != nil {
		return fmt.Errorf("[BuildGraph] select landmarks: %w", err)
	}
	log.Infof("[BuildGraph] mode:%v landmarks:%d", b.opt.Mode, added)
	if bo.SecondMinimizer {
		var missed int
		for _, s := range reads {
			if err := b.FindSecondMinimizer(s); err != nil {
				log.Debugf("[BuildGraph] %v", err)
				missed++
			}
		}
		log.Infof("[BuildGraph] second minimizer pass landmarks:%d reads without second landmark:%d", len(b.earmarked), missed)
	}
	const step = 1000
	for i, s := range reads {
		if err := b.AddToGraph(s); err != nil {
			return fmt.Errorf("[BuildGraph] read %d: %w", i, err)
		}
		if bo.MapReads {
			b.MapToReads(s)
		}
		if bo.Progress != nil && (i+1)%step == 0 {
			bo.Progress(step)
		}
	}
	if bo.Progress != nil {
		bo.Progress(len(reads) % step)
	}
	log.Infof("[BuildGraph] vertices:%d edges:%d", b.g.VertexCount(), b.g.EdgeCount())
	return nil
}
