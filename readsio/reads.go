package readsio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/google/brotli/go/cbrotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mudesheng/lga/bnt"
	log "github.com/sirupsen/logrus"
)

// GetReadsFileFormat splits a reads file name into its sequence format
// ("fa", "fq" or "bam") and compression ("", "zst", "gz" or "br").
func GetReadsFileFormat(fn string) (format, compress string, err error) {
	sfn := strings.Split(filepath.Base(fn), ".")
	if len(sfn) < 2 {
		return "", "", fmt.Errorf("[GetReadsFileFormat] reads file: %v need suffix end with '*.[fa|fasta|fq|fastq][.zst|.gz|.br]' or '*.bam'", fn)
	}
	i := len(sfn) - 1
	switch sfn[i] {
	case "zst", "gz", "br":
		compress = sfn[i]
		i--
	}
	if i < 1 {
		return "", "", fmt.Errorf("[GetReadsFileFormat] reads file: %v has no format suffix", fn)
	}
	switch sfn[i] {
	case "fa", "fasta":
		format = "fa"
	case "fq", "fastq":
		format = "fq"
	case "bam":
		if compress != "" {
			return "", "", fmt.Errorf("[GetReadsFileFormat] bam file: %v must not be compressed again", fn)
		}
		format = "bam"
	default:
		return "", "", fmt.Errorf("[GetReadsFileFormat] reads file: %v need suffix end with '*.[fa|fasta|fq|fastq][.zst|.gz|.br]' or '*.bam'", fn)
	}
	return format, compress, nil
}

type multiCloser []io.Closer

func (mc multiCloser) Close() (err error) {
	for i := len(mc) - 1; i >= 0; i-- {
		if e := mc[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

type zstdCloser struct{ zr *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.zr.Close()
	return nil
}

func openReads(fn, compress string) (io.Reader, io.Closer, error) {
	fp, err := os.Open(fn)
	if err != nil {
		return nil, nil, fmt.Errorf("[openReads] open file: %v failed..., err: %w", fn, err)
	}
	closers := multiCloser{fp}
	switch compress {
	case "zst":
		zr, err := zstd.NewReader(fp, zstd.WithDecoderConcurrency(1))
		if err != nil {
			fp.Close()
			return nil, nil, fmt.Errorf("[openReads] zstd open file: %v failed..., err: %w", fn, err)
		}
		return zr, append(closers, zstdCloser{zr}), nil
	case "gz":
		gr, err := gzip.NewReader(fp)
		if err != nil {
			fp.Close()
			return nil, nil, fmt.Errorf("[openReads] gzip open file: %v failed..., err: %w", fn, err)
		}
		return gr, append(closers, gr), nil
	case "br":
		brfp := cbrotli.NewReader(fp)
		return brfp, append(closers, brfp), nil
	}
	return bufio.NewReaderSize(fp, 1<<20), closers, nil
}

func lettersToBytes(ls alphabet.Letters, buf []byte) []byte {
	buf = buf[:0]
	for _, l := range ls {
		buf = append(buf, byte(l))
	}
	return buf
}

// ReadSeqs appends the ACGT fragments of every read in fn that are at
// least minLen long to dst.
func ReadSeqs(fn string, minLen int, dst []bnt.Seq) ([]bnt.Seq, error) {
	format, compress, err := GetReadsFileFormat(fn)
	if err != nil {
		return dst, err
	}
	r, closer, err := openReads(fn, compress)
	if err != nil {
		return dst, err
	}
	defer closer.Close()

	var buf []byte
	switch format {
	case "fa":
		fafp := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
		for {
			s, err := fafp.Read()
			if err == io.EOF {
				break
			} else if err != nil {
				return dst, fmt.Errorf("[ReadSeqs] parse fasta file: %v err: %w", fn, err)
			}
			buf = lettersToBytes(s.(*linear.Seq).Seq, buf)
			dst = bnt.SplitACGT(buf, minLen, dst)
		}
	case "fq":
		fqfp := fastq.NewReader(r, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger))
		for {
			s, err := fqfp.Read()
			if err == io.EOF {
				break
			} else if err != nil {
				return dst, fmt.Errorf("[ReadSeqs] parse fastq file: %v err: %w", fn, err)
			}
			buf = buf[:0]
			for _, ql := range s.(*linear.QSeq).Seq {
				buf = append(buf, byte(ql.L))
			}
			dst = bnt.SplitACGT(buf, minLen, dst)
		}
	case "bam":
		bamfp, err := bam.NewReader(r, 1)
		if err != nil {
			return dst, fmt.Errorf("[ReadSeqs] create bam.NewReader err: %w", err)
		}
		defer bamfp.Close()
		for {
			rec, err := bamfp.Read()
			if err == io.EOF {
				break
			} else if err != nil {
				return dst, fmt.Errorf("[ReadSeqs] read bam file: %v err: %w", fn, err)
			}
			if rec.Flags&(sam.Secondary|sam.Supplementary) != 0 {
				continue
			}
			dst = bnt.SplitACGT(rec.Seq.Expand(), minLen, dst)
		}
	}
	return dst, nil
}

// LoadReads reads every file in order.
func LoadReads(fns []string, minLen int) (reads []bnt.Seq, err error) {
	for _, fn := range fns {
		before := len(reads)
		if reads, err = ReadSeqs(fn, minLen, reads); err != nil {
			return reads, err
		}
		log.Infof("[LoadReads] file: %s reads: %d", fn, len(reads)-before)
	}
	return reads, nil
}
