package readsio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/google/brotli/go/cbrotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mudesheng/lga/bnt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFa = ">r1\nACGTACGGTA\nCCGTT\n>r2 desc\nacgtnnGGTACCA\n>r3\nAC\n"

const testFq = "@r1\nACGTACGGTANCCGTT\n+\nIIIIIIIIIIIIIIII\n@r2\nGGTACCA\n+\nIIIIIII\n"

func writeCompressed(t *testing.T, fn, content string) {
	t.Helper()
	fp, err := os.Create(fn)
	require.NoError(t, err)
	defer fp.Close()
	var w io.WriteCloser
	switch filepath.Ext(fn) {
	case ".zst":
		w, err = zstd.NewWriter(fp, zstd.WithEncoderCRC(false), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(1))
		require.NoError(t, err)
	case ".gz":
		w = gzip.NewWriter(fp)
	case ".br":
		w = cbrotli.NewWriter(fp, cbrotli.WriterOptions{Quality: 1, LGWin: 21})
	default:
		_, err = fp.WriteString(content)
		require.NoError(t, err)
		return
	}
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestGetReadsFileFormat(t *testing.T) {
	for fn, want := range map[string][2]string{
		"a.fa":            {"fa", ""},
		"dir/a.fasta.zst": {"fa", "zst"},
		"a.fq.gz":         {"fq", "gz"},
		"a.b.fastq.br":    {"fq", "br"},
		"a.bam":           {"bam", ""},
	} {
		format, compress, err := GetReadsFileFormat(fn)
		require.NoError(t, err, fn)
		assert.Equal(t, want, [2]string{format, compress}, fn)
	}
	for _, fn := range []string{"a", "a.zst", "a.txt.gz", "a.bam.gz"} {
		_, _, err := GetReadsFileFormat(fn)
		assert.Error(t, err, fn)
	}
}

func TestReadSeqsFasta(t *testing.T) {
	dir := t.TempDir()
	want := []bnt.Seq{"ACGTACGGTACCGTT", "GGTACCA"}
	for _, name := range []string{"r.fa", "r.fa.zst", "r.fa.gz", "r.fa.br"} {
		fn := filepath.Join(dir, name)
		writeCompressed(t, fn, testFa)
		reads, err := ReadSeqs(fn, 5, nil)
		require.NoError(t, err, name)
		assert.Equal(t, want, reads, name)
	}
}

func TestReadSeqsFastq(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "r.fq.zst")
	writeCompressed(t, fn, testFq)
	reads, err := ReadSeqs(fn, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, []bnt.Seq{"ACGTACGGTA", "CCGTT", "GGTACCA"}, reads)
}

func TestReadSeqsBam(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "r.bam")
	fp, err := os.Create(fn)
	require.NoError(t, err)
	h, err := sam.NewHeader(nil, nil)
	require.NoError(t, err)
	bw, err := bam.NewWriter(fp, h, 1)
	require.NoError(t, err)
	for i, seq := range []string{"ACGTACGGTA", "GGGGGGGGGG", "TTACCA"} {
		qual := make([]byte, len(seq))
		for j := range qual {
			qual[j] = 30
		}
		rec, err := sam.NewRecord("r"+string(rune('0'+i)), nil, nil, -1, -1, 0, 0, nil, []byte(seq), qual, nil)
		require.NoError(t, err)
		rec.Flags = sam.Unmapped
		if i == 1 {
			rec.Flags |= sam.Secondary
		}
		require.NoError(t, bw.Write(rec))
	}
	require.NoError(t, bw.Close())
	require.NoError(t, fp.Close())

	reads, err := ReadSeqs(fn, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, []bnt.Seq{"ACGTACGGTA", "TTACCA"}, reads)
}

func TestParseCfg(t *testing.T) {
	dir := t.TempDir()
	cfgfn := filepath.Join(dir, "lga.toml")
	cfg := `max_rd_len = 250
min_rd_len = 31

[[lib]]
name = "PE1"
asm_flag = 1
seq_profile = 1
avg_insert_len = 300
files = ["pe_1.fq.zst", "/data/pe_2.fq.zst"]

[[lib]]
name = "ONT"
asm_flag = 3
seq_profile = 2
files = ["ont.fa.br"]
`
	require.NoError(t, os.WriteFile(cfgfn, []byte(cfg), 0o644))
	info, err := ParseCfg(cfgfn)
	require.NoError(t, err)
	assert.Equal(t, 250, info.MaxRdLen)
	require.Len(t, info.Libs, 2)
	assert.Equal(t, 300, info.Libs[0].InsertSize)
	assert.Equal(t, []string{filepath.Join(dir, "pe_1.fq.zst"), "/data/pe_2.fq.zst"}, info.ReadFiles())

	require.NoError(t, os.WriteFile(cfgfn, []byte("[[lib]]\nname = \"x\"\nfiles = [\"x.txt\"]\n"), 0o644))
	_, err = ParseCfg(cfgfn)
	assert.Error(t, err)
}

func TestLoadReads(t *testing.T) {
	dir := t.TempDir()
	fa, fq := filepath.Join(dir, "a.fa"), filepath.Join(dir, "b.fq")
	writeCompressed(t, fa, testFa)
	writeCompressed(t, fq, testFq)
	reads, err := LoadReads([]string{fa, fq}, 7)
	require.NoError(t, err)
	assert.Equal(t, []bnt.Seq{"ACGTACGGTACCGTT", "GGTACCA", "ACGTACGGTA", "GGTACCA"}, reads)
	_, err = LoadReads([]string{filepath.Join(dir, "missing.fa")}, 7)
	assert.Error(t, err)
}
