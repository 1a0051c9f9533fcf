package graph

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// WriteDot writes the live vertices and edges of g in graphviz format.
func WriteDot(g Reader, graphfn string) error {
	gv := gographviz.NewGraph()
	if err := gv.SetName("G"); err != nil {
		return fmt.Errorf("[WriteDot] %w", err)
	}
	if err := gv.SetDir(true); err != nil {
		return fmt.Errorf("[WriteDot] %w", err)
	}
	if err := gv.SetStrict(false); err != nil {
		return fmt.Errorf("[WriteDot] %w", err)
	}
	for _, v := range g.Vertices() {
		attr := make(map[string]string)
		attr["color"] = "Green"
		attr["shape"] = "record"
		attr["label"] = "\"" + strconv.Itoa(int(v)) + "|" + strconv.Itoa(int(g.ConjugateVertex(v))) + "\""
		if err := gv.AddNode("G", strconv.Itoa(int(v)), attr); err != nil {
			return fmt.Errorf("[WriteDot] add node %d: %w", v, err)
		}
	}
	for _, e := range g.Edges() {
		attr := make(map[string]string)
		attr["color"] = "Blue"
		attr["label"] = fmt.Sprintf("\"ID:%d len:%d cov:%.1f\"", e, g.Length(e), g.Coverage(e))
		if err := gv.AddEdge(strconv.Itoa(int(g.EdgeStart(e))), strconv.Itoa(int(g.EdgeEnd(e))), true, attr); err != nil {
			return fmt.Errorf("[WriteDot] add edge %d: %w", e, err)
		}
	}
	gfp, err := os.Create(graphfn)
	if err != nil {
		return fmt.Errorf("[WriteDot] create file: %s failed: %w", graphfn, err)
	}
	defer gfp.Close()
	if _, err := gfp.WriteString(gv.String()); err != nil {
		return fmt.Errorf("[WriteDot] write file: %s: %w", graphfn, err)
	}
	return nil
}

// WriteEdgesFa writes one fasta record per conjugate pair into a zstd
// compressed file. Header: >ID<tab>Start<tab>End<tab>len:L<tab>cov:C
func WriteEdgesFa(g Reader, edgesfn string) (count int, err error) {
	fp, err := os.Create(edgesfn)
	if err != nil {
		return 0, fmt.Errorf("[WriteEdgesFa] create file: %s failed: %w", edgesfn, err)
	}
	defer fp.Close()
	zw, err := zstd.NewWriter(fp, zstd.WithEncoderCRC(false), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(1))
	if err != nil {
		return 0, fmt.Errorf("[WriteEdgesFa] zstd writer: %w", err)
	}
	buffp := bufio.NewWriterSize(zw, 1<<20)
	for _, e := range g.Edges() {
		if ce := g.ConjugateEdge(e); ce < e {
			continue
		}
		fmt.Fprintf(buffp, ">%d\t%d\t%d\tlen:%d\tcov:%.2f\n%s\n", e, g.EdgeStart(e), g.EdgeEnd(e), g.Length(e), g.Coverage(e), g.EdgeNucls(e))
		count++
	}
	if err := buffp.Flush(); err != nil {
		zw.Close()
		return count, fmt.Errorf("[WriteEdgesFa] failed to flush file: %s, err: %w", edgesfn, err)
	}
	if err := zw.Close(); err != nil {
		return count, fmt.Errorf("[WriteEdgesFa] close zstd: %w", err)
	}
	return count, nil
}

// Stat summarises one run over a graph.
type Stat struct {
	RunID     string
	Vertices  int
	Edges     int
	Landmarks int
	Threshold float64
}

func NewStat(g Reader, landmarks int) Stat {
	return Stat{RunID: uuid.New().String(), Vertices: g.VertexCount(), Edges: g.EdgeCount(), Landmarks: landmarks}
}

func StatWriter(statfn string, st Stat) error {
	fp, err := os.Create(statfn)
	if err != nil {
		return fmt.Errorf("[StatWriter] file %s create error: %w", statfn, err)
	}
	defer fp.Close()
	fmt.Fprintf(fp, "run:\t%s\n", st.RunID)
	fmt.Fprintf(fp, "vertices size:\t%d\n", st.Vertices)
	fmt.Fprintf(fp, "edges size:\t%d\n", st.Edges)
	fmt.Fprintf(fp, "landmarks size:\t%d\n", st.Landmarks)
	if _, err := fmt.Fprintf(fp, "threshold:\t%f\n", st.Threshold); err != nil {
		return fmt.Errorf("[StatWriter] write %s: %w", statfn, err)
	}
	return nil
}

func StatReader(statfn string) (st Stat, err error) {
	fp, err := os.Open(statfn)
	if err != nil {
		return st, fmt.Errorf("[StatReader] file %s Open error: %w", statfn, err)
	}
	defer fp.Close()
	if _, err = fmt.Fscanf(fp, "run:\t%s\n", &st.RunID); err != nil {
		return st, fmt.Errorf("[StatReader] file: %v, run parse error: %w", statfn, err)
	}
	if _, err := uuid.Parse(st.RunID); err != nil {
		return st, fmt.Errorf("[StatReader] file: %v, bad run id %q: %w", statfn, st.RunID, err)
	}
	if _, err = fmt.Fscanf(fp, "vertices size:\t%d\n", &st.Vertices); err != nil {
		return st, fmt.Errorf("[StatReader] file: %v, vertices size parse error: %w", statfn, err)
	}
	if _, err = fmt.Fscanf(fp, "edges size:\t%d\n", &st.Edges); err != nil {
		return st, fmt.Errorf("[StatReader] file: %v, edges size parse error: %w", statfn, err)
	}
	if _, err = fmt.Fscanf(fp, "landmarks size:\t%d\n", &st.Landmarks); err != nil {
		return st, fmt.Errorf("[StatReader] file: %v, landmarks size parse error: %w", statfn, err)
	}
	if _, err = fmt.Fscanf(fp, "threshold:\t%f\n", &st.Threshold); err != nil {
		return st, fmt.Errorf("[StatReader] file: %v, threshold parse error: %w", statfn, err)
	}
	return st, nil
}
