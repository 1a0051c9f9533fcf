package graph

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/mudesheng/lga/bnt"
)

type vertexRecord struct {
	ID, Conj VertexID
	Kmer     bnt.Seq
}

type edgeRecord struct {
	ID, Conj   EdgeID
	Start, End VertexID
	Nucls      bnt.Seq
	Raw        int64
}

type snapshot struct {
	K        int
	NumV     int
	NumE     int
	Vertices []vertexRecord
	Edges    []edgeRecord
}

// Save writes the live part of g as a zstd compressed gob stream.
func Save(g *MemGraph, fn string) error {
	fp, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("[Save] create file: %s failed: %w", fn, err)
	}
	defer fp.Close()
	zw, err := zstd.NewWriter(fp, zstd.WithEncoderCRC(false), zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(1))
	if err != nil {
		return fmt.Errorf("[Save] zstd writer: %w", err)
	}
	buffp := bufio.NewWriterSize(zw, 1<<20)

	snap := snapshot{K: g.k, NumV: len(g.vertices), NumE: len(g.edges)}
	for _, v := range g.Vertices() {
		snap.Vertices = append(snap.Vertices, vertexRecord{ID: v, Conj: g.vertices[v].conj, Kmer: g.vertices[v].kmer})
	}
	for _, e := range g.Edges() {
		ei := g.edges[e]
		snap.Edges = append(snap.Edges, edgeRecord{ID: e, Conj: ei.conj, Start: ei.start, End: ei.end, Nucls: ei.nucls, Raw: ei.raw})
	}
	if err := gob.NewEncoder(buffp).Encode(&snap); err != nil {
		zw.Close()
		return fmt.Errorf("[Save] encode graph: %w", err)
	}
	if err := buffp.Flush(); err != nil {
		zw.Close()
		return fmt.Errorf("[Save] failed to flush file: %s, err: %w", fn, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("[Save] close zstd: %w", err)
	}
	return nil
}

// Load reads a graph written by Save. IDs are preserved.
func Load(fn string) (*MemGraph, error) {
	fp, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("[Load] open file: %s failed: %w", fn, err)
	}
	defer fp.Close()
	zr, err := zstd.NewReader(fp, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("[Load] zstd reader: %w", err)
	}
	defer zr.Close()

	var snap snapshot
	if err := gob.NewDecoder(bufio.NewReader(zr)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("[Load] decode graph: %s: %w", fn, err)
	}
	g := NewMemGraph(snap.K)
	g.vertices = make([]vertexInfo, snap.NumV)
	g.edges = make([]edgeInfo, snap.NumE)
	for i := 0; i < snap.NumV; i++ {
		g.vDeleted.Set(uint(i))
	}
	for i := 0; i < snap.NumE; i++ {
		g.eDeleted.Set(uint(i))
	}
	for _, r := range snap.Vertices {
		if int(r.ID) >= snap.NumV || int(r.Conj) >= snap.NumV {
			return nil, fmt.Errorf("[Load] vertex %d out of range in %s", r.ID, fn)
		}
		g.vertices[r.ID] = vertexInfo{kmer: r.Kmer, conj: r.Conj}
		g.vDeleted.Clear(uint(r.ID))
		g.numV++
	}
	for _, r := range snap.Edges {
		if int(r.ID) >= snap.NumE || int(r.Conj) >= snap.NumE || !g.ContainsVertex(r.Start) || !g.ContainsVertex(r.End) {
			return nil, fmt.Errorf("[Load] edge %d inconsistent in %s", r.ID, fn)
		}
		g.edges[r.ID] = edgeInfo{start: r.Start, end: r.End, conj: r.Conj, nucls: r.Nucls, raw: r.Raw}
		g.vertices[r.Start].out = append(g.vertices[r.Start].out, r.ID)
		g.vertices[r.End].in = append(g.vertices[r.End].in, r.ID)
		g.eDeleted.Clear(uint(r.ID))
		g.numE++
	}
	return g, nil
}
