// Package kmerhash hashes every k-mer of a read into a strand symmetric
// 64-bit value: a k-mer and its reverse complement hash identically.
package kmerhash

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash"
	"github.com/mudesheng/lga/bnt"
)

// KMax is the sentinel meaning "no hash"; hashers never emit it.
const KMax = uint64(math.MaxUint64)

// MaxLexK is the largest k-mer length the 2-bit hasher can pack.
const MaxLexK = 31

// Hasher fills buf with the hash of every k-mer of s in read order and
// returns it. A read shorter than K yields an empty slice.
type Hasher interface {
	K() int
	Kmers(s bnt.Seq, buf []uint64) []uint64
}

// New returns the hasher registered under name ("xx" or "lex").
func New(name string, k int) (Hasher, error) {
	if k < 1 {
		return nil, fmt.Errorf("[kmerhash.New] kmer length %d must be positive", k)
	}
	switch name {
	case "xx", "":
		return XXHasher{k: k}, nil
	case "lex":
		if k > MaxLexK {
			return nil, fmt.Errorf("[kmerhash.New] lex hasher kmer length %d > %d", k, MaxLexK)
		}
		return LexHasher{k: k}, nil
	}
	return nil, fmt.Errorf("[kmerhash.New] unknown hasher: %q", name)
}

func numKmers(s bnt.Seq, k int) int {
	if len(s) < k {
		return 0
	}
	return len(s) - k + 1
}

// XXHasher hashes the forward and reverse complement strings with xxhash
// and keeps the smaller value.
type XXHasher struct{ k int }

func NewXXHasher(k int) XXHasher { return XXHasher{k: k} }

func (h XXHasher) K() int { return h.k }

func (h XXHasher) Kmers(s bnt.Seq, buf []uint64) []uint64 {
	buf = buf[:0]
	n := numKmers(s, h.k)
	if n == 0 {
		return buf
	}
	rs := string(s.Complement())
	fs := string(s)
	for i := 0; i < n; i++ {
		fw := xxhash.Sum64String(fs[i : i+h.k])
		rc := xxhash.Sum64String(rs[len(s)-i-h.k : len(s)-i])
		if rc < fw {
			fw = rc
		}
		if fw == KMax {
			fw--
		}
		buf = append(buf, fw)
	}
	return buf
}

// LexHasher packs the canonical k-mer into 2 bits per base, so hash order
// equals lexicographic order of canonical k-mers. K must not exceed MaxLexK.
// Reads must hold only ACGT bases (see bnt.SplitACGT); Kmers panics on
// any other byte.
type LexHasher struct{ k int }

func NewLexHasher(k int) LexHasher {
	if k > MaxLexK {
		panic(fmt.Sprintf("[NewLexHasher] kmer length %d > %d", k, MaxLexK))
	}
	return LexHasher{k: k}
}

func (h LexHasher) K() int { return h.k }

func (h LexHasher) Kmers(s bnt.Seq, buf []uint64) []uint64 {
	buf = buf[:0]
	if numKmers(s, h.k) == 0 {
		return buf
	}
	mask := uint64(1)<<(uint(h.k)*bnt.NumBitsInBase) - 1
	shift := uint(h.k-1) * bnt.NumBitsInBase
	var fw, rc uint64
	for i := 0; i < len(s); i++ {
		c := bnt.Base2Bnt[s[i]]
		if c == bnt.NonNt {
			panic(fmt.Sprintf("[LexHasher.Kmers] non ACGT base %q at %d", s[i], i))
		}
		b := uint64(c)
		fw = ((fw << bnt.NumBitsInBase) | b) & mask
		rc = (rc >> bnt.NumBitsInBase) | (uint64(bnt.BntRev[b]) << shift)
		if i+1 < h.k {
			continue
		}
		if rc < fw {
			buf = append(buf, rc)
		} else {
			buf = append(buf, fw)
		}
	}
	return buf
}
