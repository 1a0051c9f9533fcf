package bnt

import "strings"

// BitNtCharUp maps the 2-bit base code to its upper case letter.
var BitNtCharUp = []byte{'A', 'C', 'G', 'T'}

// BntRev complements a 2-bit base code.
var BntRev = []byte{3, 2, 1, 0}

const (
	// NonNt marks a byte that is not an ACGT base.
	NonNt         = 4
	NumBitsInBase = 2
)

// Base2Bnt maps ASCII bases to 2-bit codes, NonNt for everything else.
var Base2Bnt [256]byte

var compBase [256]byte

func init() {
	for i := range Base2Bnt {
		Base2Bnt[i] = NonNt
		compBase[i] = 'N'
	}
	for i, c := range "ACGT" {
		Base2Bnt[c] = byte(i)
		Base2Bnt[c+('a'-'A')] = byte(i)
	}
	for _, p := range []string{"AT", "CG", "GC", "TA", "at", "cg", "gc", "ta"} {
		compBase[p[0]] = p[1]
	}
}

// Seq is an immutable nucleotide sequence.
type Seq string

func (s Seq) Len() int { return len(s) }

// Subseq returns s[i:j].
func (s Seq) Subseq(i, j int) Seq { return s[i:j] }

// Complement returns the reverse complement of s.
func (s Seq) Complement() Seq {
	rc := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		rc[len(s)-1-i] = compBase[s[i]]
	}
	return Seq(rc)
}

// Lesser reports whether s sorts strictly before its reverse complement.
// Palindromes are never lesser.
func (s Seq) Lesser() bool {
	return s < s.Complement()
}

// Canonical returns the smaller of s and its reverse complement.
func (s Seq) Canonical() Seq {
	if rc := s.Complement(); rc < s {
		return rc
	}
	return s
}

// Concat appends next to s dropping the first overlap bases of next.
func (s Seq) Concat(next Seq, overlap int) Seq {
	var sb strings.Builder
	sb.Grow(len(s) + len(next) - overlap)
	sb.WriteString(string(s))
	sb.WriteString(string(next[overlap:]))
	return Seq(sb.String())
}

func (s Seq) String() string { return string(s) }

// IsACGT reports whether every base of s is one of ACGT (upper case).
func (s Seq) IsACGT() bool {
	for i := 0; i < len(s); i++ {
		if s[i] != 'A' && s[i] != 'C' && s[i] != 'G' && s[i] != 'T' {
			return false
		}
	}
	return true
}

// SplitACGT upper-cases raw and cuts it at every non ACGT character,
// returning the fragments at least minLen long.
func SplitACGT(raw []byte, minLen int, dst []Seq) []Seq {
	start := -1
	buf := make([]byte, len(raw))
	for i, c := range raw {
		b := Base2Bnt[c]
		if b == NonNt {
			if start >= 0 && i-start >= minLen {
				dst = append(dst, Seq(buf[start:i]))
			}
			start = -1
			continue
		}
		buf[i] = BitNtCharUp[b]
		if start < 0 {
			start = i
		}
	}
	if start >= 0 && len(raw)-start >= minLen {
		dst = append(dst, Seq(buf[start:]))
	}
	return dst
}
