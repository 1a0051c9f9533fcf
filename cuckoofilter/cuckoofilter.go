// Package cuckoofilter counts k-mer hash occurrences in a compact counting
// cuckoo filter. Each slot packs a 13-bit fingerprint and a 3-bit count.
package cuckoofilter

import (
	"encoding/binary"
	"math/bits"
	"math/rand"

	"github.com/cespare/xxhash"
	"github.com/mudesheng/lga/bnt"
	"github.com/mudesheng/lga/kmerhash"
	log "github.com/sirupsen/logrus"
)

const (
	//NumFpBits number bits for Fingerprint
	NumFpBits = 13
	//NumCBits number bits for freq Count
	NumCBits = 3
	MaxC     = (1 << NumCBits) - 1
	CMask    = MaxC
	FpMask   = (1 << NumFpBits) - 1
)

const BucketSize = 4
const KMaxCount = 10000

var masks [65]uint64

func init() {
	for i := uint64(0); i < 64; i++ {
		masks[i] = (1 << i) - 1
	}
	masks[64] = ^uint64(0)
}

type Bucket [BucketSize]uint16

// CuckooFilter is single writer; Lookup may run concurrently once
// counting is done.
type CuckooFilter struct {
	Hash      []Bucket
	Count     uint
	BucketPow uint
	addFalse  int
	rnd       *rand.Rand
}

func upperpower2(x uint64) uint64 {
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	return x
}

// MakeCuckooFilter is for construct Cuckoo Filter
func MakeCuckooFilter(maxNumKeys uint64) *CuckooFilter {
	if maxNumKeys < BucketSize*2 {
		maxNumKeys = BucketSize * 2
	}
	numBuckets := upperpower2(maxNumKeys) / BucketSize
	cf := &CuckooFilter{
		Hash:      make([]Bucket, numBuckets),
		BucketPow: uint(bits.TrailingZeros64(numBuckets)),
		rnd:       rand.New(rand.NewSource(int64(numBuckets))),
	}
	log.Debugf("[MakeCuckooFilter]numBuckets:%d cf BucketPow:%d", len(cf.Hash), cf.BucketPow)
	return cf
}

func combineFpC(fp uint16, count uint16) uint16 {
	if count > MaxC {
		panic("count bigger than CFItem allowed")
	}
	return (fp << NumCBits) | count
}

func GetCount(fc uint16) uint16 { return fc & CMask }

func GetFinger(fc uint16) uint16 { return fc >> NumCBits }

// mix spreads k-mer hashes whose low bits are not random (the 2-bit hasher).
func mix(h uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], h)
	return xxhash.Sum64(b[:])
}

func getIndexAndFingerprint(hash uint64, bucketPow uint) (uint64, uint16) {
	fp := uint16(hash & FpMask)
	if fp == 0 {
		fp = 1
	}
	i1 := (hash >> NumFpBits) & masks[bucketPow]
	return i1, fp
}

func (cf *CuckooFilter) getAltIndex(fp uint16, i uint64) uint64 {
	return (i ^ (uint64(fp) * 0x5bd1e995)) & masks[cf.BucketPow]
}

func (b *Bucket) insert(fc uint16) bool {
	for i, tfc := range b {
		if tfc == 0 {
			b[i] = fc
			return true
		}
	}
	return false
}

func (b *Bucket) getFingerprintIndex(fp uint16) (int, uint16) {
	for i, tfc := range b {
		if tfc != 0 && GetFinger(tfc) == fp {
			return i, GetCount(tfc)
		}
	}
	return -1, 0
}

func (cf *CuckooFilter) reinsert(fc uint16, i uint64) bool {
	for k := 0; k < KMaxCount; k++ {
		j := cf.rnd.Intn(BucketSize)
		cf.Hash[i][j], fc = fc, cf.Hash[i][j]
		// look in the alternate location for that random element
		i = cf.getAltIndex(GetFinger(fc), i)
		if cf.Hash[i].insert(fc) {
			return true
		}
	}
	return false
}

func (cf *CuckooFilter) add1(i uint64, j int) {
	fc := cf.Hash[i][j]
	if GetCount(fc) < MaxC {
		cf.Hash[i][j] = combineFpC(GetFinger(fc), GetCount(fc)+1)
	}
}

// Insert counts one occurrence of hash and returns the count held before
// the call. It returns false when the filter is too full to place a new item.
func (cf *CuckooFilter) Insert(hash uint64) (uint16, bool) {
	hash = mix(hash)
	i1, fp := getIndexAndFingerprint(hash, cf.BucketPow)
	if j, c := cf.Hash[i1].getFingerprintIndex(fp); j >= 0 {
		cf.add1(i1, j)
		return c, true
	}
	i2 := cf.getAltIndex(fp, i1)
	if j, c := cf.Hash[i2].getFingerprintIndex(fp); j >= 0 {
		cf.add1(i2, j)
		return c, true
	}

	fc := combineFpC(fp, 1)
	if cf.Hash[i1].insert(fc) || cf.Hash[i2].insert(fc) {
		cf.Count++
		return 0, true
	}
	// select index
	i := i1
	if ((hash >> (NumFpBits + cf.BucketPow)) & 1) == 1 {
		i = i2
	}
	if cf.reinsert(fc, i) {
		cf.Count++
		return 0, true
	}
	cf.addFalse++
	return 0, false
}

// Lookup returns the saturating count recorded for hash.
func (cf *CuckooFilter) Lookup(hash uint64) (uint16, bool) {
	hash = mix(hash)
	i1, fp := getIndexAndFingerprint(hash, cf.BucketPow)
	if j, c := cf.Hash[i1].getFingerprintIndex(fp); j >= 0 {
		return c, true
	}
	i2 := cf.getAltIndex(fp, i1)
	if j, c := cf.Hash[i2].getFingerprintIndex(fp); j >= 0 {
		return c, true
	}
	return 0, false
}

// Trusted returns a policy accepting hashes counted at least minFreq times.
func (cf *CuckooFilter) Trusted(minFreq int) func(uint64) bool {
	if minFreq > MaxC {
		minFreq = MaxC
	}
	return func(h uint64) bool {
		c, ok := cf.Lookup(h)
		return ok && int(c) >= minFreq
	}
}

// CountReads inserts every k-mer hash of reads and returns the number of
// hashes the filter failed to place.
func (cf *CuckooFilter) CountReads(hasher kmerhash.Hasher, reads []bnt.Seq) (failed int) {
	var ha []uint64
	for _, s := range reads {
		ha = hasher.Kmers(s, ha)
		for _, h := range ha {
			if _, ok := cf.Insert(h); !ok {
				failed++
			}
		}
	}
	return failed
}

// Stat holds the count distribution of occupied slots.
type Stat struct {
	Counts   [MaxC + 1]int
	Items    int
	Load     float64
	AddFalse int
}

func (cf *CuckooFilter) GetStat() (st Stat) {
	for _, b := range cf.Hash {
		for _, e := range b {
			st.Counts[GetCount(e)]++
		}
	}
	for i := 1; i < MaxC+1; i++ {
		st.Items += st.Counts[i]
	}
	st.Load = float64(st.Items) / float64(len(cf.Hash)*BucketSize)
	st.AddFalse = cf.addFalse
	log.Infof("[GetStat]addFalseCount:%d cf contained Count:%d count statisticas:%v", cf.addFalse, cf.Count, st.Counts)
	log.Infof("[GetStat]cuckoofilter numItems:%d CountItems:%d load:%f", len(cf.Hash), st.Items, st.Load)
	return st
}
