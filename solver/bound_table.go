package solver

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const entrySize = 8

const bottom3ByteMask = (1 << 24) - 1

// 8 bytes (entrySize)
type tableEntry struct {
	// Don't store the full hash, but the top 5 bytes. The bottom 3 bytes
	// can be determined from the bucket in the array.
	top4bytes uint32
	fifthbyte uint8
	bound     uint8
	occupied  uint8
	_         uint8
}

// fullHash reconstructs the full 64-bit hash for this entry, given the
// bottom bytes in idx.
func (t tableEntry) fullHash(idx uint64) uint64 {
	return uint64(t.top4bytes)<<32 + uint64(t.fifthbyte)<<24 + (idx & bottom3ByteMask)
}

func (t tableEntry) valid() bool {
	return t.occupied != 0
}

// BoundTable caches proven lower bounds on cost-to-go per board state.
// A cached bound can only tighten the heuristic, never relax it, so the
// search stays admissible. Entries are stored and overwritten without
// locking; the partial-hash check rejects mismatched reads, and the
// worst a genuine 64-bit collision can do is what it can do in any
// hash-keyed table.
type BoundTable struct {
	table        []tableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	t2collisions atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
}

// GlobalBoundTable is a singleton instance. The table claims a sizable
// chunk of memory when enabled, so it is shared across solve calls to
// avoid re-allocation costs.
var GlobalBoundTable = &BoundTable{}

// hashKey scrambles the packed board encoding before indexing. The
// packed nibbles have badly distributed low bits, so they go through
// xxhash first.
func hashKey(packed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], packed)
	return xxhash.Sum64(buf[:])
}

// Lookup returns the cached lower bound for the packed board encoding,
// or 0 if no entry is present.
func (t *BoundTable) Lookup(packed uint64) int {
	t.lookups.Add(1)
	key := hashKey(packed)
	idx := key & t.sizeMask
	entry := t.table[idx]
	if entry.fullHash(idx) != key {
		if entry.valid() {
			// There is another unrelated state at this bucket.
			t.t2collisions.Add(1)
		}
		return 0
	}
	t.hits.Add(1)
	return int(entry.bound)
}

// Store records a proven lower bound for the packed board encoding,
// overwriting whatever is in the bucket.
func (t *BoundTable) Store(packed uint64, bound int) {
	if bound > 255 {
		// Never happens on a 4×4 board; kept so the uint8 narrowing can't
		// silently wrap.
		bound = 255
	}
	key := hashKey(packed)
	idx := key & t.sizeMask
	t.table[idx] = tableEntry{
		top4bytes: uint32(key >> 32),
		fifthbyte: uint8(key >> 24),
		bound:     uint8(bound),
		occupied:  1,
	}
	t.created.Add(1)
}

// Reset sizes the table to a fraction of total system memory and clears
// it. The table always has at least 2^24 entries; anything less and the
// 5-byte full hash proxy won't work.
func (t *BoundTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = int(math.Log2(desiredNElems))
	if t.sizePowerOf2 < 24 {
		t.sizePowerOf2 = 24
	}
	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	if t.table != nil && len(t.table) == numElems {
		clear(t.table)
	} else {
		t.table = make([]tableEntry, numElems)
	}
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
	log.Debug().Int("size-power-of-2", t.sizePowerOf2).Msg("bound-table-reset")
}

func (t *BoundTable) Created() uint64 {
	return t.created.Load()
}

func (t *BoundTable) Lookups() uint64 {
	return t.lookups.Load()
}

func (t *BoundTable) Hits() uint64 {
	return t.hits.Load()
}
