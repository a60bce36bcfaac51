package flat

import "github.com/cespare/xxhash/v2"

// vtableIndex deduplicates vtables within one build: a map from the
// xxhash of a vtable's trimmed bytes to every position in buf currently
// holding a vtable with that hash. Collisions (two different vtables
// sharing a hash) are resolved by an exact byte compare against each
// candidate, so a hash collision can never corrupt the build — at worst
// it costs one extra comparison.
type vtableIndex struct {
	byHash map[uint64][]UOffsetT
}

func newVTableIndex() *vtableIndex {
	return &vtableIndex{byHash: make(map[uint64][]UOffsetT)}
}

func hashVTableBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// find returns the position of a previously stored vtable whose bytes
// equal want, or false if none exists yet.
func (idx *vtableIndex) find(buf []byte, h uint64, want []byte) (UOffsetT, bool) {
	for _, pos := range idx.byHash[h] {
		candidate := buf[pos:]
		if len(candidate) < len(want) {
			continue
		}
		if bytesEqual(candidate[:len(want)], want) {
			return pos, true
		}
	}
	return 0, false
}

func (idx *vtableIndex) insert(h uint64, pos UOffsetT) {
	idx.byHash[h] = append(idx.byHash[h], pos)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
