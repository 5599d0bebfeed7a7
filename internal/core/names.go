package core

import (
	"github.com/cespare/xxhash/v2"
)

// nameIndex maps the xxhash of a name to the table positions carrying it,
// in declared order.
type nameIndex map[uint64][]int

func newNameIndex(entries []Entry) nameIndex {
	ix := make(nameIndex, len(entries))
	for i, e := range entries {
		h := xxhash.Sum64String(e.Name)
		ix[h] = append(ix[h], i)
	}
	return ix
}

// lookup returns the first declared position whose name equals name.
func (ix nameIndex) lookup(entries []Entry, name string) (int, bool) {
	for _, i := range ix[xxhash.Sum64String(name)] {
		if entries[i].Name == name {
			return i, true
		}
	}
	return -1, false
}
