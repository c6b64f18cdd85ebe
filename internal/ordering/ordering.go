// Package ordering produces the reproducible per-visitor random order used to
// list investments. The order is a pure function of the key and the ids, so
// every page of a listing can be cut from the same permutation without any
// shared generator state.
package ordering

import (
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Key returns the sort key of id under the given randomization key.
func Key(key string, id uint) uint64 {
	return xxhash.Sum64String(key + ":" + strconv.FormatUint(uint64(id), 10))
}

// Permute returns ids ordered ascending by Key, ties broken by id ascending.
// The input slice is not modified.
func Permute(key string, ids []uint) []uint {
	type entry struct {
		id uint
		k  uint64
	}
	entries := make([]entry, len(ids))
	for i, id := range ids {
		entries[i] = entry{id: id, k: Key(key, id)}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.k < b.k:
			return -1
		case a.k > b.k:
			return 1
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})

	out := make([]uint, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// Window returns the slice of ordered that falls on the given 1-indexed page.
// Pages past the end yield an empty slice.
func Window(ordered []uint, page, pageSize int) []uint {
	if page < 1 || pageSize < 1 {
		return []uint{}
	}
	pages := len(ordered) / pageSize
	if len(ordered)%pageSize != 0 {
		pages++
	}
	if page > pages {
		return []uint{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(ordered))
	return ordered[start:end]
}
