// Package reconcile builds the single display collection out of local and
// remote items.
package reconcile

import (
	"sort"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

// Merge concatenates local then remote, keeps the first occurrence of every
// id and orders the result newest first. Equal timestamps keep input order.
// Inputs are not modified.
func Merge(local, remote []archive.Item) []archive.Item {
	out := make([]archive.Item, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local)+len(remote))

	for _, src := range [][]archive.Item{local, remote} {
		for _, it := range src {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			out = append(out, it)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// IDs returns the set of ids in its.
func IDs(its []archive.Item) map[string]struct{} {
	ids := make(map[string]struct{}, len(its))
	for _, it := range its {
		ids[it.ID] = struct{}{}
	}
	return ids
}
