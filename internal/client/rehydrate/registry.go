// Package rehydrate turns stored binary payloads into session references.
//
// A session reference is an opaque "blob:" string that is only meaningful to
// the Registry that minted it. It is never persisted: every load mints
// references again, and a reference must be released when its item leaves
// the in-memory view or the session ends.
package rehydrate

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/mediavault/internal/archive"
)

const refPrefix = archive.SessionRefScheme + "mediavault/"

type entry struct {
	itemID string
	bin    archive.LocalBinary
}

// Registry owns the live session references. It is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	byRef  map[string]entry
	byItem map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byRef:  make(map[string]entry),
		byItem: make(map[string]string),
	}
}

// Rehydrate returns it with SessionRef set when it carries a LocalBinary,
// and for photos Image set to the same reference. Other items are returned
// unchanged. An item that already has a live reference keeps it.
func (r *Registry) Rehydrate(it archive.Item) archive.Item {
	bin, ok := it.Binary()
	if !ok {
		return it
	}

	r.mu.Lock()
	ref, live := r.byItem[it.ID]
	if !live {
		ref = refPrefix + uuid.NewString()
		r.byItem[it.ID] = ref
	}
	r.byRef[ref] = entry{itemID: it.ID, bin: bin}
	r.mu.Unlock()

	it.SessionRef = ref
	if it.Type == archive.TypePhoto {
		it.Image = ref
	}
	return it
}

// RehydrateAll applies Rehydrate to every item and returns a new slice.
func (r *Registry) RehydrateAll(its []archive.Item) []archive.Item {
	out := make([]archive.Item, len(its))
	for i, it := range its {
		out[i] = r.Rehydrate(it)
	}
	return out
}

// Resolve returns the payload behind a live reference.
func (r *Registry) Resolve(ref string) (archive.LocalBinary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byRef[ref]
	return e.bin, ok
}

// Release revokes the reference minted for itemID. It reports whether one
// was live.
func (r *Registry) Release(itemID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.byItem[itemID]
	if !ok {
		return false
	}
	delete(r.byItem, itemID)
	delete(r.byRef, ref)
	return true
}

// Retain revokes every reference whose item is not in keep and returns how
// many were revoked.
func (r *Registry) Retain(keep map[string]struct{}) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, ref := range r.byItem {
		if _, ok := keep[id]; ok {
			continue
		}
		delete(r.byItem, id)
		delete(r.byRef, ref)
		n++
	}
	return n
}

// RevokeAll drops every live reference and returns how many there were.
func (r *Registry) RevokeAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.byRef)
	clear(r.byRef)
	clear(r.byItem)
	return n
}

// Len is the number of live references.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byRef)
}
