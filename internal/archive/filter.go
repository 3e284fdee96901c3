package archive

// Filter selects a browsing view of the archive.
type Filter struct {
	// Type restricts to one item type; "" or "all" keeps every type.
	Type ItemType
	// FolderID restricts to one folder.
	FolderID string
	// RootOnly keeps items that live at the archive root. Ignored when
	// FolderID is set.
	RootOnly bool
}

func (f Filter) Match(it Item) bool {
	if f.Type != "" && f.Type != "all" && it.Type != f.Type {
		return false
	}
	if f.FolderID != "" {
		return it.FolderID == f.FolderID
	}
	if f.RootOnly {
		return it.FolderID == ""
	}
	return true
}

// Apply returns the matching items in their original order.
func (f Filter) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
