package content

import "sort"

// Collection is an ordered set of published documents sharing a layout,
// immutable once assembled for a render pass. Posts order by descending
// date; equal dates keep their store enumeration order.
type Collection struct {
	layout string
	docs   []Document
}

// Partition groups published documents by layout and assembles a Collection
// per layout. Unpublished documents are excluded everywhere.
func Partition(docs []Document) map[string]Collection {
	byLayout := make(map[string][]Document)
	for _, d := range docs {
		if !d.Fields.IsPublished() {
			continue
		}
		byLayout[d.Fields.Layout] = append(byLayout[d.Fields.Layout], d)
	}

	out := make(map[string]Collection, len(byLayout))
	for layout, members := range byLayout {
		sorted := make([]Document, len(members))
		copy(sorted, members)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date.After(sorted[j].Date)
		})
		out[layout] = Collection{layout: layout, docs: sorted}
	}
	return out
}

// Layout names the shared layout of the collection's members.
func (c Collection) Layout() string { return c.layout }

// Len reports the number of documents in the collection.
func (c Collection) Len() int { return len(c.docs) }

// Docs returns the ordered members. Callers must not mutate the slice.
func (c Collection) Docs() []Document { return c.docs }

// First returns the first n documents, or all of them when n is zero or
// negative. Listing pages apply their `limit` header through this; overflow
// beyond the first page is out of scope.
func (c Collection) First(n int) []Document {
	if n <= 0 || n >= len(c.docs) {
		return c.docs
	}
	return c.docs[:n]
}
