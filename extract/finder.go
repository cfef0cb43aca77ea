package extract

import (
	"github.com/use-agent/deckscope/jsonvalue"
)

// IsCardLike reports whether a single array element structurally resembles
// a card reference.
//
// Card-like means the same thing the normalizer needs to name an entry, so
// every entry returned by FindCardLists can be normalized.
func IsCardLike(v *jsonvalue.Value) bool {
	_, ok := CardName(v)
	return ok
}

// FindCardLists walks root and returns the entries of every array whose
// elements are all card-like, concatenated in discovery order.
//
// A qualifying array is taken whole and not descended into, so card
// internals (printings, faces, tags) are never mistaken for more cards.
// found is false when nothing qualified; that is not an error.
func FindCardLists(root *jsonvalue.Value) (entries []*jsonvalue.Value, found bool) {
	visited := make(map[uint64]struct{})

	var walk func(node *jsonvalue.Value)
	walk = func(node *jsonvalue.Value) {
		switch node.Kind() {
		case jsonvalue.Array:
			if _, seen := visited[node.ID()]; seen {
				return
			}
			visited[node.ID()] = struct{}{}

			items := node.Items()
			if len(items) > 0 && allCardLike(items) {
				entries = append(entries, items...)
				found = true
				return
			}
			for _, item := range items {
				walk(item)
			}
		case jsonvalue.Object:
			if _, seen := visited[node.ID()]; seen {
				return
			}
			visited[node.ID()] = struct{}{}
			for _, m := range node.Members() {
				walk(m.Value)
			}
		}
	}

	walk(root)
	return entries, found
}

func allCardLike(items []*jsonvalue.Value) bool {
	for _, item := range items {
		if !IsCardLike(item) {
			return false
		}
	}
	return true
}
