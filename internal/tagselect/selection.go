// ABOUTME: Immutable set of selected tag identifiers.
// ABOUTME: Every mutator returns a new Selection; the receiver is never changed.

package tagselect

import (
	"sort"
	"strings"
)

// Selection is a set of tag IDs. The zero value is an empty selection.
// Selections are values: With, Without and Toggle return a copy, so a
// Selection handed to a callback can be kept without defensive copying.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection holding ids. Duplicates collapse.
func NewSelection(ids ...string) Selection {
	if len(ids) == 0 {
		return Selection{}
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Selection{ids: set}
}

func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the members in ascending order.
func (s Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s Selection) With(id string) Selection {
	if s.Has(id) {
		return s
	}
	next := s.clone(1)
	next[id] = struct{}{}
	return Selection{ids: next}
}

func (s Selection) Without(id string) Selection {
	if !s.Has(id) {
		return s
	}
	next := s.clone(0)
	delete(next, id)
	return Selection{ids: next}
}

// Toggle adds id when absent and removes it when present.
func (s Selection) Toggle(id string) Selection {
	if s.Has(id) {
		return s.Without(id)
	}
	return s.With(id)
}

func (s Selection) Equal(other Selection) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

func (s Selection) String() string {
	return "{" + strings.Join(s.IDs(), ", ") + "}"
}

func (s Selection) clone(extra int) map[string]struct{} {
	next := make(map[string]struct{}, len(s.ids)+extra)
	for id := range s.ids {
		next[id] = struct{}{}
	}
	return next
}
