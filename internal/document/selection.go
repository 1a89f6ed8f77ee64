package document

import (
	"sort"

	"github.com/dshills/undoctl/internal/signal"
)

// Selection is a set of field names that signals its changes.
type Selection struct {
	items   map[string]struct{}
	changed signal.Signal
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{items: make(map[string]struct{})}
}

// Add selects keys. Subscribers are notified once if anything changed.
func (s *Selection) Add(keys ...string) {
	changed := false
	for _, k := range keys {
		if _, ok := s.items[k]; !ok {
			s.items[k] = struct{}{}
			changed = true
		}
	}
	if changed {
		s.changed.Emit()
	}
}

// Remove deselects keys. Subscribers are notified once if anything changed.
func (s *Selection) Remove(keys ...string) {
	changed := false
	for _, k := range keys {
		if _, ok := s.items[k]; ok {
			delete(s.items, k)
			changed = true
		}
	}
	if changed {
		s.changed.Emit()
	}
}

// Clear deselects everything.
func (s *Selection) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = make(map[string]struct{})
	s.changed.Emit()
}

// Has reports whether key is selected.
func (s *Selection) Has(key string) bool {
	_, ok := s.items[key]
	return ok
}

// Items returns the selected keys in sorted order.
func (s *Selection) Items() []string {
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of selected keys.
func (s *Selection) Len() int {
	return len(s.items)
}

// Subscribe registers fn to be called when the selection changes.
func (s *Selection) Subscribe(fn func()) *signal.Subscription {
	return s.changed.Subscribe(fn)
}
