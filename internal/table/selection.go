package table

import (
	"slices"
	"strings"
)

// Selection is a set of row identity keys.
type Selection struct {
	keys map[string]struct{}
}

// NewSelection starts a selection with keys.
func NewSelection(keys ...string) *Selection {
	s := &Selection{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			s.keys[k] = struct{}{}
		}
	}
	return s
}

// Has reports whether key is selected.
func (s *Selection) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[key]
	return ok
}

// Len is the number of selected keys.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Toggle flips a single key.
func (s *Selection) Toggle(key string) {
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
		return
	}
	s.keys[key] = struct{}{}
}

// TogglePage selects exactly the visible rows of r, or deselects them when
// every one of them is already selected. Rows on other pages are untouched.
func (s *Selection) TogglePage(r Result) {
	keys := r.PageKeys()
	if len(keys) == 0 {
		return
	}
	all := true
	for _, k := range keys {
		if !s.Has(k) {
			all = false
			break
		}
	}
	for _, k := range keys {
		if all {
			delete(s.keys, k)
		} else {
			s.keys[k] = struct{}{}
		}
	}
}

// PageSelected reports whether every visible row of r is selected.
func (s *Selection) PageSelected(r Result) bool {
	keys := r.PageKeys()
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// SelectAll selects every row of the filtered set, not just the page.
func (s *Selection) SelectAll(r Result) {
	for _, k := range r.FilteredKeys() {
		s.keys[k] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	clear(s.keys)
}

// Keys returns the selected keys in sorted order.
func (s *Selection) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
