// Package selection holds the UI-wide selection and modal state shared by
// the table, the action bar and the customer form.
package selection

// Set is a set of customer identifiers that remembers insertion order.
// The zero value is an empty set ready for use.
type Set struct {
	order []string
	index map[string]int
}

// NewSet returns a set containing ids.
func NewSet(ids ...string) *Set {
	s := &Set{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is selected.
func (s *Set) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Add selects id. It reports whether the set changed.
func (s *Set) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[id] = len(s.order)
	s.order = append(s.order, id)
	return true
}

// Remove unselects id. It reports whether the set changed.
func (s *Set) Remove(id string) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	s.order = append(s.order[:pos], s.order[pos+1:]...)
	for i := pos; i < len(s.order); i++ {
		s.index[s.order[i]] = i
	}
	return true
}

// Toggle flips membership of id and reports whether it is now selected.
func (s *Set) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

// Len returns the number of selected ids.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns the selected ids in insertion order.
func (s *Set) IDs() []string {
	if s == nil || len(s.order) == 0 {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Only returns the single selected id when exactly one is selected.
func (s *Set) Only() (string, bool) {
	if s.Len() != 1 {
		return "", false
	}
	return s.order[0], true
}

// Clear empties the set.
func (s *Set) Clear() {
	s.order = nil
	s.index = nil
}

// RemoveAll unselects every id in ids.
func (s *Set) RemoveAll(ids []string) {
	for _, id := range ids {
		s.Remove(id)
	}
}
