package beans

// orderedSet is a set of strings that remembers insertion order.
// The zero value is not usable, use newOrderedSet.
type orderedSet struct {
	names   []string
	indexes map[string]int
}

func newOrderedSet() *orderedSet {
	return &orderedSet{
		names:   []string{},
		indexes: map[string]int{},
	}
}

// Add inserts the name at the end of the set.
// It does nothing if the name is already there.
func (s *orderedSet) Add(name string) {
	if _, ok := s.indexes[name]; ok {
		return
	}
	s.indexes[name] = len(s.names)
	s.names = append(s.names, name)
}

// Remove removes the name from the set.
func (s *orderedSet) Remove(name string) {
	index, ok := s.indexes[name]
	if !ok {
		return
	}

	delete(s.indexes, name)
	s.names = append(s.names[:index], s.names[index+1:]...)

	for i := index; i < len(s.names); i++ {
		s.indexes[s.names[i]] = i
	}
}

// Has returns true if the name is in the set.
func (s *orderedSet) Has(name string) bool {
	_, ok := s.indexes[name]
	return ok
}

// Names returns the names in insertion order.
func (s *orderedSet) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Len returns the number of names in the set.
func (s *orderedSet) Len() int {
	return len(s.names)
}

// Clear removes all the names from the set.
func (s *orderedSet) Clear() {
	s.names = []string{}
	s.indexes = map[string]int{}
}

// copyNames returns the keys of a set as a slice.
func copyNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}
