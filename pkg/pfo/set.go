package pfo

// orderedSet is a set of references that iterates in insertion order
type orderedSet[T comparable] struct {
	items []T
	index map[T]int
}

func (s *orderedSet[T]) add(v T) error {
	if s.index == nil {
		s.index = make(map[T]int)
	}
	if _, ok := s.index[v]; ok {
		return ErrAlreadyPresent
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return nil
}

func (s *orderedSet[T]) remove(v T) error {
	i, ok := s.index[v]
	if !ok {
		return ErrNotFound
	}

	delete(s.index, v)
	s.items = append(s.items[:i], s.items[i+1:]...)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return nil
}

func (s *orderedSet[T]) len() int {
	return len(s.items)
}

// list returns a copy of the members
func (s *orderedSet[T]) list() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
