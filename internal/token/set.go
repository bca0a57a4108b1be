package token

// orderedCodeSet implements CodeSet with a map for lookups and a slice to
// keep file order.
type orderedCodeSet struct {
	index map[string]struct{}
	order []string
}

// NewCodeSet creates a code set holding the given codes.
func NewCodeSet(codes ...string) CodeSet {
	set := newOrderedCodeSet(len(codes))
	for _, code := range codes {
		set.Add(code)
	}
	return set
}

func newOrderedCodeSet(capacity int) *orderedCodeSet {
	return &orderedCodeSet{
		index: make(map[string]struct{}, capacity),
		order: make([]string, 0, capacity),
	}
}

// Contains checks if a code exists in the set.
func (s *orderedCodeSet) Contains(code string) bool {
	_, exists := s.index[code]
	return exists
}

// Codes returns the codes in insertion order.
func (s *orderedCodeSet) Codes() []string {
	return append([]string(nil), s.order...)
}

// Size returns the number of codes in the set.
func (s *orderedCodeSet) Size() int {
	return len(s.order)
}

// Add adds a code to the set; duplicates are ignored.
func (s *orderedCodeSet) Add(code string) {
	if _, exists := s.index[code]; exists {
		return
	}
	s.index[code] = struct{}{}
	s.order = append(s.order, code)
}
