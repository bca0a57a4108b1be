package queue

import "fmt"

// nextOrderCode returns the next order code and advances the counter.
// Codes are never reused, even after erasure.
func (s *Store) nextOrderCode() string {
	code := fmt.Sprintf("%s%03d", s.prefix, s.counter)
	s.counter++
	return code
}
