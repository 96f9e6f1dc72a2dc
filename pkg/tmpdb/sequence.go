package tmpdb

import "sync"

// Sequence hands out monotonically increasing retry indexes to the
// provisioning loop. Sharing one sequence across handles is what keeps two
// handles in the same process from generating the same name for the same
// template. The zero value is ready to use.
type Sequence struct {
	mu   sync.Mutex
	next int
}

// Next returns the current index and advances the sequence.
func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.next
	s.next++
	return n
}

// High returns the number of indexes handed out so far. The sibling sweep
// uses it as the upper bound of the name range to clean.
func (s *Sequence) High() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Reset rewinds the sequence to zero. Meant for tests that need
// reproducible names.
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = 0
}

// DefaultSequence is the process-wide sequence used when Config.Sequence
// is nil.
var DefaultSequence = new(Sequence)
