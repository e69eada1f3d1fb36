// Package bates provides Bates number formatting, parsing, and sequence
// allocation for legal document productions. A Bates number is a sequential
// page identifier of the form prefix + zero-padded number + suffix.
package bates

import "fmt"

const (
	// MinPadding is the smallest allowed zero-padding width.
	MinPadding = 1
	// MaxPadding is the largest allowed zero-padding width.
	MaxPadding = 10
	// DefaultPadding is the padding width used when none is specified.
	DefaultPadding = 4
)

// Sequence owns a monotonic counter and formatting rule for one numbering
// space. It is mutable state with exactly one owner: Next is the only
// mutating call path, and the type provides no internal locking. Callers
// that share a Sequence across goroutines must serialize access themselves.
type Sequence struct {
	Prefix  string
	Suffix  string
	Next    int64
	Padding int
}

// NewSequence creates a Sequence starting at start with the given padding.
// A start below 1 is raised to 1; padding outside [MinPadding, MaxPadding]
// is clamped to the nearest bound, with 0 treated as DefaultPadding.
func NewSequence(prefix, suffix string, start int64, padding int) *Sequence {
	if start < 1 {
		start = 1
	}
	switch {
	case padding == 0:
		padding = DefaultPadding
	case padding < MinPadding:
		padding = MinPadding
	case padding > MaxPadding:
		padding = MaxPadding
	}
	return &Sequence{
		Prefix:  prefix,
		Suffix:  suffix,
		Next:    start,
		Padding: padding,
	}
}

// Allocate formats the current number and increments the counter.
// The counter is int64 and never wraps; numbers wider than the padding
// simply grow beyond it.
func (s *Sequence) Allocate() string {
	id := Format(s.Next, s.Prefix, s.Suffix, s.Padding)
	s.Next++
	return id
}

// Peek returns the identifier Allocate would produce next, without
// advancing the counter.
func (s *Sequence) Peek() string {
	return Format(s.Next, s.Prefix, s.Suffix, s.Padding)
}

// PeekAt returns the identifier that will be produced offset allocations
// from now. PeekAt(0) == Peek(). Used for separator-page look-ahead, where
// the last number of a document is known before any page is allocated.
func (s *Sequence) PeekAt(offset int64) string {
	return Format(s.Next+offset, s.Prefix, s.Suffix, s.Padding)
}

// Reserve returns the inclusive numeric bounds of the next n allocations
// without performing them.
func (s *Sequence) Reserve(n int64) (first, last int64) {
	if n < 1 {
		n = 1
	}
	return s.Next, s.Next + n - 1
}

func (s *Sequence) String() string {
	return fmt.Sprintf("%s#%s@%d/%d", s.Prefix, s.Suffix, s.Next, s.Padding)
}
