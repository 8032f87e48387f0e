package repository

import (
	"fmt"
	"sync/atomic"
)

// sequenceWidth is the zero-padding applied to sequence numbers, so ids sort
// lexicographically in creation order.
const sequenceWidth = 6

// Sequence produces unique, strictly increasing identifiers like INV-000001.
// Each entity kind gets its own instance so ids never collide across kinds.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Next returns a fresh identifier. Safe for concurrent use.
func (s *Sequence) Next() string {
	return fmt.Sprintf("%s-%0*d", s.prefix, sequenceWidth, s.n.Add(1))
}
