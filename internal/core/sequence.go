package core

import "sync/atomic"

// Sequence issues process-wide monotonic order ids. Shared by every order
// producer so ids stay unique across the API and the simulator.
type Sequence struct {
	n atomic.Uint64
}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) Next() uint64 { return s.n.Add(1) }
