package refresh

import "sync/atomic"

// Ticket identifies one issued request.
type Ticket uint64

// Sequencer issues monotonically increasing tickets so a view can discard
// responses to requests it has since superseded.
type Sequencer struct {
	last atomic.Uint64
}

// Next issues a new ticket, superseding every earlier one.
func (s *Sequencer) Next() Ticket {
	return Ticket(s.last.Add(1))
}

// IsLatest reports whether t is the most recently issued ticket.
func (s *Sequencer) IsLatest(t Ticket) bool {
	return uint64(t) == s.last.Load()
}

// Latest returns the most recently issued ticket, zero before the first.
func (s *Sequencer) Latest() Ticket {
	return Ticket(s.last.Load())
}
