package period

import (
	"sync"
	"time"
)

// Selector holds the active period and notifies subscribers whenever it changes.
type Selector struct {
	subs    map[int]func(Period)
	current Period
	nextID  int
	mu      sync.Mutex
}

// NewSelector starts at the month containing now.
func NewSelector(now time.Time) *Selector {
	return &Selector{current: Current(now), subs: make(map[int]func(Period))}
}

// Current returns the active period.
func (s *Selector) Current() Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Navigate moves the active period one month and returns the new value.
func (s *Selector) Navigate(d Direction) Period {
	s.mu.Lock()
	next := s.current.Navigate(d)
	s.mu.Unlock()
	s.Set(next)
	return next
}

// Set replaces the active period. Invalid periods and unchanged values are ignored.
func (s *Selector) Set(p Period) {
	if !p.Valid() {
		return
	}
	s.mu.Lock()
	if p == s.current {
		s.mu.Unlock()
		return
	}
	s.current = p
	subs := s.snapshot()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}

// Subscribe registers fn for period changes. The returned func removes it.
func (s *Selector) Subscribe(fn func(Period)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// snapshot copies the subscribers in registration order. Callers hold mu.
func (s *Selector) snapshot() []func(Period) {
	out := make([]func(Period), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
