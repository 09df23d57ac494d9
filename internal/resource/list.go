// Package resource keeps the client-side copy of one server collection.
//
// A List is replaced wholesale on every successful fetch. Overlapping fetches
// are ordered by tickets: only the response to the most recently issued
// ticket is applied.
package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/fintrack/internal/refresh"
)

// FetchFunc loads the whole collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// DeleteFunc removes one record on the server.
type DeleteFunc func(ctx context.Context, id int) error

// List is the loaded state of a collection.
type List[T any] struct {
	err      error
	idOf     func(T) int
	bus      *refresh.Bus
	items    []T
	seq      refresh.Sequencer
	resource refresh.Resource
	loading  bool
	loaded   bool
	mu       sync.RWMutex
}

// NewList creates an empty list for resource. idOf extracts a record's id.
// bus may be nil.
func NewList[T any](resource refresh.Resource, bus *refresh.Bus, idOf func(T) int) *List[T] {
	return &List[T]{resource: resource, bus: bus, idOf: idOf}
}

// Resource names the collection.
func (l *List[T]) Resource() refresh.Resource {
	return l.resource
}

// Begin issues a ticket for a new fetch and marks the list loading.
func (l *List[T]) Begin() refresh.Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = true
	return l.seq.Next()
}

// Apply records the outcome of the fetch identified by ticket. Responses to
// superseded tickets are discarded and Apply returns false. On error the
// previous items stay in place.
func (l *List[T]) Apply(ticket refresh.Ticket, items []T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.seq.IsLatest(ticket) {
		return false
	}
	l.loading = false
	if err != nil {
		l.err = err
		return true
	}
	l.items = append([]T(nil), items...)
	l.err = nil
	l.loaded = true
	return true
}

// Load fetches and applies in one step.
func (l *List[T]) Load(ctx context.Context, fetch FetchFunc[T]) error {
	ticket := l.Begin()
	items, err := fetch(ctx)
	if !l.Apply(ticket, items, err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", l.resource, err)
	}
	return nil
}

// Delete removes id on the server, then locally without refetching, and
// announces the change on the bus.
func (l *List[T]) Delete(ctx context.Context, id int, del DeleteFunc) error {
	if err := del(ctx, id); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", l.resource, id, err)
	}
	l.Remove(id)
	if l.bus != nil {
		l.bus.Publish(refresh.Event{Resource: l.resource, Action: refresh.Deleted, ID: id})
	}
	return nil
}

// Remove drops id from the local items. It reports whether anything was removed.
func (l *List[T]) Remove(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if l.idOf(item) == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Reset wipes the list and invalidates in-flight fetches.
func (l *List[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq.Next()
	l.items = nil
	l.err = nil
	l.loading = false
	l.loaded = false
}

// Items returns a copy of the loaded items.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

// Find returns the item with id.
func (l *List[T]) Find(id int) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items {
		if l.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of loaded items.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Err returns the error from the latest fetch, if it failed.
func (l *List[T]) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Loading reports whether a fetch is outstanding.
func (l *List[T]) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Loaded reports whether any fetch has succeeded since the last Reset.
func (l *List[T]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}
