// Package refresh carries change notifications between the views that mutate
// a resource and the lists that display it, and orders overlapping fetches.
package refresh

import "sync"

// Resource names a server collection.
type Resource string

// Collections exposed by the API.
const (
	Transactions    Resource = "transactions"
	Categories      Resource = "categories"
	PaymentMethods  Resource = "payment-methods"
	InvestmentTypes Resource = "investment-types"
	Investments     Resource = "investments"
	Goals           Resource = "goals"
)

// Action is the kind of mutation that happened.
type Action string

// Mutation kinds.
const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
	Reload  Action = "reload"
)

// Event announces that a resource changed.
type Event struct {
	Resource Resource
	Action   Action
	ID       int
}

type subscription struct {
	fn        func(Event)
	resources map[Resource]bool
}

func (s subscription) matches(r Resource) bool {
	return len(s.resources) == 0 || s.resources[r]
}

// Bus fans events out to subscribers.
type Bus struct {
	subs   map[int]subscription
	nextID int
	mu     sync.Mutex
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers fn for events on the given resources, or on every
// resource when none are named. The returned func unsubscribes.
func (b *Bus) Subscribe(fn func(Event), resources ...Resource) func() {
	sub := subscription{fn: fn}
	if len(resources) > 0 {
		sub.resources = make(map[Resource]bool, len(resources))
		for _, r := range resources {
			sub.resources[r] = true
		}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e synchronously, in subscription order, to every matching subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	targets := make([]func(Event), 0, len(b.subs))
	for id := 0; id < b.nextID; id++ {
		if sub, ok := b.subs[id]; ok && sub.matches(e.Resource) {
			targets = append(targets, sub.fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range targets {
		fn(e)
	}
}
