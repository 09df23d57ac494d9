package refresh

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_FiltersByResource(t *testing.T) {
	bus := NewBus()

	var txEvents, allEvents []Event
	bus.Subscribe(func(e Event) { txEvents = append(txEvents, e) }, Transactions)
	bus.Subscribe(func(e Event) { allEvents = append(allEvents, e) })

	bus.Publish(Event{Resource: Transactions, Action: Created, ID: 1})
	bus.Publish(Event{Resource: Goals, Action: Deleted, ID: 2})

	assert.Equal(t, []Event{{Resource: Transactions, Action: Created, ID: 1}}, txEvents)
	assert.Len(t, allEvents, 2)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(func(Event) { calls++ }, Categories, PaymentMethods)

	bus.Publish(Event{Resource: PaymentMethods, Action: Updated})
	unsubscribe()
	unsubscribe()
	bus.Publish(Event{Resource: Categories, Action: Updated})

	assert.Equal(t, 1, calls)
}

func TestBus_SubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()

	var unsubscribe func()
	calls := 0
	unsubscribe = bus.Subscribe(func(Event) {
		calls++
		unsubscribe()
	})

	bus.Publish(Event{Resource: Goals, Action: Reload})
	bus.Publish(Event{Resource: Goals, Action: Reload})
	assert.Equal(t, 1, calls)
}

func TestSequencer_LastIssuedWins(t *testing.T) {
	var seq Sequencer
	assert.Equal(t, Ticket(0), seq.Latest())

	first := seq.Next()
	second := seq.Next()

	assert.Greater(t, second, first)
	assert.False(t, seq.IsLatest(first))
	assert.True(t, seq.IsLatest(second))
}

func TestSequencer_ConcurrentTicketsAreUnique(t *testing.T) {
	var seq Sequencer
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[Ticket]bool)

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk := seq.Next()
			mu.Lock()
			seen[tk] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
	assert.Equal(t, Ticket(50), seq.Latest())
}
