// Package dashboard assembles the period overview: transaction totals and
// groupings for the selected month plus the user's investments.
package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
	"github.com/Veraticus/fintrack/internal/refresh"
)

// Lister fetches a collection. api.Resource satisfies it.
type Lister[T any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
}

// InvestmentTotals sums the user's investments.
type InvestmentTotals struct {
	Invested   decimal.Decimal
	Current    decimal.Decimal
	ProfitLoss decimal.Decimal
	Count      int
}

// SumInvestments totals initial and current amounts.
func SumInvestments(invs []model.Investment) InvestmentTotals {
	t := InvestmentTotals{Invested: decimal.Zero, Current: decimal.Zero}
	for _, inv := range invs {
		t.Invested = t.Invested.Add(inv.InitialAmount)
		t.Current = t.Current.Add(inv.CurrentAmount)
	}
	t.ProfitLoss = t.Current.Sub(t.Invested)
	t.Count = len(invs)
	return t
}

// Snapshot is the dashboard state at one moment.
type Snapshot struct {
	Err          error
	Transactions []model.Transaction
	Investments  []model.Investment
	Report       aggregate.Report
	Invested     InvestmentTotals
	Period       period.Period
	Loading      bool
	Loaded       bool
}

// Dashboard loads and holds the overview for the selected period.
type Dashboard struct {
	selector     *period.Selector
	userID       func() int
	transactions Lister[model.Transaction]
	investments  Lister[model.Investment]
	state        Snapshot
	seq          refresh.Sequencer
	mu           sync.RWMutex
}

// New creates a dashboard reading the period from selector and the owner from userID.
func New(selector *period.Selector, userID func() int, transactions Lister[model.Transaction], investments Lister[model.Investment]) *Dashboard {
	d := &Dashboard{
		selector:     selector,
		userID:       userID,
		transactions: transactions,
		investments:  investments,
	}
	d.state = emptySnapshot(selector.Current())
	return d
}

func emptySnapshot(p period.Period) Snapshot {
	return Snapshot{
		Period:   p,
		Report:   aggregate.Build(nil),
		Invested: SumInvestments(nil),
	}
}

// Load fetches the selected period's transactions and the investments
// concurrently and rebuilds the report. A failed load keeps the previous
// values and records the error; a load superseded by a newer one is dropped.
func (d *Dashboard) Load(ctx context.Context) error {
	p := d.selector.Current()
	uid := d.userID()

	d.mu.Lock()
	ticket := d.seq.Next()
	d.state.Loading = true
	d.mu.Unlock()

	var (
		txs  []model.Transaction
		invs []model.Investment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = d.transactions.List(gctx, api.PeriodQuery(uid, p))
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		invs, err = d.investments.List(gctx, api.UserQuery(uid))
		if err != nil {
			return fmt.Errorf("failed to load investments: %w", err)
		}
		return nil
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.seq.IsLatest(ticket) {
		return nil
	}
	d.state.Loading = false
	if err != nil {
		d.state.Err = err
		return err
	}
	d.state = Snapshot{
		Period:       p,
		Transactions: txs,
		Investments:  invs,
		Report:       aggregate.Build(txs),
		Invested:     SumInvestments(invs),
		Loaded:       true,
	}
	return nil
}

// Watch calls onChange whenever the period changes or a transaction or
// investment is mutated. The returned func stops watching.
func (d *Dashboard) Watch(bus *refresh.Bus, onChange func()) func() {
	stopPeriod := d.selector.Subscribe(func(period.Period) { onChange() })
	stopBus := func() {}
	if bus != nil {
		stopBus = bus.Subscribe(func(refresh.Event) { onChange() }, refresh.Transactions, refresh.Investments)
	}
	return func() {
		stopPeriod()
		stopBus()
	}
}

// Remove drops a deleted transaction or investment from the loaded state
// and rebuilds the totals without a reload.
func (d *Dashboard) Remove(res refresh.Resource, id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch res {
	case refresh.Transactions:
		d.state.Transactions = without(d.state.Transactions, id, func(tx model.Transaction) int { return tx.ID })
		d.state.Report = aggregate.Build(d.state.Transactions)
	case refresh.Investments:
		d.state.Investments = without(d.state.Investments, id, func(inv model.Investment) int { return inv.ID })
		d.state.Invested = SumInvestments(d.state.Investments)
	}
}

func without[T any](items []T, id int, idOf func(T) int) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			kept = append(kept, item)
		}
	}
	return kept
}

// Reset discards loaded data and invalidates in-flight loads.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq.Next()
	d.state = emptySnapshot(d.selector.Current())
}

// Snapshot returns the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Selector returns the period selector the dashboard follows.
func (d *Dashboard) Selector() *period.Selector {
	return d.selector
}
