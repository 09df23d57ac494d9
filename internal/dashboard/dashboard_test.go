package dashboard

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
	"github.com/Veraticus/fintrack/internal/refresh"
)

type stubLister[T any] struct {
	fn      func(ctx context.Context, q url.Values) ([]T, error)
	queries []url.Values
	mu      sync.Mutex
}

func (s *stubLister[T]) List(ctx context.Context, q url.Values) ([]T, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	return s.fn(ctx, q)
}

func staticList[T any](items []T, err error) *stubLister[T] {
	return &stubLister[T]{fn: func(context.Context, url.Values) ([]T, error) { return items, err }}
}

func march2025() *period.Selector {
	return period.NewSelector(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func marchTransactions() []model.Transaction {
	return []model.Transaction{
		{Type: model.TransactionExpense, Amount: amount("100"), CategoryName: "A"},
		{Type: model.TransactionIncome, Amount: amount("500")},
		{Type: model.TransactionExpense, Amount: amount("50"), CategoryName: "A"},
	}
}

func TestDashboard_Load(t *testing.T) {
	txs := staticList(marchTransactions(), nil)
	invs := staticList([]model.Investment{
		{InitialAmount: amount("1000"), CurrentAmount: amount("1100")},
		{InitialAmount: amount("500"), CurrentAmount: amount("450")},
	}, nil)
	d := New(march2025(), func() int { return 7 }, txs, invs)

	require.NoError(t, d.Load(context.Background()))

	s := d.Snapshot()
	assert.True(t, s.Loaded)
	assert.False(t, s.Loading)
	assert.NoError(t, s.Err)
	assert.Equal(t, period.Period{Year: 2025, Month: 3}, s.Period)
	assert.True(t, amount("350").Equal(s.Report.Totals.Balance))
	require.Len(t, s.Report.ByCategory, 1)
	assert.True(t, amount("100").Equal(s.Report.ByCategory[0].Percentage))
	assert.True(t, amount("1500").Equal(s.Invested.Invested))
	assert.True(t, amount("50").Equal(s.Invested.ProfitLoss))

	require.Len(t, txs.queries, 1)
	assert.Equal(t, "month=3&user_id=7&year=2025", txs.queries[0].Encode())
	assert.Equal(t, "user_id=7", invs.queries[0].Encode())
}

func TestDashboard_FailureKeepsPreviousReport(t *testing.T) {
	var fail bool
	txs := &stubLister[model.Transaction]{fn: func(context.Context, url.Values) ([]model.Transaction, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return marchTransactions(), nil
	}}
	d := New(march2025(), func() int { return 1 }, txs, staticList[model.Investment](nil, nil))

	require.NoError(t, d.Load(context.Background()))
	fail = true
	err := d.Load(context.Background())
	require.Error(t, err)

	s := d.Snapshot()
	assert.ErrorContains(t, s.Err, "offline")
	assert.True(t, amount("350").Equal(s.Report.Totals.Balance))
	assert.True(t, s.Loaded)
}

func TestDashboard_FirstLoadFailureIsZeroed(t *testing.T) {
	d := New(march2025(), func() int { return 1 },
		staticList[model.Transaction](nil, nil),
		staticList[model.Investment](nil, errors.New("500")))

	require.Error(t, d.Load(context.Background()))

	s := d.Snapshot()
	assert.False(t, s.Loaded)
	assert.True(t, s.Report.Totals.Balance.IsZero())
	assert.Empty(t, s.Report.ByCategory)
	assert.Error(t, s.Err)
}

func TestDashboard_StaleLoadDiscarded(t *testing.T) {
	sel := march2025()
	release := make(chan struct{})
	started := make(chan struct{})

	txs := &stubLister[model.Transaction]{fn: func(_ context.Context, q url.Values) ([]model.Transaction, error) {
		if q.Get("month") == "3" {
			close(started)
			<-release
			return marchTransactions(), nil
		}
		return []model.Transaction{{Type: model.TransactionIncome, Amount: amount("1")}}, nil
	}}
	d := New(sel, func() int { return 1 }, txs, staticList[model.Investment](nil, nil))

	done := make(chan error, 1)
	go func() { done <- d.Load(context.Background()) }()
	<-started

	sel.Navigate(period.Next)
	require.NoError(t, d.Load(context.Background()))
	close(release)
	require.NoError(t, <-done)

	s := d.Snapshot()
	assert.Equal(t, period.Period{Year: 2025, Month: 4}, s.Period)
	assert.True(t, amount("1").Equal(s.Report.Totals.Balance))
}

func TestDashboard_WatchAndReset(t *testing.T) {
	sel := march2025()
	bus := refresh.NewBus()
	d := New(sel, func() int { return 1 }, staticList(marchTransactions(), nil), staticList[model.Investment](nil, nil))

	changes := 0
	stop := d.Watch(bus, func() { changes++ })

	sel.Navigate(period.Prev)
	bus.Publish(refresh.Event{Resource: refresh.Transactions, Action: refresh.Created})
	bus.Publish(refresh.Event{Resource: refresh.Goals, Action: refresh.Created})
	assert.Equal(t, 2, changes)

	stop()
	sel.Navigate(period.Next)
	assert.Equal(t, 2, changes)

	require.NoError(t, d.Load(context.Background()))
	d.Reset()
	s := d.Snapshot()
	assert.False(t, s.Loaded)
	assert.Empty(t, s.Transactions)
}

func TestSnapshot_Cards(t *testing.T) {
	d := New(march2025(), func() int { return 1 },
		staticList(marchTransactions(), nil),
		staticList([]model.Investment{{InitialAmount: amount("1000"), CurrentAmount: amount("1250.5")}}, nil))
	require.NoError(t, d.Load(context.Background()))

	cards := d.Snapshot().Cards(aggregate.DefaultFormatter())
	require.Len(t, cards, 4)

	assert.Equal(t, Card{Title: "Balance", Value: "R$ 350,00", Subtitle: "3 transactions this month", Tone: TonePositive}, cards[0])
	assert.Equal(t, "R$ 500,00", cards[1].Value)
	assert.Equal(t, "R$ 150,00", cards[2].Value)
	assert.Equal(t, "R$ 1.000,00", cards[3].Value)
	assert.Equal(t, "Now worth R$ 1.250,50", cards[3].Subtitle)
}

func TestSnapshot_CardsNegativeBalance(t *testing.T) {
	s := Snapshot{Report: aggregate.Build([]model.Transaction{
		{Type: model.TransactionExpense, Amount: amount("10")},
	})}
	cards := s.Cards(aggregate.DefaultFormatter())
	assert.Equal(t, ToneNegative, cards[0].Tone)
	assert.Equal(t, "-R$ 10,00", cards[0].Value)
	assert.Equal(t, "1 transaction this month", cards[0].Subtitle)
	assert.Equal(t, "Total invested", cards[3].Subtitle)
}

func TestDashboard_Remove(t *testing.T) {
	d := New(march2025(), func() int { return 1 },
		staticList([]model.Transaction{
			{ID: 1, Type: model.TransactionIncome, Amount: amount("500")},
			{ID: 2, Type: model.TransactionExpense, Amount: amount("100"), CategoryName: "A"},
		}, nil),
		staticList([]model.Investment{
			{ID: 3, InitialAmount: amount("1000"), CurrentAmount: amount("1100")},
			{ID: 4, InitialAmount: amount("200"), CurrentAmount: amount("200")},
		}, nil))
	require.NoError(t, d.Load(context.Background()))

	d.Remove(refresh.Transactions, 2)
	s := d.Snapshot()
	require.Len(t, s.Transactions, 1)
	assert.Equal(t, 1, s.Transactions[0].ID)
	assert.True(t, amount("500").Equal(s.Report.Totals.Balance))
	assert.Empty(t, s.Report.ByCategory)

	d.Remove(refresh.Investments, 3)
	s = d.Snapshot()
	require.Len(t, s.Investments, 1)
	assert.True(t, amount("200").Equal(s.Invested.Invested))
	assert.Equal(t, 1, s.Invested.Count)

	d.Remove(refresh.Transactions, 99)
	assert.Len(t, d.Snapshot().Transactions, 1)
}
