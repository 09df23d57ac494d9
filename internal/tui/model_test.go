package tui

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/dashboard"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
	"github.com/Veraticus/fintrack/internal/refresh"
	"github.com/Veraticus/fintrack/internal/session"
)

type fakeStore[T any] struct {
	listErr error
	saveErr error
	created []any
	updated []int
	deleted []int
	items   []T
	saved   T
	mu      sync.Mutex
}

func (s *fakeStore[T]) List(context.Context, url.Values) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...), s.listErr
}

func (s *fakeStore[T]) Create(_ context.Context, payload any) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, payload)
	return s.saved, s.saveErr
}

func (s *fakeStore[T]) Update(_ context.Context, id int, _ any) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = append(s.updated, id)
	return s.saved, s.saveErr
}

func (s *fakeStore[T]) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, username, password string) (string, error) {
	if username == "alice" && password == "secret" {
		return "tok", nil
	}
	return "", &api.Error{StatusCode: 401, Message: "bad credentials"}
}

func (fakeAuth) Register(context.Context, string, string, string) error { return nil }

func (fakeAuth) Logout(context.Context) error { return nil }

func (fakeAuth) CurrentUser(context.Context) (model.User, error) {
	return model.User{ID: 7, Username: "alice"}, nil
}

type memTokens struct{ token string }

func (m *memTokens) LoadToken(context.Context) (string, error) { return m.token, nil }

func (m *memTokens) SaveToken(_ context.Context, token string) error {
	m.token = token
	return nil
}

func (m *memTokens) ClearToken(context.Context) error {
	m.token = ""
	return nil
}

type fixture struct {
	svc     Services
	txs     *fakeStore[model.Transaction]
	invs    *fakeStore[model.Investment]
	goals   *fakeStore[model.Goal]
	events  *[]refresh.Event
	session *session.Session
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T) fixture {
	t.Helper()

	card := 2
	txs := &fakeStore[model.Transaction]{items: []model.Transaction{
		{ID: 1, Type: model.TransactionIncome, Description: "Salary", Amount: amount("5000"), Date: model.NewDate(2025, time.March, 5), CategoryName: "Salary"},
		{ID: 2, Type: model.TransactionExpense, Description: "Market", Amount: amount("350.50"), Date: model.NewDate(2025, time.March, 9), CategoryName: "Food", PaymentMethodID: &card, PaymentMethodName: "Card"},
	}, saved: model.Transaction{ID: 99}}
	invs := &fakeStore[model.Investment]{items: []model.Investment{
		{ID: 4, Name: "Bonds", InitialAmount: amount("1000"), CurrentAmount: amount("1100")},
	}}
	goals := &fakeStore[model.Goal]{items: []model.Goal{
		{ID: 5, Name: "Trip", TargetAmount: amount("4000"), CurrentAmount: amount("1000"), Status: model.GoalActive},
	}}
	cats := &fakeStore[model.Category]{items: []model.Category{
		{ID: 10, Name: "Food", Type: model.TransactionExpense},
		{ID: 11, Name: "Salary", Type: model.TransactionIncome},
	}}
	methods := &fakeStore[model.PaymentMethod]{items: []model.PaymentMethod{{ID: 2, Name: "Card"}}}

	sess := session.New(fakeAuth{}, &memTokens{})
	require.True(t, sess.Login(context.Background(), "alice", "secret").OK)

	bus := refresh.NewBus()
	var events []refresh.Event
	bus.Subscribe(func(e refresh.Event) { events = append(events, e) })

	selector := period.NewSelector(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC))

	return fixture{
		svc: Services{
			Session:        sess,
			Bus:            bus,
			Dashboard:      dashboard.New(selector, sess.UserID, txs, invs),
			Transactions:   txs,
			Investments:    invs,
			Goals:          goals,
			Categories:     cats,
			PaymentMethods: methods,
		},
		txs:     txs,
		invs:    invs,
		goals:   goals,
		events:  &events,
		session: sess,
	}
}

// loadedDashboard returns a model on the dashboard with every list fetched.
func loadedDashboard(t *testing.T, f fixture) Model {
	t.Helper()
	m := New(f.svc, WithSize(120, 40))
	next, _ := m.Update(sessionResolvedMsg{authenticated: true})
	m = next.(Model)
	require.Equal(t, ScreenDashboard, m.Screen())

	next, _ = m.Update(m.loadDashboard()())
	m = next.(Model)
	next, _ = m.Update(m.loadLists()())
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+t":
			msg = tea.KeyMsg{Type: tea.KeyCtrlT}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, c := m.Update(msg)
		m = next.(Model)
		cmd = c
	}
	return m, cmd
}

func TestInitWithoutStoredTokenShowsLogin(t *testing.T) {
	sess := session.New(fakeAuth{}, &memTokens{})
	f := newFixture(t)
	f.svc.Session = sess

	m := New(f.svc)
	assert.Equal(t, ScreenLoading, m.Screen())
	assert.Contains(t, m.View(), "Restoring session")

	msg := m.Init()()
	assert.Equal(t, sessionResolvedMsg{authenticated: false}, msg)

	next, _ := m.Update(msg)
	assert.Equal(t, ScreenLogin, next.(Model).Screen())
}

func TestLoginFlow(t *testing.T) {
	sess := session.New(fakeAuth{}, &memTokens{})
	f := newFixture(t)
	f.svc.Session = sess

	next, _ := New(f.svc).Update(sessionResolvedMsg{})
	m := next.(Model)

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, loginPassword, m.login.focus)

	m, _ = press(t, m, "enter")
	assert.Equal(t, "Username is required", m.login.message)

	m.login.setFocus(loginUsername)
	m, _ = press(t, m, "alice", "enter", "wrong", "enter")
	require.True(t, m.login.submitting)

	m, _ = press(t, m, "x")
	assert.Equal(t, "wrong", m.login.inputs[loginPassword].Value(), "input is ignored while submitting")

	next, _ = m.Update(authResultMsg{result: sess.Login(context.Background(), "alice", "wrong")})
	m = next.(Model)
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.True(t, m.login.messageErr)
	assert.Empty(t, m.login.inputs[loginPassword].Value())

	m, cmd = press(t, m, "secret", "enter")
	require.NotNil(t, cmd)
	next, _ = m.Update(authResultMsg{result: sess.Login(context.Background(), "alice", "secret")})
	assert.Equal(t, ScreenDashboard, next.(Model).Screen())
}

func TestRegisterModeReturnsToLogin(t *testing.T) {
	f := newFixture(t)
	next, _ := New(f.svc).Update(sessionResolvedMsg{})
	m := next.(Model)

	m, _ = press(t, m, "tab")
	require.True(t, m.login.register)
	assert.Equal(t, []int{loginUsername, loginEmail, loginPassword}, m.login.fields())

	m, _ = press(t, m, "bob")
	next, _ = m.Update(authResultMsg{result: session.Result{OK: true}, register: true})
	m = next.(Model)

	assert.False(t, m.login.register)
	assert.Equal(t, "bob", m.login.inputs[loginUsername].Value())
	assert.Equal(t, "Account created. Log in to continue.", m.login.message)
}

func TestDashboardRendersCardsAndTable(t *testing.T) {
	m := loadedDashboard(t, newFixture(t))

	view := m.View()
	assert.Contains(t, view, "March 2025")
	assert.Contains(t, view, "R$ 4.649,50")
	assert.Contains(t, view, "Market")
	assert.Equal(t, []int{1, 2}, m.rowIDs)
}

func TestDashboardTabsAndPeriod(t *testing.T) {
	m := loadedDashboard(t, newFixture(t))

	m, _ = press(t, m, "tab")
	assert.Equal(t, TabGoals, m.Tab())
	assert.Equal(t, []int{5}, m.rowIDs)

	m, _ = press(t, m, "tab")
	assert.Equal(t, TabInvestments, m.Tab())
	assert.Equal(t, []int{4}, m.rowIDs)

	m, _ = press(t, m, "tab")
	assert.Equal(t, TabTransactions, m.Tab())

	m, _ = press(t, m, "h")
	assert.Equal(t, "2025-02", m.svc.Dashboard.Selector().Current().String())
	m, _ = press(t, m, "l", "l")
	assert.Equal(t, "2025-04", m.svc.Dashboard.Selector().Current().String())
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	m := loadedDashboard(t, f)

	m, cmd := press(t, m, "d", "n")
	assert.Nil(t, cmd)
	assert.Equal(t, "Delete cancelled", m.status.text)
	assert.Empty(t, f.txs.deleted)

	m, cmd = press(t, m, "d", "y")
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, deletedMsg{noun: "transaction"}, msg)
	assert.Equal(t, []int{1}, f.txs.deleted)
	require.NotEmpty(t, *f.events)
	assert.Equal(t, refresh.Event{Resource: refresh.Transactions, Action: refresh.Deleted, ID: 1}, (*f.events)[len(*f.events)-1])

	next, _ := m.Update(msg)
	assert.Equal(t, "Transaction deleted", next.(Model).status.text)
}

func TestEditOpensFirstRowWithoutMoving(t *testing.T) {
	m := loadedDashboard(t, newFixture(t))

	id, ok := m.selectedID()
	require.True(t, ok)
	assert.Equal(t, 1, id)

	m, _ = press(t, m, "e")
	require.Equal(t, ScreenForm, m.Screen())
	require.NotNil(t, m.editor)
	assert.Equal(t, 1, m.editor.form.ID)
	assert.Equal(t, "Salary", m.editor.form.Description)
}

func TestDeleteTransactionRemovesLocally(t *testing.T) {
	f := newFixture(t)
	m := loadedDashboard(t, f)

	m, cmd := press(t, m, "down", "d", "y")
	require.NotNil(t, cmd)

	f.txs.mu.Lock()
	f.txs.listErr = errors.New("offline")
	f.txs.mu.Unlock()

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, []int{2}, f.txs.deleted)

	txs := m.svc.Dashboard.Snapshot().Transactions
	require.Len(t, txs, 1)
	assert.Equal(t, 1, txs[0].ID)
	assert.Equal(t, []int{1}, m.rowIDs)
	assert.True(t, amount("0").Equal(m.svc.Dashboard.Snapshot().Report.Totals.Expense))
}

func TestDeleteInvestmentRemovesLocally(t *testing.T) {
	f := newFixture(t)
	m := loadedDashboard(t, f)

	m, _ = press(t, m, "tab", "tab")
	require.Equal(t, TabInvestments, m.tab)
	m, cmd := press(t, m, "d", "y")
	require.NotNil(t, cmd)

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, []int{4}, f.invs.deleted)
	assert.Empty(t, m.svc.Dashboard.Snapshot().Investments)
	assert.Empty(t, m.rowIDs)
}

func TestDeleteGoalRemovesLocally(t *testing.T) {
	f := newFixture(t)
	m := loadedDashboard(t, f)

	m, _ = press(t, m, "tab", "d", "y")
	assert.Equal(t, deletedMsg{noun: "goal"}, m.deleteSelected(5)())
	assert.Equal(t, 0, m.goals.Len())
}

func TestSessionExpiredWipesState(t *testing.T) {
	m := loadedDashboard(t, newFixture(t))
	require.NotEmpty(t, m.svc.Dashboard.Snapshot().Transactions)
	require.Equal(t, 1, m.goals.Len())

	next, _ := m.Update(sessionExpiredMsg{})
	m = next.(Model)

	assert.Equal(t, ScreenLogin, m.Screen())
	assert.Empty(t, m.svc.Dashboard.Snapshot().Transactions)
	assert.Equal(t, 0, m.goals.Len())
	assert.Equal(t, 0, m.categories.Len())
	assert.Empty(t, m.rowIDs)
	assert.Contains(t, m.View(), "session expired")
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	m := loadedDashboard(t, f)

	_, cmd := press(t, m, "L")
	require.NotNil(t, cmd)
	assert.Equal(t, loggedOutMsg{}, cmd())
	assert.False(t, f.session.IsAuthenticated())

	next, _ := m.Update(loggedOutMsg{})
	assert.Equal(t, ScreenLogin, next.(Model).Screen())
}

func TestNewTransactionForm(t *testing.T) {
	f := newFixture(t)
	m := loadedDashboard(t, f)

	m, _ = press(t, m, "n")
	require.Equal(t, ScreenForm, m.Screen())

	m, _ = press(t, m, "Bakery", "enter", "12,50", "enter", "enter", "Food", "enter", "Card", "enter")
	require.NotNil(t, m.editor)
	assert.Equal(t, fieldNotes, m.editor.focus)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	require.True(t, m.editor.saving)

	msg := cmd()
	require.Len(t, f.txs.created, 1)
	payload := f.txs.created[0].(api.TransactionPayload)
	assert.Equal(t, "Bakery", payload.Description)
	assert.Equal(t, "12.5", payload.Amount.String())
	assert.Equal(t, 10, payload.CategoryID)
	require.NotNil(t, payload.PaymentMethodID)
	assert.Equal(t, 2, *payload.PaymentMethodID)
	assert.Equal(t, 7, payload.UserID)

	next, _ := m.Update(msg)
	m = next.(Model)
	assert.Equal(t, ScreenDashboard, m.Screen())
	assert.Equal(t, "Transaction created", m.status.text)
	assert.Equal(t, refresh.Created, (*f.events)[len(*f.events)-1].Action)
}

func TestTransactionFormValidationAndToggle(t *testing.T) {
	m := loadedDashboard(t, newFixture(t))
	m, _ = press(t, m, "n")

	m, cmd := press(t, m, "ctrl+s")
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.editor.err)

	m, _ = press(t, m, "ctrl+t")
	assert.Equal(t, model.TransactionIncome, m.editor.form.Type)
	assert.NotContains(t, m.editor.fields(), fieldPaymentMethod)

	m, _ = press(t, m, "esc")
	assert.Equal(t, ScreenDashboard, m.Screen())
	assert.Nil(t, m.editor)
}

func TestSaveFailureKeepsForm(t *testing.T) {
	f := newFixture(t)
	m := loadedDashboard(t, f)
	m, _ = press(t, m, "n")

	next, _ := m.Update(transactionSavedMsg{err: errors.New("boom")})
	m = next.(Model)
	assert.Equal(t, ScreenForm, m.Screen())
	assert.Equal(t, "boom", m.editor.err)
	assert.False(t, m.editor.saving)
}
