package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/forms"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

const requestTimeout = 30 * time.Second

// resolveSession restores the stored token, if any.
func (m Model) resolveSession() tea.Cmd {
	sess := m.svc.Session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sess.Init(ctx)
		return sessionResolvedMsg{authenticated: sess.IsAuthenticated()}
	}
}

func (m Model) authenticate(username, email, password string, register bool) tea.Cmd {
	sess := m.svc.Session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if register {
			return authResultMsg{result: sess.Register(ctx, username, email, password), register: true}
		}
		return authResultMsg{result: sess.Login(ctx, username, password)}
	}
}

func (m Model) logout() tea.Cmd {
	sess := m.svc.Session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sess.Logout(ctx)
		return loggedOutMsg{}
	}
}

// loadDashboard fetches the selected period.
func (m Model) loadDashboard() tea.Cmd {
	d := m.svc.Dashboard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return dashboardLoadedMsg{err: d.Load(ctx)}
	}
}

// loadLists fetches goals plus the categories and payment methods the editor offers.
func (m Model) loadLists() tea.Cmd {
	svc := m.svc
	goals, categories, methods := m.goals, m.categories, m.methods
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		q := api.UserQuery(svc.Session.UserID())
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return goals.Load(gctx, func(ctx context.Context) ([]model.Goal, error) {
				return svc.Goals.List(ctx, q)
			})
		})
		g.Go(func() error {
			return categories.Load(gctx, func(ctx context.Context) ([]model.Category, error) {
				return svc.Categories.List(ctx, q)
			})
		})
		g.Go(func() error {
			return methods.Load(gctx, func(ctx context.Context) ([]model.PaymentMethod, error) {
				return svc.PaymentMethods.List(ctx, q)
			})
		})
		return listsLoadedMsg{err: g.Wait()}
	}
}

// deleteSelected deletes id from the active tab's collection and announces it.
func (m Model) deleteSelected(id int) tea.Cmd {
	svc := m.svc
	noun := m.tabNoun()
	tab := m.tab
	goals := m.goals
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		switch tab {
		case TabGoals:
			err = goals.Delete(ctx, id, svc.Goals.Delete)
		case TabInvestments:
			err = deleteAndPublish(ctx, svc, refresh.Investments, id, svc.Investments.Delete)
		default:
			err = deleteAndPublish(ctx, svc, refresh.Transactions, id, svc.Transactions.Delete)
		}
		return deletedMsg{noun: noun, err: err}
	}
}

// deleteAndPublish removes a dashboard row locally once the server confirms
// the delete, then announces it.
func deleteAndPublish(ctx context.Context, svc Services, res refresh.Resource, id int, del func(context.Context, int) error) error {
	if err := del(ctx, id); err != nil {
		return err
	}
	svc.Dashboard.Remove(res, id)
	if svc.Bus != nil {
		svc.Bus.Publish(refresh.Event{Resource: res, Action: refresh.Deleted, ID: id})
	}
	return nil
}

func (m Model) saveTransaction(form *forms.TransactionForm) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tx, err := form.Submit(ctx, svc.Transactions, forms.Hooks[model.Transaction]{Bus: svc.Bus})
		return transactionSavedMsg{tx: tx, err: err}
	}
}
