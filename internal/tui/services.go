package tui

import (
	"context"
	"net/url"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/dashboard"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
	"github.com/Veraticus/fintrack/internal/refresh"
	"github.com/Veraticus/fintrack/internal/session"
)

// Store is one remote collection. api.Resource satisfies it.
type Store[T any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id int, payload any) (T, error)
	Delete(ctx context.Context, id int) error
}

// Services are the collaborators the TUI drives.
type Services struct {
	Session        *session.Session
	Dashboard      *dashboard.Dashboard
	Bus            *refresh.Bus
	Transactions   Store[model.Transaction]
	Investments    Store[model.Investment]
	Goals          Store[model.Goal]
	Categories     Store[model.Category]
	PaymentMethods Store[model.PaymentMethod]
}

// NewServices wires every collection to client and builds a dashboard on selector.
func NewServices(client *api.Client, sess *session.Session, bus *refresh.Bus, selector *period.Selector) Services {
	txs := client.Transactions()
	invs := client.Investments()
	return Services{
		Session:        sess,
		Bus:            bus,
		Dashboard:      dashboard.New(selector, sess.UserID, txs, invs),
		Transactions:   txs,
		Investments:    invs,
		Goals:          client.Goals(),
		Categories:     client.Categories(),
		PaymentMethods: client.PaymentMethods(),
	}
}
