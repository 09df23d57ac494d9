package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
)

// Resource is a REST collection of T supporting list, get, create, update and delete.
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to c.
func NewResource[T any](c *Client, path string) Resource[T] {
	return Resource[T]{client: c, path: path}
}

// Path returns the collection path.
func (r Resource[T]) Path() string {
	return r.path
}

// List fetches the whole collection filtered by query.
func (r Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	_, err := r.client.do(ctx, request{method: http.MethodGet, path: r.path, query: query, out: &items})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one record.
func (r Resource[T]) Get(ctx context.Context, id int) (T, error) {
	var item T
	_, err := r.client.do(ctx, request{method: http.MethodGet, path: r.itemPath(id), out: &item})
	return item, err
}

// Create posts payload and returns the stored record.
func (r Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var item T
	_, err := r.client.do(ctx, request{method: http.MethodPost, path: r.path, body: payload, out: &item})
	return item, err
}

// Update replaces the record with payload and returns the stored record.
func (r Resource[T]) Update(ctx context.Context, id int, payload any) (T, error) {
	var item T
	_, err := r.client.do(ctx, request{method: http.MethodPut, path: r.itemPath(id), body: payload, out: &item})
	return item, err
}

// Delete removes one record.
func (r Resource[T]) Delete(ctx context.Context, id int) error {
	_, err := r.client.do(ctx, request{method: http.MethodDelete, path: r.itemPath(id)})
	return err
}

func (r Resource[T]) itemPath(id int) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// Transactions returns the /transactions collection.
func (c *Client) Transactions() Resource[model.Transaction] {
	return NewResource[model.Transaction](c, "/transactions")
}

// Categories returns the /categories collection.
func (c *Client) Categories() Resource[model.Category] {
	return NewResource[model.Category](c, "/categories")
}

// PaymentMethods returns the /payment-methods collection.
func (c *Client) PaymentMethods() Resource[model.PaymentMethod] {
	return NewResource[model.PaymentMethod](c, "/payment-methods")
}

// InvestmentTypes returns the /investment-types collection.
func (c *Client) InvestmentTypes() Resource[model.InvestmentType] {
	return NewResource[model.InvestmentType](c, "/investment-types")
}

// Investments returns the /investments collection.
func (c *Client) Investments() Resource[model.Investment] {
	return NewResource[model.Investment](c, "/investments")
}

// Goals returns the /goals collection.
func (c *Client) Goals() Resource[model.Goal] {
	return NewResource[model.Goal](c, "/goals")
}

// TransactionSummary returns the server-side totals for a period.
func (c *Client) TransactionSummary(ctx context.Context, query url.Values) (model.Summary, error) {
	var summary model.Summary
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/transactions/summary", query: query, out: &summary})
	return summary, err
}

// UserQuery filters a collection by owner.
func UserQuery(userID int) url.Values {
	q := url.Values{}
	if userID > 0 {
		q.Set("user_id", strconv.Itoa(userID))
	}
	return q
}

// PeriodQuery filters by owner and calendar month.
func PeriodQuery(userID int, p period.Period) url.Values {
	q := UserQuery(userID)
	q.Set("year", strconv.Itoa(p.Year))
	q.Set("month", strconv.Itoa(p.Month))
	return q
}

// CategoryQuery filters categories by owner and type. An empty type lists both.
func CategoryQuery(userID int, t model.TransactionType) url.Values {
	q := UserQuery(userID)
	if t != "" {
		q.Set("category_type", string(t))
	}
	return q
}
