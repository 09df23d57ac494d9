package sheets

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/model"
)

// cell converts an amount for the sheet, which stores numbers as doubles.
func cell(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// TransactionRows renders the Transactions tab, newest first. Expense
// amounts are negative.
func TransactionRows(txs []model.Transaction) [][]any {
	sorted := append([]model.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})

	values := make([][]any, 0, len(sorted)+1)
	values = append(values, transactionHeader)
	for _, tx := range sorted {
		values = append(values, []any{
			tx.Date.String(),
			tx.Description,
			string(tx.Type),
			labelOr(tx.CategoryName, aggregate.UncategorizedLabel),
			labelOr(tx.PaymentMethodName, aggregate.NoPaymentMethodLabel),
			cell(tx.SignedAmount()),
			tx.Notes,
		})
	}
	return values
}

// SummaryRows renders the Summary tab: totals, both groupings and, when
// available, the server's own totals.
func SummaryRows(e Export) [][]any {
	totals := e.Report.Totals

	values := [][]any{
		{"Finance Report", e.Period.Label()},
		{},
		{"Summary"},
		{"Total Income", cell(totals.Income)},
		{"Total Expense", cell(totals.Expense)},
		{"Balance", cell(totals.Balance)},
		{"Transactions", totals.Count},
	}

	if s := e.ServerSummary; s != nil {
		values = append(values,
			[]any{},
			[]any{"Server Summary"},
			[]any{"Total Income", cell(s.TotalIncome)},
			[]any{"Total Expense", cell(s.TotalExpense)},
			[]any{"Balance", cell(s.Balance)},
			[]any{"Transactions", s.TransactionCount},
		)
	}

	values = append(values, []any{}, []any{"Expenses by Category"}, []any{"Category", "Count", "Amount", "Share"})
	values = append(values, groupRows(e.Report.ByCategory)...)

	values = append(values, []any{}, []any{"By Payment Method"}, []any{"Payment Method", "Count", "Amount", "Share"})
	values = append(values, groupRows(e.Report.ByPaymentMethod)...)

	return values
}

func groupRows(groups []aggregate.Group) [][]any {
	rows := make([][]any, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []any{
			g.Name,
			g.Count,
			cell(g.Total),
			fmt.Sprintf("%s%%", g.Percentage.StringFixed(1)),
		})
	}
	return rows
}

func labelOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
