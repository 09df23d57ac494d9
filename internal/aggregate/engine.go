// Package aggregate computes the period totals and groupings shown on every
// surface: dashboard cards, charts, the CLI summary and the Sheets export.
//
// All sums are exact decimals. Rounding happens only in Formatter.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/fintrack/internal/model"
)

// Fallback labels for transactions missing a category or payment method name.
const (
	UncategorizedLabel   = "Uncategorized"
	NoPaymentMethodLabel = "No payment method"
	percentageMultiplier = 100
)

// Totals sums a list of transactions by type.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Count   int
}

// Group is one bucket of a grouping.
type Group struct {
	Name       string
	Total      decimal.Decimal
	Percentage decimal.Decimal
	Count      int
}

// Report bundles every aggregate derived from one period's transactions.
type Report struct {
	ByCategory      []Group
	ByPaymentMethod []Group
	Totals          Totals
}

// ComputeTotals sums income and expense separately. Balance is income minus expense.
func ComputeTotals(txs []model.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case model.TransactionIncome:
			t.Income = t.Income.Add(tx.Amount)
		case model.TransactionExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		default:
			continue
		}
		t.Count++
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// ByCategory groups expense transactions by category name.
func ByCategory(txs []model.Transaction) []Group {
	return group(txs, func(tx model.Transaction) (string, bool) {
		if !tx.IsExpense() {
			return "", false
		}
		return labelOr(tx.CategoryName, UncategorizedLabel), true
	})
}

// ByPaymentMethod groups every transaction, regardless of type, by payment method name.
func ByPaymentMethod(txs []model.Transaction) []Group {
	return group(txs, func(tx model.Transaction) (string, bool) {
		return labelOr(tx.PaymentMethodName, NoPaymentMethodLabel), true
	})
}

// Build computes the full report for a period's transactions.
func Build(txs []model.Transaction) Report {
	return Report{
		Totals:          ComputeTotals(txs),
		ByCategory:      ByCategory(txs),
		ByPaymentMethod: ByPaymentMethod(txs),
	}
}

// Percentage returns part/whole*100, or zero when whole is zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(percentageMultiplier)).Div(whole)
}

func group(txs []model.Transaction, key func(model.Transaction) (string, bool)) []Group {
	index := make(map[string]int)
	var groups []Group
	sum := decimal.Zero

	for _, tx := range txs {
		name, ok := key(tx)
		if !ok {
			continue
		}
		i, seen := index[name]
		if !seen {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(tx.Amount)
		groups[i].Count++
		sum = sum.Add(tx.Amount)
	}

	for i := range groups {
		groups[i].Percentage = Percentage(groups[i].Total, sum)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Total.Cmp(groups[j].Total); c != 0 {
			return c > 0
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

func labelOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
