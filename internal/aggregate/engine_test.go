package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/fintrack/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(amount, category, method string) model.Transaction {
	return model.Transaction{
		Type:              model.TransactionExpense,
		Amount:            d(amount),
		CategoryName:      category,
		PaymentMethodName: method,
	}
}

func income(amount, category string) model.Transaction {
	return model.Transaction{Type: model.TransactionIncome, Amount: d(amount), CategoryName: category}
}

func TestBuild_MarchScenario(t *testing.T) {
	txs := []model.Transaction{
		expense("100", "A", "Card"),
		income("500", "Salary"),
		expense("50", "A", "Card"),
	}

	r := Build(txs)

	assert.True(t, d("150").Equal(r.Totals.Expense))
	assert.True(t, d("500").Equal(r.Totals.Income))
	assert.True(t, d("350").Equal(r.Totals.Balance))
	assert.Equal(t, 3, r.Totals.Count)

	require.Len(t, r.ByCategory, 1)
	assert.Equal(t, "A", r.ByCategory[0].Name)
	assert.True(t, d("150").Equal(r.ByCategory[0].Total))
	assert.True(t, d("100").Equal(r.ByCategory[0].Percentage))
	assert.Equal(t, 2, r.ByCategory[0].Count)
}

func TestComputeTotals_ExactSums(t *testing.T) {
	var txs []model.Transaction
	for range 1000 {
		txs = append(txs, expense("0.01", "Tiny", ""))
		txs = append(txs, income("0.10", ""))
	}

	totals := ComputeTotals(txs)
	assert.Equal(t, "10", totals.Expense.String())
	assert.Equal(t, "100", totals.Income.String())
	assert.Equal(t, "90", totals.Balance.String())
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Expense.IsZero())
	assert.True(t, totals.Balance.IsZero())
	assert.Zero(t, totals.Count)
}

func TestByCategory(t *testing.T) {
	txs := []model.Transaction{
		expense("10", "Food", "Card"),
		expense("30", "Rent", "Transfer"),
		expense("10", "", "Card"),
		expense("10", "Bills", "Card"),
		income("999", "Salary"),
	}

	groups := ByCategory(txs)
	require.Len(t, groups, 4)

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"Rent", "Bills", "Food", UncategorizedLabel}, names)
	assert.True(t, d("50").Equal(groups[0].Percentage))

	sum := decimal.Zero
	for _, g := range groups {
		sum = sum.Add(g.Percentage)
	}
	assert.InDelta(t, 100, sum.InexactFloat64(), 0.0001)
}

func TestByPaymentMethod_IncludesAllTypes(t *testing.T) {
	txs := []model.Transaction{
		expense("40", "Food", "Card"),
		income("60", "Salary"),
	}

	groups := ByPaymentMethod(txs)
	require.Len(t, groups, 2)
	assert.Equal(t, NoPaymentMethodLabel, groups[0].Name)
	assert.True(t, d("60").Equal(groups[0].Percentage))
	assert.Equal(t, "Card", groups[1].Name)
	assert.True(t, d("40").Equal(groups[1].Percentage))
}

func TestGroupings_EmptyHaveNoPercentages(t *testing.T) {
	assert.Empty(t, ByCategory(nil))
	assert.Empty(t, ByPaymentMethod(nil))

	groups := ByCategory([]model.Transaction{expense("0", "Free", "Card")})
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Percentage.IsZero())
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		part  string
		whole string
		want  string
	}{
		{"25", "100", "25"},
		{"1", "4", "25"},
		{"5", "0", "0"},
	}
	for _, tt := range tests {
		got := Percentage(d(tt.part), d(tt.whole))
		assert.True(t, d(tt.want).Equal(got), "%s/%s = %s", tt.part, tt.whole, got)
	}
}
