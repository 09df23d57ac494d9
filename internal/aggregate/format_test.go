package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/fintrack/internal/model"
)

func TestFormatter_Currency(t *testing.T) {
	f := DefaultFormatter()

	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"1234.56", "R$ 1.234,56"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"100", "R$ 100,00"},
		{"-350.5", "-R$ 350,50"},
		{"999.999", "R$ 1.000,00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Currency(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestFormatter_CustomConvention(t *testing.T) {
	f := Formatter{CurrencySymbol: "$", ThousandsSeparator: ",", DecimalSeparator: "."}
	assert.Equal(t, "$ 12,345.60", f.Currency(decimal.RequireFromString("12345.6")))
	assert.Equal(t, "2025-03-10", f.Date(model.NewDate(2025, time.March, 10)))
}

func TestFormatter_Signed(t *testing.T) {
	f := DefaultFormatter()
	exp := model.Transaction{Type: model.TransactionExpense, Amount: decimal.NewFromInt(50)}
	inc := model.Transaction{Type: model.TransactionIncome, Amount: decimal.NewFromInt(500)}

	assert.Equal(t, "-R$ 50,00", f.Signed(exp))
	assert.Equal(t, "+R$ 500,00", f.Signed(inc))
}

func TestFormatter_PercentAndDate(t *testing.T) {
	f := DefaultFormatter()
	assert.Equal(t, "25,0%", f.Percent(decimal.NewFromInt(25)))
	assert.Equal(t, "33,3%", f.Percent(Percentage(decimal.NewFromInt(1), decimal.NewFromInt(3))))
	assert.Equal(t, "10/03/2025", f.Date(model.NewDate(2025, time.March, 10)))
	assert.Equal(t, "-", f.Date(model.Date{}))
}
