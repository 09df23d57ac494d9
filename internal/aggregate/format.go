package aggregate

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/fintrack/internal/model"
)

// Formatter renders amounts, percentages and dates with one fixed convention.
type Formatter struct {
	CurrencySymbol     string
	ThousandsSeparator string
	DecimalSeparator   string
	DateLayout         string
}

// DefaultFormatter renders Brazilian real amounts like "R$ 1.234,56".
func DefaultFormatter() Formatter {
	return Formatter{
		CurrencySymbol:     "R$",
		ThousandsSeparator: ".",
		DecimalSeparator:   ",",
		DateLayout:         "02/01/2006",
	}
}

// Currency renders d with two decimals, the currency symbol and grouped thousands.
func (f Formatter) Currency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	body := f.number(d, 2)
	if f.CurrencySymbol == "" {
		return sign + body
	}
	return sign + f.CurrencySymbol + " " + body
}

// Signed renders a transaction amount with "+" for income and "-" for expense.
func (f Formatter) Signed(tx model.Transaction) string {
	prefix := "+"
	if tx.IsExpense() {
		prefix = "-"
	}
	return prefix + f.Currency(tx.Amount.Abs())
}

// Percent renders p with one decimal, e.g. "25,0%".
func (f Formatter) Percent(p decimal.Decimal) string {
	return f.number(p, 1) + "%"
}

// Date renders d with the configured layout, or "-" when unset.
func (f Formatter) Date(d model.Date) string {
	if d.IsZero() {
		return "-"
	}
	layout := f.DateLayout
	if layout == "" {
		layout = time.DateOnly
	}
	return d.Format(layout)
}

func (f Formatter) number(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)
	intPart, frac, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.ThousandsSeparator)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		sep := f.DecimalSeparator
		if sep == "" {
			sep = "."
		}
		b.WriteString(sep)
		b.WriteString(frac)
	}
	return b.String()
}
