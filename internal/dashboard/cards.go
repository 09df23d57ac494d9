package dashboard

import (
	"fmt"

	"github.com/Veraticus/fintrack/internal/aggregate"
)

// Tone hints how a card value should be colored.
type Tone int

// Card tones.
const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
)

// Card is one summary tile.
type Card struct {
	Title    string
	Value    string
	Subtitle string
	Tone     Tone
}

// Cards renders the balance, income, expense and investment tiles.
func (s Snapshot) Cards(f aggregate.Formatter) []Card {
	totals := s.Report.Totals

	balanceTone := TonePositive
	if totals.Balance.IsNegative() {
		balanceTone = ToneNegative
	}

	investedSubtitle := "Total invested"
	if s.Invested.Count > 0 {
		investedSubtitle = fmt.Sprintf("Now worth %s", f.Currency(s.Invested.Current))
	}

	return []Card{
		{
			Title:    "Balance",
			Value:    f.Currency(totals.Balance),
			Subtitle: transactionCount(totals.Count),
			Tone:     balanceTone,
		},
		{Title: "Income", Value: f.Currency(totals.Income), Subtitle: "This month", Tone: TonePositive},
		{Title: "Expenses", Value: f.Currency(totals.Expense), Subtitle: "This month", Tone: ToneNegative},
		{Title: "Investments", Value: f.Currency(s.Invested.Invested), Subtitle: investedSubtitle, Tone: ToneNeutral},
	}
}

func transactionCount(n int) string {
	if n == 1 {
		return "1 transaction this month"
	}
	return fmt.Sprintf("%d transactions this month", n)
}
