package sheets

import (
	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
)

// Tab names written by the exporter.
const (
	TransactionsTab = "Transactions"
	SummaryTab      = "Summary"
)

// Export is everything written for one period.
type Export struct {
	// ServerSummary, when set, is shown beside the locally computed totals.
	ServerSummary *model.Summary
	Transactions  []model.Transaction
	Report        aggregate.Report
	Period        period.Period
}

var transactionHeader = []any{"Date", "Description", "Type", "Category", "Payment Method", "Amount", "Notes"}
