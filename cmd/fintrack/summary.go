package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func summaryCmd() *cobra.Command {
	var when periodFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the monthly summary",
		Long: `Show income, expenses and balance for a month, broken down by category
and payment method. Totals computed locally are shown beside the server's
own summary so the two can be compared.

Examples:
  # Current month
  fintrack summary

  # March 2025
  fintrack summary --year 2025 --month 3

  # Two months ago
  fintrack summary --prev 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				p, err := when.resolve(time.Now())
				if err != nil {
					return err
				}
				return runSummary(ctx, a, p)
			})
		},
	}

	when.register(cmd)
	return cmd
}

// periodReport is the data behind a summary or an export.
type periodReport struct {
	server       *model.Summary
	transactions []model.Transaction
	report       aggregate.Report
	period       period.Period
}

// fetchReport loads the period's transactions and the server summary. A failed
// summary request is logged and leaves server nil.
func fetchReport(ctx context.Context, a *app, userID int, p period.Period) (periodReport, error) {
	query := api.PeriodQuery(userID, p)

	txs, err := a.client.Transactions().List(ctx, query)
	if err != nil {
		return periodReport{}, actionFailed(err, "Could not load transactions")
	}

	r := periodReport{
		transactions: txs,
		report:       aggregate.Build(txs),
		period:       p,
	}

	summary, err := a.client.TransactionSummary(ctx, query)
	if err != nil {
		slog.Warn("Server summary unavailable", "period", p.String(), "error", err)
		return r, nil
	}
	r.server = &summary
	return r, nil
}

func runSummary(ctx context.Context, a *app, p period.Period) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	r, err := fetchReport(ctx, a, user.ID, p)
	if err != nil {
		return err
	}

	printSummary(a.out, a.format, r)
	return nil
}

func printSummary(out io.Writer, f aggregate.Formatter, r periodReport) {
	fmt.Fprintln(out, cli.FormatTitle(cli.ChartIcon+" "+r.period.Label()))

	if r.report.Totals.Count == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No transactions in this period."))
	}

	totals := r.report.Totals
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if r.server != nil {
		fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render(""), headerStyle.Render("Local"), headerStyle.Render("Server"))
		fmt.Fprintf(w, "Income\t%s\t%s\n", f.Currency(totals.Income), f.Currency(r.server.TotalIncome))
		fmt.Fprintf(w, "Expenses\t%s\t%s\n", f.Currency(totals.Expense), f.Currency(r.server.TotalExpense))
		fmt.Fprintf(w, "Balance\t%s\t%s\n", f.Currency(totals.Balance), f.Currency(r.server.Balance))
		fmt.Fprintf(w, "Transactions\t%d\t%d\n", totals.Count, r.server.TransactionCount)
	} else {
		fmt.Fprintf(w, "Income\t%s\n", f.Currency(totals.Income))
		fmt.Fprintf(w, "Expenses\t%s\n", f.Currency(totals.Expense))
		fmt.Fprintf(w, "Balance\t%s\n", f.Currency(totals.Balance))
		fmt.Fprintf(w, "Transactions\t%d\n", totals.Count)
	}
	_ = w.Flush()

	if r.server != nil && !summaryMatches(totals, *r.server) {
		fmt.Fprintln(out, cli.FormatWarning("Server totals differ from the listed transactions."))
	}

	printGroups(out, f, "By category", r.report.ByCategory)
	printGroups(out, f, "By payment method", r.report.ByPaymentMethod)
}

func summaryMatches(t aggregate.Totals, s model.Summary) bool {
	return t.Income.Equal(s.TotalIncome) &&
		t.Expense.Equal(s.TotalExpense) &&
		t.Balance.Equal(s.Balance) &&
		t.Count == s.TransactionCount
}

func printGroups(out io.Writer, f aggregate.Formatter, title string, groups []aggregate.Group) {
	if len(groups) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.BoldStyle.Render(title))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Name, f.Currency(g.Total), f.Percent(g.Percentage), shareBar(g.Percentage))
	}
	_ = w.Flush()
}

const shareBarWidth = 20

func shareBar(pct decimal.Decimal) string {
	filled := int(pct.Mul(decimal.NewFromInt(shareBarWidth)).Div(decimal.NewFromInt(100)).Round(0).IntPart())
	filled = max(0, min(shareBarWidth, filled))
	return cli.InfoStyle.Render(strings.Repeat("█", filled)) + cli.SubtleStyle.Render(strings.Repeat("░", shareBarWidth-filled))
}
