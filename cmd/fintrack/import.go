package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/config"
	"github.com/Veraticus/fintrack/internal/forms"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/ofx"
)

var errNoDrafts = errors.New("no transactions to import")

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from bank files",
	}
	cmd.AddCommand(importOFXCmd())
	return cmd
}

type importOptions struct {
	expenseCategory string
	incomeCategory  string
	paymentMethod   string
	dryRun          bool
	yes             bool
}

func importOFXCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "ofx <file>",
		Short: "Import transactions from an OFX/QFX statement",
		Long: `Import a bank or credit card statement exported as OFX or QFX.

Debits become expenses and credits become income. Every expense is filed under
--category and paid with --payment-method; every income entry goes to
--income-category. Entries that already exist (same date, type, amount and
description) are skipped.

Examples:
  # Preview what would be imported
  fintrack import ofx ~/Downloads/extrato.ofx -c Groceries -p "Debit Card" --dry-run

  # Import without the confirmation prompt
  fintrack import ofx ~/Downloads/fatura.qfx -c Shopping -i Salary -p "Credit Card" -y`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runImportOFX(ctx, a, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.expenseCategory, "category", "c", "", "expense category name or ID")
	cmd.Flags().StringVarP(&opts.incomeCategory, "income-category", "i", "", "income category name or ID")
	cmd.Flags().StringVarP(&opts.paymentMethod, "payment-method", "p", "", "payment method name or ID for expenses")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "d", false, "preview the import without saving")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "import without confirmation")
	return cmd
}

// importPlan is a parsed statement with every reference resolved.
type importPlan struct {
	drafts          []ofx.Draft
	categories      []model.Category
	methods         []model.PaymentMethod
	expenseCategory int
	incomeCategory  int
	paymentMethod   *int
	skipped         int
}

func runImportOFX(ctx context.Context, a *app, path string, opts importOptions) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	drafts, err := parseStatement(ctx, path)
	if err != nil {
		return err
	}
	slog.Info("Parsed statement", "file", filepath.Base(path), "entries", len(drafts))

	existing, err := a.client.Transactions().List(ctx, api.UserQuery(user.ID))
	if err != nil {
		return actionFailed(err, "Could not load existing transactions")
	}
	fresh, skipped := ofx.SkipExisting(drafts, existing)

	l, err := loadLookups(ctx, a, user.ID, withCategories|withMethods)
	if err != nil {
		return err
	}
	plan, err := resolvePlan(fresh, l, opts)
	if err != nil {
		return err
	}
	plan.skipped = skipped

	printPlan(a, plan)
	if len(plan.drafts) == 0 || opts.dryRun {
		return nil
	}

	if err := a.confirm(ctx, opts.yes, fmt.Sprintf("Import %d transactions?", len(plan.drafts))); err != nil {
		return err
	}
	return executePlan(ctx, a, user.ID, plan)
}

func parseStatement(ctx context.Context, path string) ([]ofx.Draft, error) {
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Cannot open %s", path), err)
	}
	defer f.Close()

	drafts, err := ofx.NewParser().ParseFile(ctx, f)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Cannot parse %s as OFX", filepath.Base(path)), err)
	}
	if len(drafts) == 0 {
		return nil, common.NewUserError("The statement has no transactions", errNoDrafts)
	}
	return drafts, nil
}

// resolvePlan maps the category and payment method flags to IDs. Only the
// references the drafts actually need are required.
func resolvePlan(drafts []ofx.Draft, l lookups, opts importOptions) (importPlan, error) {
	plan := importPlan{drafts: drafts, categories: l.categories, methods: l.methods}

	var hasIncome, hasExpense bool
	for _, d := range drafts {
		if d.Type == model.TransactionIncome {
			hasIncome = true
		} else {
			hasExpense = true
		}
	}

	if hasExpense {
		choices := forms.CategoryChoices(model.CategoriesOfType(l.categories, model.TransactionExpense))
		id, err := forms.Resolve("category", opts.expenseCategory, choices)
		if err != nil {
			return importPlan{}, formFailed(err)
		}
		plan.expenseCategory = id

		methodID, err := forms.Resolve("payment method", opts.paymentMethod, forms.PaymentMethodChoices(l.methods))
		if err != nil {
			return importPlan{}, formFailed(err)
		}
		plan.paymentMethod = &methodID
	}
	if hasIncome {
		choices := forms.CategoryChoices(model.CategoriesOfType(l.categories, model.TransactionIncome))
		id, err := forms.Resolve("income category", opts.incomeCategory, choices)
		if err != nil {
			return importPlan{}, formFailed(err)
		}
		plan.incomeCategory = id
	}
	return plan, nil
}

func (p importPlan) transaction(d ofx.Draft, userID int) model.Transaction {
	category := p.expenseCategory
	if d.Type == model.TransactionIncome {
		category = p.incomeCategory
	}
	tx := d.Transaction(category, p.paymentMethod)
	tx.UserID = userID
	return tx
}

func printPlan(a *app, plan importPlan) {
	if plan.skipped > 0 {
		fmt.Fprintln(a.out, cli.FormatInfo(fmt.Sprintf("Skipping %d transactions that already exist", plan.skipped)))
	}
	if len(plan.drafts) == 0 {
		fmt.Fprintln(a.out, cli.FormatSuccess("Nothing new to import"))
		return
	}

	t := newTable(a.out, "Date", "Description", "Type", "Amount", "Account")
	for _, d := range plan.drafts {
		t.row(a.format.Date(d.Date), d.Description, d.Type,
			cli.FormatAmount(a.format.Currency(d.Amount), d.Type == model.TransactionExpense),
			d.AccountID)
	}
	t.flush()
}

// executePlan creates each transaction through the API. An interrupt stops
// the import after the transaction in flight.
func executePlan(ctx context.Context, a *app, userID int, plan importPlan) error {
	var created, failed int

	handler := cli.NewInterruptHandler(a.out, func() string {
		return "Stopping import after the current transaction..."
	})
	ctx, stop := handler.HandleInterrupts(ctx)
	defer stop()

	bar := cli.NewProgressBar(a.out, len(plan.drafts), "Importing")
	saver := a.client.Transactions()
	hooks := forms.Hooks[model.Transaction]{Bus: a.bus}

	for _, d := range plan.drafts {
		if ctx.Err() != nil {
			break
		}

		form := forms.EditTransactionForm(plan.transaction(d, userID), plan.categories, plan.methods)
		if _, err := form.Submit(ctx, saver, hooks); err != nil {
			if ctx.Err() != nil {
				break
			}
			failed++
			common.LogError(err, "Failed to import transaction", common.Fields{
				"description": d.Description,
				"date":        d.Date.String(),
				"fit_id":      d.FitID,
			})
		} else {
			created++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(a.out)

	switch {
	case handler.WasInterrupted():
		fmt.Fprintln(a.out, cli.FormatWarning(fmt.Sprintf("Import interrupted: %d created, %d not imported", created, len(plan.drafts)-created)))
	case failed > 0:
		fmt.Fprintln(a.out, cli.FormatWarning(fmt.Sprintf("Imported %d transactions, %d failed", created, failed)))
	default:
		fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", created)))
	}
	return nil
}
