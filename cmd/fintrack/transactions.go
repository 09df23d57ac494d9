package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/forms"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Manage income and expense transactions",
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(editTransactionCmd())
	cmd.AddCommand(deleteCmd("transaction", refresh.Transactions, (*api.Client).Transactions))

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		when   periodFlags
		all    bool
		txType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter model.TransactionType
			if txType != "" {
				t, err := model.ParseTransactionType(txType)
				if err != nil {
					return common.NewUserError(err.Error(), err)
				}
				filter = t
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}

				query := api.UserQuery(user.ID)
				if !all {
					p, err := when.resolve(time.Now())
					if err != nil {
						return err
					}
					query = api.PeriodQuery(user.ID, p)
				}

				txs, err := a.client.Transactions().List(ctx, query)
				if err != nil {
					return actionFailed(err, "Could not load transactions")
				}
				printTransactions(a, filterTransactions(txs, filter))
				return nil
			})
		},
	}

	when.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "list every transaction instead of one month")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "only show income or expense")
	return cmd
}

func filterTransactions(txs []model.Transaction, t model.TransactionType) []model.Transaction {
	if t == "" {
		return txs
	}
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out
}

func printTransactions(a *app, txs []model.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(a.out, cli.FormatInfo("No transactions found. Use 'fintrack transactions add' to create one."))
		return
	}

	t := newTable(a.out, "ID", "Date", "Description", "Category", "Payment", "Amount")
	for _, tx := range txs {
		payment := tx.PaymentMethodName
		if tx.IsExpense() && payment == "" {
			payment = "No payment method"
		}
		t.row(tx.ID, a.format.Date(tx.Date), tx.Description,
			emptyOr(tx.CategoryName, "Uncategorized"), emptyOr(payment, "-"),
			cli.FormatAmount(a.format.Signed(tx), tx.IsExpense()))
	}
	t.flush()
}

// transactionFlags are the editable fields of a transaction.
type transactionFlags struct {
	description   string
	amount        string
	date          string
	txType        string
	category      string
	paymentMethod string
	notes         string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "D", "", "what the transaction was for")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "positive amount, e.g. 150.00")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&f.txType, "type", "t", "", "income or expense (default: expense)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category name or ID")
	cmd.Flags().StringVarP(&f.paymentMethod, "payment-method", "p", "", "payment method name or ID (expenses only)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

// apply writes the flags that were set into form.
func (f *transactionFlags) apply(cmd *cobra.Command, form *forms.TransactionForm) error {
	if cmd.Flags().Changed("type") {
		t, err := model.ParseTransactionType(f.txType)
		if err != nil {
			return common.NewUserError(err.Error(), err)
		}
		form.SetType(t)
	}
	override(cmd, "description", &form.Description, f.description)
	override(cmd, "amount", &form.Amount, f.amount)
	override(cmd, "date", &form.Date, f.date)
	override(cmd, "category", &form.Category, f.category)
	override(cmd, "payment-method", &form.PaymentMethod, f.paymentMethod)
	override(cmd, "notes", &form.Notes, f.notes)
	return nil
}

func addTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Long: `Add an income or expense. Expenses need a payment method; income does not.

Examples:
  fintrack transactions add -D "Groceries" -a 150.00 -c Food -p "Credit Card"
  fintrack transactions add -t income -D "Salary" -a 5000 -c Salary --date 2025-03-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				l, err := loadLookups(ctx, a, user.ID, withCategories|withMethods)
				if err != nil {
					return err
				}

				form := forms.NewTransactionForm(l.categories, l.methods)
				form.UserID = user.ID
				if err := flags.apply(cmd, form); err != nil {
					return err
				}
				return saveTransaction(ctx, a, form)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func editTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Long:  `Change the fields of an existing transaction. Only the flags you pass are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				tx, err := a.client.Transactions().Get(ctx, id)
				if err != nil {
					return actionFailed(err, fmt.Sprintf("Could not load transaction %d", id))
				}
				l, err := loadLookups(ctx, a, user.ID, withCategories|withMethods)
				if err != nil {
					return err
				}

				form := forms.EditTransactionForm(tx, l.categories, l.methods)
				if form.UserID == 0 {
					form.UserID = user.ID
				}
				if err := flags.apply(cmd, form); err != nil {
					return err
				}
				return saveTransaction(ctx, a, form)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func saveTransaction(ctx context.Context, a *app, form *forms.TransactionForm) error {
	verb := "Updated"
	if form.ID == 0 {
		verb = "Created"
	}

	saved, err := form.Submit(ctx, a.client.Transactions(), forms.Hooks[model.Transaction]{Bus: a.bus})
	if err != nil {
		return formFailed(err)
	}

	fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("%s %s %q (ID: %d) %s", verb, saved.Type, saved.Description, saved.ID, a.format.Signed(saved))))
	return nil
}
