package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/dashboard"
	"github.com/Veraticus/fintrack/internal/forms"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

func investmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "investments",
		Short: "Track investments and their profit or loss",
	}

	cmd.AddCommand(listInvestmentsCmd())
	cmd.AddCommand(addInvestmentCmd())
	cmd.AddCommand(editInvestmentCmd())
	cmd.AddCommand(deleteCmd("investment", refresh.Investments, (*api.Client).Investments))

	return cmd
}

func listInvestmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List investments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				invs, err := a.client.Investments().List(ctx, api.UserQuery(user.ID))
				if err != nil {
					return actionFailed(err, "Could not load investments")
				}
				l, err := loadLookups(ctx, a, user.ID, withTypes)
				if err != nil {
					return err
				}
				printInvestments(a, invs, l.types)
				return nil
			})
		},
	}
}

func printInvestments(a *app, invs []model.Investment, types []model.InvestmentType) {
	if len(invs) == 0 {
		fmt.Fprintln(a.out, cli.FormatInfo("No investments found. Use 'fintrack investments add' to create one."))
		return
	}

	names := make(map[int]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}

	f := a.format
	t := newTable(a.out, "ID", "Name", "Type", "Invested", "Current", "P/L", "P/L %", "Purchased")
	for _, inv := range invs {
		pl := inv.ProfitLoss()
		t.row(inv.ID, inv.Name, emptyOr(names[inv.InvestmentTypeID], "-"),
			f.Currency(inv.InitialAmount), f.Currency(inv.CurrentAmount),
			cli.FormatAmount(f.Currency(pl), pl.IsNegative()),
			f.Percent(inv.ProfitLossPercentage()),
			f.Date(inv.PurchaseDate))
	}
	t.flush()

	totals := dashboard.SumInvestments(invs)
	fmt.Fprintf(a.out, "\n%s %s invested, now worth %s (%s)\n",
		cli.BoldStyle.Render("Total:"),
		f.Currency(totals.Invested), f.Currency(totals.Current),
		cli.FormatAmount(f.Currency(totals.ProfitLoss), totals.ProfitLoss.IsNegative()))
}

type investmentFlags struct {
	name           string
	investmentType string
	initial        string
	current        string
	purchaseDate   string
	notes          string
}

func (f *investmentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "investment name")
	cmd.Flags().StringVarP(&f.investmentType, "type", "t", "", "investment type name or ID")
	cmd.Flags().StringVar(&f.initial, "initial", "", "amount invested")
	cmd.Flags().StringVar(&f.current, "current", "", "current value (default: initial amount)")
	cmd.Flags().StringVar(&f.purchaseDate, "date", "", "purchase date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-form notes")
}

func (f *investmentFlags) apply(cmd *cobra.Command, form *forms.InvestmentForm) {
	override(cmd, "name", &form.Name, f.name)
	override(cmd, "type", &form.InvestmentType, f.investmentType)
	override(cmd, "initial", &form.InitialAmount, f.initial)
	override(cmd, "current", &form.CurrentAmount, f.current)
	override(cmd, "date", &form.PurchaseDate, f.purchaseDate)
	override(cmd, "notes", &form.Notes, f.notes)
}

func addInvestmentCmd() *cobra.Command {
	var flags investmentFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an investment",
		Long: `Record an investment.

Example:
  fintrack investments add -n "Tesouro Selic" -t "Renda Fixa" --initial 1000 --current 1042.50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				l, err := loadLookups(ctx, a, user.ID, withTypes)
				if err != nil {
					return err
				}

				form := forms.NewInvestmentForm(l.types)
				form.UserID = user.ID
				flags.apply(cmd, form)
				return saveInvestment(ctx, a, form)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func editInvestmentCmd() *cobra.Command {
	var flags investmentFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an investment",
		Long:  `Change an investment. Only the flags you pass are changed; use --current to record its latest value.`,
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
				inv, err := a.client.Investments().Get(ctx, id)
				if err != nil {
					return actionFailed(err, fmt.Sprintf("Could not load investment %d", id))
				}
				l, err := loadLookups(ctx, a, user.ID, withTypes)
				if err != nil {
					return err
				}

				form := forms.EditInvestmentForm(inv, l.types)
				if form.UserID == 0 {
					form.UserID = user.ID
				}
				flags.apply(cmd, form)
				return saveInvestment(ctx, a, form)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func saveInvestment(ctx context.Context, a *app, form *forms.InvestmentForm) error {
	saved, err := form.Submit(ctx, a.client.Investments(), forms.Hooks[model.Investment]{Bus: a.bus})
	if err != nil {
		return formFailed(err)
	}
	fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Saved investment %q (ID: %d) worth %s", saved.Name, saved.ID, a.format.Currency(saved.CurrentAmount))))
	return nil
}
