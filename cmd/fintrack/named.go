package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/forms"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

func paymentMethodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payment-methods",
		Aliases: []string{"methods"},
		Short:   "Manage payment methods",
	}

	save := func(ctx context.Context, a *app, id int, name string) (int, error) {
		form := &forms.PaymentMethodForm{ID: id, Name: name}
		saved, err := form.Submit(ctx, a.client.PaymentMethods(), forms.Hooks[model.PaymentMethod]{Bus: a.bus})
		return saved.ID, err
	}

	cmd.AddCommand(listNamedCmd("payment methods", (*api.Client).PaymentMethods,
		func(m model.PaymentMethod) (int, string) { return m.ID, m.Name }))
	cmd.AddCommand(saveNamedCmd("add <name>", "Add a payment method", false, save))
	cmd.AddCommand(saveNamedCmd("edit <id> <name>", "Rename a payment method", true, save))
	cmd.AddCommand(deleteCmd("payment method", refresh.PaymentMethods, (*api.Client).PaymentMethods))

	return cmd
}

func investmentTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "investment-types",
		Short: "Manage investment types",
	}

	save := func(ctx context.Context, a *app, id int, name string) (int, error) {
		form := &forms.InvestmentTypeForm{ID: id, Name: name}
		saved, err := form.Submit(ctx, a.client.InvestmentTypes(), forms.Hooks[model.InvestmentType]{Bus: a.bus})
		return saved.ID, err
	}

	cmd.AddCommand(listNamedCmd("investment types", (*api.Client).InvestmentTypes,
		func(t model.InvestmentType) (int, string) { return t.ID, t.Name }))
	cmd.AddCommand(saveNamedCmd("add <name>", "Add an investment type", false, save))
	cmd.AddCommand(saveNamedCmd("edit <id> <name>", "Rename an investment type", true, save))
	cmd.AddCommand(deleteCmd("investment type", refresh.InvestmentTypes, (*api.Client).InvestmentTypes))

	return cmd
}

// listNamedCmd lists a resource whose records are only an ID and a name.
func listNamedCmd[T any](plural string, collection func(*api.Client) api.Resource[T], fields func(T) (int, string)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List " + plural,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				items, err := collection(a.client).List(ctx, api.UserQuery(user.ID))
				if err != nil {
					return actionFailed(err, "Could not load "+plural)
				}

				if len(items) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("No "+plural+" found."))
					return nil
				}
				t := newTable(a.out, "ID", "Name")
				for _, item := range items {
					id, name := fields(item)
					t.row(id, name)
				}
				t.flush()
				return nil
			})
		},
	}
}

type saveNamedFunc func(ctx context.Context, a *app, id int, name string) (int, error)

// saveNamedCmd creates (add <name>) or renames (edit <id> <name>) a named record.
func saveNamedCmd(use, short string, edit bool, save saveNamedFunc) *cobra.Command {
	positional := cobra.ExactArgs(1)
	if edit {
		positional = cobra.ExactArgs(2)
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  positional,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, name := 0, args[0]
			if edit {
				var err error
				if id, err = parseID(args[0]); err != nil {
					return err
				}
				name = args[1]
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				savedID, err := save(ctx, a, id, name)
				if err != nil {
					return formFailed(err)
				}
				fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Saved %q (ID: %d)", name, savedID)))
				return nil
			})
		},
	}
}
