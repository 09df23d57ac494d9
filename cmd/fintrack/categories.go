package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/forms"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(editCategoryCmd())
	cmd.AddCommand(deleteCmd("category", refresh.Categories, (*api.Client).Categories))

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
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
				categories, err := a.client.Categories().List(ctx, api.CategoryQuery(user.ID, filter))
				if err != nil {
					return actionFailed(err, "Could not load categories")
				}
				if filter != "" {
					categories = model.CategoriesOfType(categories, filter)
				}

				if len(categories) == 0 {
					fmt.Fprintln(a.out, cli.FormatInfo("No categories found. Use 'fintrack categories add' to create one."))
					return nil
				}
				t := newTable(a.out, "ID", "Name", "Type")
				for _, c := range categories {
					t.row(c.ID, c.Name, c.Type)
				}
				t.flush()
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "only show income or expense categories")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				form := &forms.CategoryForm{Name: args[0], Type: txType}
				return saveCategory(ctx, a, form)
			})
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", string(model.TransactionExpense), "income or expense")
	return cmd
}

func editCategoryCmd() *cobra.Command {
	var name, txType string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename a category or change its type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if name == "" && txType == "" {
				return common.NewUserError("Specify --name or --type to update", common.ErrInvalidConfig)
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				current, err := a.client.Categories().Get(ctx, id)
				if err != nil {
					return actionFailed(err, fmt.Sprintf("Could not load category %d", id))
				}

				form := &forms.CategoryForm{ID: id, Name: current.Name, Type: string(current.Type)}
				override(cmd, "name", &form.Name, name)
				override(cmd, "type", &form.Type, txType)
				return saveCategory(ctx, a, form)
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "income or expense")
	return cmd
}

func saveCategory(ctx context.Context, a *app, form *forms.CategoryForm) error {
	saved, err := form.Submit(ctx, a.client.Categories(), forms.Hooks[model.Category]{Bus: a.bus})
	if err != nil {
		return formFailed(err)
	}
	fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Saved %s category %q (ID: %d)", saved.Type, saved.Name, saved.ID)))
	return nil
}
