package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/forms"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

// table writes aligned columns with a styled header and a dashed rule.
type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer, columns ...string) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}

	header := make([]string, len(columns))
	rule := make([]string, len(columns))
	for i, c := range columns {
		header[i] = headerStyle.Render(c)
		rule[i] = strings.Repeat("-", max(4, len(c)))
	}
	fmt.Fprintln(t.w, strings.Join(header, "\t"))
	fmt.Fprintln(t.w, strings.Join(rule, "\t"))
	return t
}

func (t *table) row(cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

func (t *table) flush() {
	_ = t.w.Flush()
}

// lookups are the reference lists forms resolve names against.
type lookups struct {
	categories []model.Category
	methods    []model.PaymentMethod
	types      []model.InvestmentType
}

type lookupSet int

const (
	withCategories lookupSet = 1 << iota
	withMethods
	withTypes
)

// loadLookups fetches the requested reference lists concurrently.
func loadLookups(ctx context.Context, a *app, userID int, want lookupSet) (lookups, error) {
	var l lookups
	query := api.UserQuery(userID)

	g, gctx := errgroup.WithContext(ctx)
	if want&withCategories != 0 {
		g.Go(func() (err error) {
			l.categories, err = a.client.Categories().List(gctx, query)
			return err
		})
	}
	if want&withMethods != 0 {
		g.Go(func() (err error) {
			l.methods, err = a.client.PaymentMethods().List(gctx, query)
			return err
		})
	}
	if want&withTypes != 0 {
		g.Go(func() (err error) {
			l.types, err = a.client.InvestmentTypes().List(gctx, query)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return lookups{}, actionFailed(err, "Could not load reference data")
	}
	return l, nil
}

// formFailed turns a form or save error into a user error.
func formFailed(err error) error {
	return common.NewUserError(forms.Message(err), err)
}

// deleteCmd builds the delete subcommand shared by every resource group.
func deleteCmd[T any](noun string, resource refresh.Resource, collection func(*api.Client) api.Resource[T]) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				if err := a.confirm(ctx, force, fmt.Sprintf("Delete %s %d?", noun, id)); err != nil {
					return err
				}
				return runDelete(ctx, a, noun, resource, collection(a.client), id)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
	return cmd
}

func runDelete[T any](ctx context.Context, a *app, noun string, resource refresh.Resource, r api.Resource[T], id int) error {
	if err := r.Delete(ctx, id); err != nil {
		return actionFailed(err, "Could not delete "+noun)
	}
	a.bus.Publish(refresh.Event{Resource: resource, Action: refresh.Deleted, ID: id})
	fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Deleted %s %d", noun, id)))
	return nil
}

// override copies a flag value into dst when the flag was set.
func override(cmd *cobra.Command, name string, dst *string, value string) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

func emptyOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return cli.SubtleStyle.Render(fallback)
	}
	return s
}
