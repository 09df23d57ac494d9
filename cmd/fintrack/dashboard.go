package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/fintrack/internal/period"
	"github.com/Veraticus/fintrack/internal/tui"
	"github.com/Veraticus/fintrack/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	var (
		theme     string
		altScreen bool
		when      periodFlags
	)

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Open the terminal dashboard: monthly balance, income, expenses and
investments, spending by category and payment method, and your
transactions, goals and investments.

Keys: h/l change month, tab switches lists, n adds a transaction,
e edits, d deletes, r refreshes, L logs out, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				start, err := when.resolve(time.Now())
				if err != nil {
					return err
				}
				selector := period.NewSelector(time.Now())
				selector.Set(start)

				svc := tui.NewServices(a.client, a.session, a.bus, selector)
				return tui.Run(ctx, a.client, svc,
					tui.WithTheme(themes.GetTheme(theme)),
					tui.WithFormatter(a.format),
					tui.WithAltScreen(altScreen),
				)
			})
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().BoolVar(&altScreen, "alt-screen", true, "use the terminal's alternate screen")
	when.register(cmd)
	return cmd
}
