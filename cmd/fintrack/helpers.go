package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/config"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
	"github.com/Veraticus/fintrack/internal/refresh"
	"github.com/Veraticus/fintrack/internal/session"
	"github.com/Veraticus/fintrack/internal/storage"
)

const expiredHint = "Session expired. Run 'fintrack login' to sign in again."

// app bundles what every command needs: local storage for the token, the
// API client and the session that authenticates it.
type app struct {
	client   *api.Client
	session  *session.Session
	store    *storage.SQLiteStorage
	bus      *refresh.Bus
	prompt   *cli.Prompter
	out      io.Writer
	in       io.Reader
	format   aggregate.Formatter
	settings config.Settings
}

// openApp loads settings from viper and builds the app for cmd.
func openApp(cmd *cobra.Command) (*app, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Configuration incomplete: "+err.Error(), errors.Join(common.ErrMissingConfig, err))
	}
	return newApp(cmd.Context(), settings, cmd.InOrStdin(), cmd.OutOrStdout())
}

func newApp(ctx context.Context, settings config.Settings, in io.Reader, out io.Writer) (*app, error) {
	store, err := storage.Open(ctx, settings.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	client, err := api.New(settings.APIBaseURL, api.WithTimeout(settings.APITimeout))
	if err != nil {
		_ = store.Close()
		return nil, common.NewUserError("Invalid API base URL", errors.Join(common.ErrInvalidConfig, err))
	}

	sess := session.New(client, storage.NewTokenStore(store))
	client.SetCredentials(sess)
	client.OnUnauthorized(func() {
		fmt.Fprintln(out, cli.FormatWarning(expiredHint))
	})

	return &app{
		client:   client,
		session:  sess,
		store:    store,
		bus:      refresh.NewBus(),
		out:      out,
		in:       in,
		format:   settings.Display,
		settings: settings,
	}, nil
}

// Close releases local storage.
func (a *app) Close() error {
	return a.store.Close()
}

// restore loads the stored token and the user it belongs to.
func (a *app) restore(ctx context.Context) {
	a.session.Init(ctx)
}

// requireUser restores the session and fails when nobody is logged in.
func (a *app) requireUser(ctx context.Context) (model.User, error) {
	a.restore(ctx)
	user, ok := a.session.User()
	if !ok {
		return model.User{}, common.NewUserError("Not logged in. Run 'fintrack login' first.", common.ErrNotLoggedIn)
	}
	return user, nil
}

// prompter is shared so buffered input is not lost between questions.
func (a *app) prompter() *cli.Prompter {
	if a.prompt == nil {
		a.prompt = cli.NewPrompter(a.in, a.out)
	}
	return a.prompt
}

// confirm asks before a destructive action unless force is set.
func (a *app) confirm(ctx context.Context, force bool, question string) error {
	if force {
		return nil
	}
	ok, err := a.prompter().Confirm(ctx, question)
	if err != nil {
		return err
	}
	if !ok {
		return common.NewUserError("Cancelled", common.ErrCancelled)
	}
	return nil
}

// withApp opens the app, runs fn and closes it again.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("Invalid ID %q", arg), fmt.Errorf("invalid id %q: %w", arg, common.ErrInvalidConfig))
	}
	return id, nil
}

// periodFlags selects a month: an explicit year/month, or the current month
// shifted back by prev.
type periodFlags struct {
	year  int
	month int
	prev  int
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.year, "year", 0, "year of the period (default: current)")
	cmd.Flags().IntVar(&p.month, "month", 0, "month of the period, 1-12 (default: current)")
	cmd.Flags().IntVar(&p.prev, "prev", 0, "number of months before the selected one")
}

func (p periodFlags) resolve(now time.Time) (period.Period, error) {
	if p.prev < 0 {
		return period.Period{}, common.NewUserError("--prev must not be negative", period.ErrInvalidDirection)
	}

	current := period.Current(now)
	year, month := current.Year, current.Month
	if p.year != 0 {
		year = p.year
	}
	if p.month != 0 {
		month = p.month
	}

	selected, err := period.New(year, month)
	if err != nil {
		return period.Period{}, common.NewUserError(err.Error(), err)
	}
	return selected.Shift(-p.prev), nil
}

// actionFailed wraps err for display with a resource-specific fallback.
func actionFailed(err error, fallback string) error {
	if errors.Is(err, context.Canceled) {
		return common.NewUserError("Cancelled", err)
	}
	return common.NewUserError(api.UserMessage(err, fallback), err)
}
