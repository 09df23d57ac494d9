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

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(editGoalCmd())
	cmd.AddCommand(deleteCmd("goal", refresh.Goals, (*api.Client).Goals))

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				goals, err := a.client.Goals().List(ctx, api.UserQuery(user.ID))
				if err != nil {
					return actionFailed(err, "Could not load goals")
				}
				printGoals(a, goals)
				return nil
			})
		},
	}
}

func printGoals(a *app, goals []model.Goal) {
	if len(goals) == 0 {
		fmt.Fprintln(a.out, cli.FormatInfo("No goals found. Use 'fintrack goals add' to create one."))
		return
	}

	f := a.format
	t := newTable(a.out, "ID", "Name", "Saved", "Target", "Progress", "Remaining", "Due", "Status")
	for _, g := range goals {
		t.row(g.ID, g.Name, f.Currency(g.CurrentAmount), f.Currency(g.TargetAmount),
			f.Percent(g.Progress())+" "+shareBar(g.Progress()),
			f.Currency(g.Remaining()), f.Date(g.TargetDate), g.Status)
	}
	t.flush()
}

type goalFlags struct {
	name        string
	description string
	target      string
	current     string
	targetDate  string
	status      string
}

func (f *goalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "goal name")
	cmd.Flags().StringVarP(&f.description, "description", "D", "", "what the goal is for")
	cmd.Flags().StringVar(&f.target, "target", "", "target amount")
	cmd.Flags().StringVar(&f.current, "current", "", "amount saved so far (default: 0)")
	cmd.Flags().StringVar(&f.targetDate, "due", "", "target date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "active, completed or paused (default: active)")
}

func (f *goalFlags) apply(cmd *cobra.Command, form *forms.GoalForm) {
	override(cmd, "name", &form.Name, f.name)
	override(cmd, "description", &form.Description, f.description)
	override(cmd, "target", &form.TargetAmount, f.target)
	override(cmd, "current", &form.CurrentAmount, f.current)
	override(cmd, "due", &form.TargetDate, f.targetDate)
	override(cmd, "status", &form.Status, f.status)
}

func addGoalCmd() *cobra.Command {
	var flags goalFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a goal",
		Long: `Create a savings goal.

Example:
  fintrack goals add -n "Emergency fund" --target 10000 --current 2500 --due 2025-12-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				form := &forms.GoalForm{UserID: user.ID}
				flags.apply(cmd, form)
				return saveGoal(ctx, a, form)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func editGoalCmd() *cobra.Command {
	var flags goalFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a goal",
		Long:  `Change a goal. Only the flags you pass are changed; use --current to record new savings.`,
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
				g, err := a.client.Goals().Get(ctx, id)
				if err != nil {
					return actionFailed(err, fmt.Sprintf("Could not load goal %d", id))
				}

				form := forms.EditGoalForm(g)
				if form.UserID == 0 {
					form.UserID = user.ID
				}
				flags.apply(cmd, form)
				return saveGoal(ctx, a, form)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func saveGoal(ctx context.Context, a *app, form *forms.GoalForm) error {
	saved, err := form.Submit(ctx, a.client.Goals(), forms.Hooks[model.Goal]{Bus: a.bus})
	if err != nil {
		return formFailed(err)
	}
	fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Saved goal %q (ID: %d) at %s", saved.Name, saved.ID, a.format.Percent(saved.Progress()))))
	return nil
}
