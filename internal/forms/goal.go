package forms

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

// GoalForm is the text state of the goal editor.
type GoalForm struct {
	Name          string
	Description   string
	TargetAmount  string
	CurrentAmount string
	TargetDate    string
	Status        string

	ID     int
	UserID int
}

// EditGoalForm prefills the form from g.
func EditGoalForm(g model.Goal) *GoalForm {
	return &GoalForm{
		ID:            g.ID,
		UserID:        g.UserID,
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount.StringFixed(2),
		CurrentAmount: g.CurrentAmount.StringFixed(2),
		TargetDate:    g.TargetDate.String(),
		Status:        string(g.Status),
	}
}

// Validate checks every field and builds the request body. The current
// amount defaults to zero, the status to active, and the target date is optional.
func (f *GoalForm) Validate() (api.GoalPayload, error) {
	var p api.GoalPayload

	name, err := required("name", f.Name)
	if err != nil {
		return p, err
	}
	target, err := ParseAmount("target amount", f.TargetAmount)
	if err != nil {
		return p, err
	}
	current, err := ParseOptionalAmount("current amount", f.CurrentAmount, decimal.Zero)
	if err != nil {
		return p, err
	}
	status, err := model.ParseGoalStatus(strings.ToLower(strings.TrimSpace(f.Status)))
	if err != nil {
		return p, fieldErr("status", ErrUnknownChoice)
	}

	p = api.GoalPayload{
		Name:          name,
		Description:   f.Description,
		TargetAmount:  json.Number(target.String()),
		CurrentAmount: json.Number(current.String()),
		Status:        string(status),
		UserID:        f.UserID,
	}
	if strings.TrimSpace(f.TargetDate) != "" {
		date, err := ParseDateField("target date", f.TargetDate)
		if err != nil {
			return api.GoalPayload{}, err
		}
		s := date.String()
		p.TargetDate = &s
	}
	return p, nil
}

// Progress previews the completion percentage for the typed amounts.
func (f *GoalForm) Progress() decimal.Decimal {
	target, err := ParseAmount("target amount", f.TargetAmount)
	if err != nil {
		return decimal.Zero
	}
	current, err := ParseOptionalAmount("current amount", f.CurrentAmount, decimal.Zero)
	if err != nil {
		return decimal.Zero
	}
	return model.Goal{TargetAmount: target, CurrentAmount: current}.Progress()
}

// Submit validates and saves the goal.
func (f *GoalForm) Submit(ctx context.Context, saver Saver[model.Goal], hooks Hooks[model.Goal]) (model.Goal, error) {
	payload, err := f.Validate()
	if err != nil {
		return model.Goal{}, err
	}
	return submit(ctx, saver, target{resource: refresh.Goals, noun: "goal", id: f.ID}, payload, hooks)
}
