package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

// Goal statuses.
const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

// ParseGoalStatus parses a goal status, defaulting empty input to active.
func ParseGoalStatus(s string) (GoalStatus, error) {
	switch GoalStatus(s) {
	case "":
		return GoalActive, nil
	case GoalActive, GoalCompleted, GoalPaused:
		return GoalStatus(s), nil
	}
	return "", fmt.Errorf("invalid goal status %q: must be active, completed or paused", s)
}

var hundred = decimal.NewFromInt(100)

// Goal is a savings target.
type Goal struct {
	TargetDate    Date            `json:"target_date"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Status        GoalStatus      `json:"status"`
	ID            int             `json:"id"`
	UserID        int             `json:"user_id,omitempty"`
}

// Progress returns the completion percentage capped at 100. A goal without a
// positive target has no progress.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Mul(hundred).Div(g.TargetAmount)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// Remaining returns how much is still missing, never negative.
func (g Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
