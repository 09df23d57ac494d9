package forms

import (
	"context"
	"encoding/json"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

// InvestmentForm is the text state of the investment editor.
type InvestmentForm struct {
	Name           string
	InvestmentType string
	InitialAmount  string
	CurrentAmount  string
	PurchaseDate   string
	Notes          string

	Types []model.InvestmentType

	ID     int
	UserID int
}

// NewInvestmentForm starts an investment purchased today.
func NewInvestmentForm(types []model.InvestmentType) *InvestmentForm {
	return &InvestmentForm{PurchaseDate: model.Today().String(), Types: types}
}

// EditInvestmentForm prefills the form from inv.
func EditInvestmentForm(inv model.Investment, types []model.InvestmentType) *InvestmentForm {
	return &InvestmentForm{
		ID:             inv.ID,
		UserID:         inv.UserID,
		Name:           inv.Name,
		InvestmentType: labelFor(inv.InvestmentTypeID, InvestmentTypeChoices(types)),
		InitialAmount:  inv.InitialAmount.StringFixed(2),
		CurrentAmount:  inv.CurrentAmount.StringFixed(2),
		PurchaseDate:   inv.PurchaseDate.String(),
		Notes:          inv.Notes,
		Types:          types,
	}
}

// Validate checks every field and builds the request body. A blank current
// amount defaults to the initial amount.
func (f *InvestmentForm) Validate() (api.InvestmentPayload, error) {
	var p api.InvestmentPayload

	name, err := required("name", f.Name)
	if err != nil {
		return p, err
	}
	typeID, err := Resolve("investment type", f.InvestmentType, InvestmentTypeChoices(f.Types))
	if err != nil {
		return p, err
	}
	initial, err := ParseAmount("initial amount", f.InitialAmount)
	if err != nil {
		return p, err
	}
	current, err := ParseOptionalAmount("current amount", f.CurrentAmount, initial)
	if err != nil {
		return p, err
	}
	date, err := ParseDateField("purchase date", f.PurchaseDate)
	if err != nil {
		return p, err
	}

	return api.InvestmentPayload{
		Name:             name,
		InvestmentTypeID: typeID,
		InitialAmount:    json.Number(initial.String()),
		CurrentAmount:    json.Number(current.String()),
		PurchaseDate:     date.String(),
		Notes:            f.Notes,
		UserID:           f.UserID,
	}, nil
}

// Submit validates and saves the investment.
func (f *InvestmentForm) Submit(ctx context.Context, saver Saver[model.Investment], hooks Hooks[model.Investment]) (model.Investment, error) {
	payload, err := f.Validate()
	if err != nil {
		return model.Investment{}, err
	}
	return submit(ctx, saver, target{resource: refresh.Investments, noun: "investment", id: f.ID}, payload, hooks)
}
