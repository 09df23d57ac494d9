package forms

import (
	"context"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

// CategoryForm creates or renames a category.
type CategoryForm struct {
	Name string
	Type string
	ID   int
}

// Validate checks the name and type.
func (f *CategoryForm) Validate() (api.CategoryPayload, error) {
	name, err := required("name", f.Name)
	if err != nil {
		return api.CategoryPayload{}, err
	}
	t, err := model.ParseTransactionType(f.Type)
	if err != nil {
		return api.CategoryPayload{}, fieldErr("type", ErrUnknownChoice)
	}
	return api.CategoryPayload{Name: name, CategoryType: string(t)}, nil
}

// Submit validates and saves the category.
func (f *CategoryForm) Submit(ctx context.Context, saver Saver[model.Category], hooks Hooks[model.Category]) (model.Category, error) {
	payload, err := f.Validate()
	if err != nil {
		return model.Category{}, err
	}
	return submit(ctx, saver, target{resource: refresh.Categories, noun: "category", id: f.ID}, payload, hooks)
}

// PaymentMethodForm creates or renames a payment method.
type PaymentMethodForm struct {
	Name string
	ID   int
}

// Submit validates and saves the payment method.
func (f *PaymentMethodForm) Submit(ctx context.Context, saver Saver[model.PaymentMethod], hooks Hooks[model.PaymentMethod]) (model.PaymentMethod, error) {
	name, err := required("name", f.Name)
	if err != nil {
		return model.PaymentMethod{}, err
	}
	t := target{resource: refresh.PaymentMethods, noun: "payment method", id: f.ID}
	return submit(ctx, saver, t, api.NamePayload{Name: name}, hooks)
}

// InvestmentTypeForm creates or renames an investment type.
type InvestmentTypeForm struct {
	Name string
	ID   int
}

// Submit validates and saves the investment type.
func (f *InvestmentTypeForm) Submit(ctx context.Context, saver Saver[model.InvestmentType], hooks Hooks[model.InvestmentType]) (model.InvestmentType, error) {
	name, err := required("name", f.Name)
	if err != nil {
		return model.InvestmentType{}, err
	}
	t := target{resource: refresh.InvestmentTypes, noun: "investment type", id: f.ID}
	return submit(ctx, saver, t, api.NamePayload{Name: name}, hooks)
}
