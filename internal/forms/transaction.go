package forms

import (
	"context"
	"encoding/json"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
)

// TransactionForm is the text state of the transaction editor.
type TransactionForm struct {
	Description   string
	Amount        string
	Date          string
	Notes         string
	Category      string
	PaymentMethod string
	Type          model.TransactionType

	Categories     []model.Category
	PaymentMethods []model.PaymentMethod

	ID     int
	UserID int
}

// NewTransactionForm starts an expense dated today.
func NewTransactionForm(categories []model.Category, methods []model.PaymentMethod) *TransactionForm {
	return &TransactionForm{
		Type:           model.TransactionExpense,
		Date:           model.Today().String(),
		Categories:     categories,
		PaymentMethods: methods,
	}
}

// EditTransactionForm prefills the form from tx.
func EditTransactionForm(tx model.Transaction, categories []model.Category, methods []model.PaymentMethod) *TransactionForm {
	f := &TransactionForm{
		ID:             tx.ID,
		UserID:         tx.UserID,
		Description:    tx.Description,
		Amount:         tx.Amount.StringFixed(2),
		Date:           tx.Date.String(),
		Notes:          tx.Notes,
		Type:           tx.Type,
		Categories:     categories,
		PaymentMethods: methods,
	}
	f.Category = labelFor(tx.CategoryID, CategoryChoices(categories))
	if tx.PaymentMethodID != nil {
		f.PaymentMethod = labelFor(*tx.PaymentMethodID, PaymentMethodChoices(methods))
	}
	return f
}

// SetType switches between income and expense. Switching to income drops the
// chosen payment method, and a category of the other type is cleared.
func (f *TransactionForm) SetType(t model.TransactionType) {
	f.Type = t
	if t != model.TransactionExpense {
		f.PaymentMethod = ""
	}
	if f.Category == "" {
		return
	}
	if _, err := Resolve("category", f.Category, f.CategoryChoices()); err != nil {
		f.Category = ""
	}
}

// ToggleType flips between income and expense.
func (f *TransactionForm) ToggleType() {
	if f.Type == model.TransactionExpense {
		f.SetType(model.TransactionIncome)
		return
	}
	f.SetType(model.TransactionExpense)
}

// CategoryChoices returns the categories matching the current type.
func (f *TransactionForm) CategoryChoices() []Choice {
	return CategoryChoices(model.CategoriesOfType(f.Categories, f.Type))
}

// NeedsPaymentMethod reports whether the payment method field applies.
func (f *TransactionForm) NeedsPaymentMethod() bool {
	return f.Type == model.TransactionExpense
}

// Validate checks every field and builds the request body.
func (f *TransactionForm) Validate() (api.TransactionPayload, error) {
	var p api.TransactionPayload

	if !f.Type.Valid() {
		return p, fieldErr("type", ErrUnknownChoice)
	}
	desc, err := required("description", f.Description)
	if err != nil {
		return p, err
	}
	amount, err := ParseAmount("amount", f.Amount)
	if err != nil {
		return p, err
	}
	date, err := ParseDateField("date", f.Date)
	if err != nil {
		return p, err
	}
	categoryID, err := Resolve("category", f.Category, f.CategoryChoices())
	if err != nil {
		return p, err
	}

	p = api.TransactionPayload{
		Description:     desc,
		Amount:          json.Number(amount.String()),
		TransactionType: string(f.Type),
		Date:            date.String(),
		Notes:           f.Notes,
		CategoryID:      categoryID,
		UserID:          f.UserID,
	}

	if f.NeedsPaymentMethod() {
		methodID, err := Resolve("payment method", f.PaymentMethod, PaymentMethodChoices(f.PaymentMethods))
		if err != nil {
			return api.TransactionPayload{}, err
		}
		p.PaymentMethodID = &methodID
	}
	return p, nil
}

// Submit validates and saves the transaction.
func (f *TransactionForm) Submit(ctx context.Context, saver Saver[model.Transaction], hooks Hooks[model.Transaction]) (model.Transaction, error) {
	payload, err := f.Validate()
	if err != nil {
		return model.Transaction{}, err
	}
	return submit(ctx, saver, target{resource: refresh.Transactions, noun: "transaction", id: f.ID}, payload, hooks)
}
