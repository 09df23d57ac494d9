package api

import "encoding/json"

// TransactionPayload is the create/update body for a transaction.
// PaymentMethodID is only sent for expenses.
type TransactionPayload struct {
	PaymentMethodID *int        `json:"payment_method_id,omitempty"`
	Description     string      `json:"description"`
	Amount          json.Number `json:"amount"`
	TransactionType string      `json:"transaction_type"`
	Date            string      `json:"date"`
	Notes           string      `json:"notes"`
	CategoryID      int         `json:"category_id"`
	UserID          int         `json:"user_id,omitempty"`
}

// InvestmentPayload is the create/update body for an investment.
type InvestmentPayload struct {
	Name             string      `json:"name"`
	InitialAmount    json.Number `json:"initial_amount"`
	CurrentAmount    json.Number `json:"current_amount"`
	PurchaseDate     string      `json:"purchase_date"`
	Notes            string      `json:"notes"`
	InvestmentTypeID int         `json:"investment_type_id"`
	UserID           int         `json:"user_id,omitempty"`
}

// GoalPayload is the create/update body for a goal.
type GoalPayload struct {
	TargetDate    *string     `json:"target_date"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	TargetAmount  json.Number `json:"target_amount"`
	CurrentAmount json.Number `json:"current_amount"`
	Status        string      `json:"status"`
	UserID        int         `json:"user_id,omitempty"`
}

// CategoryPayload is the create/update body for a category.
type CategoryPayload struct {
	Name         string `json:"name"`
	CategoryType string `json:"category_type"`
}

// NamePayload is the create/update body for payment methods and investment types.
type NamePayload struct {
	Name string `json:"name"`
}
