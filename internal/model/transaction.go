package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TransactionIncome is money received.
	TransactionIncome TransactionType = "income"
	// TransactionExpense is money spent.
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// ParseTransactionType parses "income" or "expense".
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid transaction type %q: must be 'income' or 'expense'", s)
	}
	return t, nil
}

// Transaction errors.
var (
	ErrPaymentMethodRequired  = errors.New("payment method is required for expense transactions")
	ErrPaymentMethodForbidden = errors.New("income transactions cannot have a payment method")
	ErrNegativeAmount         = errors.New("amount must not be negative")
)

// Transaction is a single income or expense record owned by a user.
type Transaction struct {
	Date              Date            `json:"date"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentMethodID   *int            `json:"payment_method_id"`
	Description       string          `json:"description"`
	Type              TransactionType `json:"transaction_type"`
	Notes             string          `json:"notes"`
	CategoryName      string          `json:"category_name,omitempty"`
	PaymentMethodName string          `json:"payment_method_name,omitempty"`
	ID                int             `json:"id"`
	CategoryID        int             `json:"category_id"`
	UserID            int             `json:"user_id,omitempty"`
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == TransactionExpense
}

// SignedAmount returns the amount negated for expenses. Use it for display only.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the type, amount and payment method invariants.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	switch {
	case t.IsExpense() && t.PaymentMethodID == nil:
		return ErrPaymentMethodRequired
	case !t.IsExpense() && t.PaymentMethodID != nil:
		return ErrPaymentMethodForbidden
	}
	return nil
}
