package model

import "github.com/shopspring/decimal"

// User is the authenticated account.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	ID       int    `json:"id"`
}

// Summary is the server-side aggregate for a period.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}
