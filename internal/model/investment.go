package model

import "github.com/shopspring/decimal"

// Investment is an asset bought at InitialAmount and now worth CurrentAmount.
type Investment struct {
	PurchaseDate     Date            `json:"purchase_date"`
	InitialAmount    decimal.Decimal `json:"initial_amount"`
	CurrentAmount    decimal.Decimal `json:"current_amount"`
	Name             string          `json:"name"`
	Notes            string          `json:"notes"`
	ID               int             `json:"id"`
	InvestmentTypeID int             `json:"investment_type_id"`
	UserID           int             `json:"user_id,omitempty"`
}

// ProfitLoss returns current minus initial amount.
func (i Investment) ProfitLoss() decimal.Decimal {
	return i.CurrentAmount.Sub(i.InitialAmount)
}

// ProfitLossPercentage returns the gain relative to the initial amount, 0 when nothing was invested.
func (i Investment) ProfitLossPercentage() decimal.Decimal {
	if !i.InitialAmount.IsPositive() {
		return decimal.Zero
	}
	return i.ProfitLoss().Mul(decimal.NewFromInt(100)).Div(i.InitialAmount)
}
