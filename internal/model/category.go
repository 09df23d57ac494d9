package model

// Category labels transactions of one type.
type Category struct {
	Name   string          `json:"name"`
	Type   TransactionType `json:"category_type"`
	ID     int             `json:"id"`
	UserID int             `json:"user_id,omitempty"`
}

// PaymentMethod is how an expense was paid.
type PaymentMethod struct {
	Name   string `json:"name"`
	ID     int    `json:"id"`
	UserID int    `json:"user_id,omitempty"`
}

// InvestmentType groups investments (e.g. bonds, stocks).
type InvestmentType struct {
	Name   string `json:"name"`
	ID     int    `json:"id"`
	UserID int    `json:"user_id,omitempty"`
}

// CategoriesOfType returns the categories matching t, preserving order.
func CategoriesOfType(categories []Category, t TransactionType) []Category {
	var out []Category
	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
