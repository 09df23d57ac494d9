package forms

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/fintrack/internal/model"
)

// Choice is one selectable option for a relational field.
type Choice struct {
	Label string
	ID    int
}

// ParseAmount parses a non-negative amount typed by the user. Both "," and
// "." are accepted as the decimal separator; when both appear, the last one
// is the decimal separator and the other groups thousands.
func ParseAmount(field, text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, fieldErr(field, ErrRequired)
	}

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fieldErr(field, ErrInvalidNumber)
	}
	if d.IsNegative() {
		return decimal.Zero, fieldErr(field, ErrNegative)
	}
	return d, nil
}

// ParseOptionalAmount is ParseAmount with blank input meaning def.
func ParseOptionalAmount(field, text string, def decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(text) == "" {
		return def, nil
	}
	return ParseAmount(field, text)
}

// Resolve maps text to the id of a choice. Text may be the id itself or a
// label, matched case-insensitively.
func Resolve(field, text string, choices []Choice) (int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fieldErr(field, ErrRequired)
	}
	if id, err := strconv.Atoi(s); err == nil {
		for _, c := range choices {
			if c.ID == id {
				return id, nil
			}
		}
	}
	for _, c := range choices {
		if strings.EqualFold(c.Label, s) {
			return c.ID, nil
		}
	}
	return 0, fieldErr(field, ErrUnknownChoice)
}

// ParseDateField parses a required YYYY-MM-DD date.
func ParseDateField(field, text string) (model.Date, error) {
	if strings.TrimSpace(text) == "" {
		return model.Date{}, fieldErr(field, ErrRequired)
	}
	d, err := model.ParseDate(text)
	if err != nil {
		return model.Date{}, fieldErr(field, ErrInvalidDate)
	}
	return d, nil
}

func required(field, text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", fieldErr(field, ErrRequired)
	}
	return s, nil
}

// CategoryChoices lists categories as choices.
func CategoryChoices(categories []model.Category) []Choice {
	out := make([]Choice, len(categories))
	for i, c := range categories {
		out[i] = Choice{ID: c.ID, Label: c.Name}
	}
	return out
}

// PaymentMethodChoices lists payment methods as choices.
func PaymentMethodChoices(methods []model.PaymentMethod) []Choice {
	out := make([]Choice, len(methods))
	for i, m := range methods {
		out[i] = Choice{ID: m.ID, Label: m.Name}
	}
	return out
}

// InvestmentTypeChoices lists investment types as choices.
func InvestmentTypeChoices(types []model.InvestmentType) []Choice {
	out := make([]Choice, len(types))
	for i, t := range types {
		out[i] = Choice{ID: t.ID, Label: t.Name}
	}
	return out
}

func labelFor(id int, choices []Choice) string {
	for _, c := range choices {
		if c.ID == id {
			return c.Label
		}
	}
	if id == 0 {
		return ""
	}
	return strconv.Itoa(id)
}
