package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/fintrack/internal/forms"
	"github.com/Veraticus/fintrack/internal/model"
)

const (
	fieldDescription = iota
	fieldAmount
	fieldDate
	fieldCategory
	fieldPaymentMethod
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Description", "Amount", "Date", "Category", "Payment method", "Notes"}

// transactionEditor binds text inputs to a forms.TransactionForm.
type transactionEditor struct {
	form   *forms.TransactionForm
	err    string
	inputs [fieldCount]textinput.Model
	focus  int
	saving bool
}

func newTransactionEditor(form *forms.TransactionForm) *transactionEditor {
	e := &transactionEditor{form: form}
	values := [fieldCount]string{form.Description, form.Amount, form.Date, form.Category, form.PaymentMethod, form.Notes}
	placeholders := [fieldCount]string{"Groceries", "0,00", model.DateLayout, "", "", "optional"}

	for i := range e.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.SetValue(values[i])
		in.Width = 40
		e.inputs[i] = in
	}
	e.setFocus(fieldDescription)
	return e
}

// fields lists the visible inputs; income has no payment method.
func (e *transactionEditor) fields() []int {
	if e.form.NeedsPaymentMethod() {
		return []int{fieldDescription, fieldAmount, fieldDate, fieldCategory, fieldPaymentMethod, fieldNotes}
	}
	return []int{fieldDescription, fieldAmount, fieldDate, fieldCategory, fieldNotes}
}

func (e *transactionEditor) setFocus(field int) {
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
	e.focus = field
	e.inputs[field].Focus()
}

func (e *transactionEditor) move(delta int) {
	fields := e.fields()
	pos := 0
	for i, f := range fields {
		if f == e.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	e.setFocus(fields[pos])
}

// sync copies the inputs into the form.
func (e *transactionEditor) sync() {
	e.form.Description = e.inputs[fieldDescription].Value()
	e.form.Amount = e.inputs[fieldAmount].Value()
	e.form.Date = e.inputs[fieldDate].Value()
	e.form.Category = e.inputs[fieldCategory].Value()
	e.form.PaymentMethod = e.inputs[fieldPaymentMethod].Value()
	e.form.Notes = e.inputs[fieldNotes].Value()
}

func (e *transactionEditor) toggleType() {
	e.sync()
	e.form.ToggleType()
	e.inputs[fieldCategory].SetValue(e.form.Category)
	e.inputs[fieldPaymentMethod].SetValue(e.form.PaymentMethod)
	if !e.form.NeedsPaymentMethod() && e.focus == fieldPaymentMethod {
		e.setFocus(fieldCategory)
	}
}

// hint lists the choices for the focused field.
func (e *transactionEditor) hint() string {
	var choices []forms.Choice
	switch e.focus {
	case fieldCategory:
		choices = e.form.CategoryChoices()
	case fieldPaymentMethod:
		choices = forms.PaymentMethodChoices(e.form.PaymentMethods)
	default:
		return ""
	}
	if len(choices) == 0 {
		return "No options available"
	}
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	return "Options: " + strings.Join(labels, ", ")
}

func (m Model) openEditor(tx *model.Transaction) (tea.Model, tea.Cmd) {
	categories := m.categories.Items()
	methods := m.methods.Items()

	var form *forms.TransactionForm
	if tx == nil {
		form = forms.NewTransactionForm(categories, methods)
		form.UserID = m.svc.Session.UserID()
	} else {
		form = forms.EditTransactionForm(*tx, categories, methods)
	}

	m.editor = newTransactionEditor(form)
	m.screen = ScreenForm
	return m, textinput.Blink
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if e == nil || e.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.editor = nil
		m.screen = ScreenDashboard
		return m, nil

	case key.Matches(msg, m.keymap.ToggleType):
		e.toggleType()
		return m, nil

	case key.Matches(msg, m.keymap.NextField):
		e.move(1)
		return m, nil

	case key.Matches(msg, m.keymap.PrevField):
		e.move(-1)
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		fields := e.fields()
		if msg.String() == "enter" && e.focus != fields[len(fields)-1] {
			e.move(1)
			return m, nil
		}
		e.sync()
		if _, err := e.form.Validate(); err != nil {
			e.err = forms.Message(err)
			return m, nil
		}
		e.err = ""
		e.saving = true
		return m, m.saveTransaction(e.form)
	}

	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return m, cmd
}

func (m Model) handleSaved(msg transactionSavedMsg) (tea.Model, tea.Cmd) {
	if m.editor == nil {
		return m, nil
	}
	if msg.err != nil {
		m.editor.saving = false
		m.editor.err = forms.Message(msg.err)
		return m, nil
	}

	verb := "created"
	if m.editor.form.ID != 0 {
		verb = "updated"
	}
	m.editor = nil
	m.screen = ScreenDashboard
	m.status = status{text: "Transaction " + verb}
	return m, nil
}
