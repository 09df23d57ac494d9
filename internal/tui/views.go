package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/dashboard"
	"github.com/Veraticus/fintrack/internal/model"
)

const maxBars = 6

func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("fintrack"),
		"",
		m.theme.StatusPending.Render("Restoring session..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderLogin() string {
	title := "Log in"
	toggle := "Tab: create an account"
	if m.login.register {
		title = "Create account"
		toggle = "Tab: back to login"
	}

	lines := []string{m.theme.Title.Render(title), ""}
	for _, field := range m.login.fields() {
		lines = append(lines, m.login.inputs[field].View())
	}
	lines = append(lines, "")

	switch {
	case m.login.submitting:
		lines = append(lines, m.theme.StatusPending.Render("Please wait..."))
	case m.login.message != "" && m.login.messageErr:
		lines = append(lines, m.theme.StatusError.Render(m.login.message))
	case m.login.message != "":
		lines = append(lines, m.theme.StatusSuccess.Render(m.login.message))
	}
	lines = append(lines, m.theme.Subtitle.Render(toggle+" · Enter: submit · Esc: quit"))

	box := m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderDashboard() string {
	snap := m.svc.Dashboard.Snapshot()

	header := m.theme.Title.Render("◀ " + snap.Period.Label() + " ▶")
	if user, ok := m.svc.Session.User(); ok {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", m.theme.Subtitle.Render(user.Username))
	}
	if snap.Loading {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", m.theme.StatusPending.Render("loading..."))
	}

	sections := []string{
		header,
		m.renderCards(snap),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderBars("Expenses by category", snap.Report.ByCategory),
			"    ",
			m.renderBars("By payment method", snap.Report.ByPaymentMethod),
		),
		m.renderTabs(),
		m.table.View(),
		m.renderStatus(),
	}

	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keymap.FullHelp()))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keymap.ShortHelp()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderCards(snap dashboard.Snapshot) string {
	cards := snap.Cards(m.format)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		valueStyle := m.theme.Bold
		switch c.Tone {
		case dashboard.TonePositive:
			valueStyle = valueStyle.Foreground(m.theme.Success)
		case dashboard.ToneNegative:
			valueStyle = valueStyle.Foreground(m.theme.Error)
		}
		rendered[i] = m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Subtitle.Render(c.Title),
			valueStyle.Render(c.Value),
			m.theme.StatusPending.Render(c.Subtitle),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderBars(title string, groups []aggregate.Group) string {
	lines := []string{m.theme.Bold.Render(title)}
	if len(groups) == 0 {
		lines = append(lines, m.theme.StatusPending.Render("No data for this month"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, g := range groups {
		if i == maxBars {
			lines = append(lines, m.theme.StatusPending.Render(fmt.Sprintf("+%d more", len(groups)-maxBars)))
			break
		}
		ratio := g.Percentage.Div(decimal.NewFromInt(100)).InexactFloat64()
		lines = append(lines, fmt.Sprintf("%-16s %s %7s %s",
			truncate(g.Name, 16),
			m.bars.ViewAs(ratio),
			m.format.Percent(g.Percentage),
			m.theme.Subtitle.Render(m.format.Currency(g.Total)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		label := " " + t.String() + " "
		if t == m.tab {
			tabs = append(tabs, m.theme.Selected.Render(label))
		} else {
			tabs = append(tabs, m.theme.Subtitle.Render(label))
		}
	}
	return "\n" + strings.Join(tabs, " ")
}

func (m Model) renderStatus() string {
	if m.status.text == "" {
		return ""
	}
	if m.status.err {
		return m.theme.StatusError.Render(m.status.text)
	}
	return m.theme.StatusInfo.Render(m.status.text)
}

func (m Model) renderForm() string {
	e := m.editor
	if e == nil {
		return ""
	}

	title := "New transaction"
	if e.form.ID != 0 {
		title = "Edit transaction"
	}
	kind := m.theme.StatusError.Render("Expense")
	if !e.form.NeedsPaymentMethod() {
		kind = m.theme.StatusSuccess.Render("Income")
	}

	lines := []string{m.theme.Title.Render(title), "Type: " + kind + m.theme.Subtitle.Render("  (Ctrl+T to switch)"), ""}
	for _, field := range e.fields() {
		label := fmt.Sprintf("%-15s", fieldLabels[field])
		if field == e.focus {
			label = m.theme.Bold.Render(label)
		} else {
			label = m.theme.Subtitle.Render(label)
		}
		lines = append(lines, label+" "+e.inputs[field].View())
	}

	lines = append(lines, "")
	if h := e.hint(); h != "" {
		lines = append(lines, m.theme.StatusPending.Render(h))
	}
	switch {
	case e.saving:
		lines = append(lines, m.theme.StatusPending.Render("Saving..."))
	case e.err != "":
		lines = append(lines, m.theme.StatusError.Render(e.err))
	}
	lines = append(lines, m.theme.Subtitle.Render("Enter: next/submit · Ctrl+S: submit · Esc: cancel"))

	return m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// rebuildTable refills the table from the active tab's data.
func (m *Model) rebuildTable() {
	var (
		columns []table.Column
		rows    []table.Row
		ids     []int
	)
	f := m.format

	switch m.tab {
	case TabGoals:
		columns = []table.Column{
			{Title: "Goal", Width: 20},
			{Title: "Saved", Width: 14},
			{Title: "Target", Width: 14},
			{Title: "Progress", Width: 9},
			{Title: "Remaining", Width: 14},
			{Title: "Due", Width: 10},
			{Title: "Status", Width: 10},
		}
		for _, g := range m.goals.Items() {
			rows = append(rows, table.Row{
				g.Name,
				f.Currency(g.CurrentAmount),
				f.Currency(g.TargetAmount),
				f.Percent(g.Progress()),
				f.Currency(g.Remaining()),
				f.Date(g.TargetDate),
				string(g.Status),
			})
			ids = append(ids, g.ID)
		}

	case TabInvestments:
		columns = []table.Column{
			{Title: "Investment", Width: 22},
			{Title: "Invested", Width: 14},
			{Title: "Current", Width: 14},
			{Title: "Profit/Loss", Width: 14},
			{Title: "Return", Width: 8},
			{Title: "Since", Width: 10},
		}
		for _, inv := range m.svc.Dashboard.Snapshot().Investments {
			rows = append(rows, table.Row{
				inv.Name,
				f.Currency(inv.InitialAmount),
				f.Currency(inv.CurrentAmount),
				f.Currency(inv.ProfitLoss()),
				f.Percent(inv.ProfitLossPercentage()),
				f.Date(inv.PurchaseDate),
			})
			ids = append(ids, inv.ID)
		}

	default:
		columns = []table.Column{
			{Title: "Date", Width: 10},
			{Title: "Description", Width: 26},
			{Title: "Category", Width: 16},
			{Title: "Payment", Width: 16},
			{Title: "Amount", Width: 14},
		}
		for _, tx := range m.svc.Dashboard.Snapshot().Transactions {
			rows = append(rows, table.Row{
				f.Date(tx.Date),
				tx.Description,
				labelOr(tx.CategoryName, aggregate.UncategorizedLabel),
				paymentLabel(tx),
				f.Signed(tx),
			})
			ids = append(ids, tx.ID)
		}
	}

	// Rows must be cleared before the column count changes.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c < 0 || c >= len(rows) {
		m.table.SetCursor(max(min(c, len(rows)-1), 0))
	}
	m.rowIDs = ids
}

func paymentLabel(tx model.Transaction) string {
	if !tx.IsExpense() {
		return "-"
	}
	return labelOr(tx.PaymentMethodName, aggregate.NoPaymentMethodLabel)
}

func labelOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
