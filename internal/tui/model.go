// Package tui is the interactive terminal client: login, the monthly
// dashboard with goals and investments, and the transaction editor.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/fintrack/internal/aggregate"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
	"github.com/Veraticus/fintrack/internal/refresh"
	"github.com/Veraticus/fintrack/internal/resource"
	"github.com/Veraticus/fintrack/internal/tui/themes"
)

// Screen is the top-level view being shown.
type Screen int

// Screens.
const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenDashboard
	ScreenForm
)

// Tab selects the dashboard's lower table.
type Tab int

// Tabs, in cycling order.
const (
	TabTransactions Tab = iota
	TabGoals
	TabInvestments
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabGoals:
		return "Goals"
	case TabInvestments:
		return "Investments"
	default:
		return "Transactions"
	}
}

type status struct {
	text string
	err  bool
}

// Model holds the main TUI state.
type Model struct {
	svc        Services
	theme      themes.Theme
	format     aggregate.Formatter
	goals      *resource.List[model.Goal]
	categories *resource.List[model.Category]
	methods    *resource.List[model.PaymentMethod]
	editor     *transactionEditor
	status     status
	keymap     KeyMap
	help       help.Model
	bars       progress.Model
	login      loginForm
	table      table.Model
	rowIDs     []int
	width      int
	height     int
	pendingID  int
	screen     Screen
	tab        Tab
	confirming bool
	showHelp   bool
	quitting   bool
}

// New creates the TUI model.
func New(svc Services, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	bars := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bars.Width = 30

	m := Model{
		svc:        svc,
		theme:      cfg.Theme,
		format:     cfg.Formatter,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		bars:       bars,
		login:      newLoginForm(),
		goals:      resource.NewList(refresh.Goals, svc.Bus, func(g model.Goal) int { return g.ID }),
		categories: resource.NewList(refresh.Categories, svc.Bus, func(c model.Category) int { return c.ID }),
		methods:    resource.NewList(refresh.PaymentMethods, svc.Bus, func(p model.PaymentMethod) int { return p.ID }),
		table:      table.New(table.WithFocused(true)),
		width:      cfg.Width,
		height:     cfg.Height,
		screen:     ScreenLoading,
	}
	m.resize()
	m.rebuildTable()
	return m
}

// Screen reports the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Tab reports the active dashboard tab.
func (m Model) Tab() Tab {
	return m.tab
}

// Init resolves the stored session.
func (m Model) Init() tea.Cmd {
	return m.resolveSession()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.screen {
		case ScreenLogin:
			return m.updateLogin(msg)
		case ScreenDashboard:
			return m.updateDashboard(msg)
		case ScreenForm:
			return m.updateForm(msg)
		}
		return m, nil

	case sessionResolvedMsg:
		if !msg.authenticated {
			m.screen = ScreenLogin
			return m, m.login.focusCmd()
		}
		return m.enterDashboard()

	case authResultMsg:
		return m.handleAuthResult(msg)

	case loggedOutMsg:
		m.wipe()
		m.screen = ScreenLogin
		m.login = newLoginForm()
		m.status = status{text: "Logged out"}
		return m, m.login.focusCmd()

	case sessionExpiredMsg:
		m.wipe()
		m.screen = ScreenLogin
		m.login = newLoginForm()
		m.login.message = "Your session expired. Please log in again."
		m.login.messageErr = true
		return m, m.login.focusCmd()

	case reloadMsg:
		if m.screen == ScreenLoading || m.screen == ScreenLogin {
			return m, nil
		}
		return m, m.loadDashboard()

	case resourceChangedMsg:
		if msg.event.Resource == refresh.Goals && m.screen != ScreenLogin {
			return m, m.loadLists()
		}
		return m, nil

	case dashboardLoadedMsg:
		if msg.err != nil {
			m.status = status{text: "Could not refresh the dashboard", err: true}
		}
		m.rebuildTable()
		return m, nil

	case listsLoadedMsg:
		if msg.err != nil {
			m.status = status{text: "Could not load goals and categories", err: true}
		}
		m.rebuildTable()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.status = status{text: "Could not delete " + msg.noun, err: true}
		} else {
			m.status = status{text: capitalize(msg.noun) + " deleted"}
		}
		m.rebuildTable()
		return m, nil

	case transactionSavedMsg:
		return m.handleSaved(msg)
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case ScreenLogin:
		return m.renderLogin()
	case ScreenDashboard:
		return m.renderDashboard()
	case ScreenForm:
		return m.renderForm()
	default:
		return m.renderLoading()
	}
}

func (m Model) enterDashboard() (tea.Model, tea.Cmd) {
	m.screen = ScreenDashboard
	m.status = status{}
	m.rebuildTable()
	return m, tea.Batch(m.loadDashboard(), m.loadLists())
}

// wipe drops every loaded list so nothing from the previous user survives.
func (m *Model) wipe() {
	m.svc.Dashboard.Reset()
	m.goals.Reset()
	m.categories.Reset()
	m.methods.Reset()
	m.editor = nil
	m.confirming = false
	m.pendingID = 0
	m.tab = TabTransactions
	m.rebuildTable()
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		id := m.pendingID
		m.pendingID = 0
		if key.Matches(msg, m.keymap.Confirm) {
			m.status = status{text: "Deleting..."}
			return m, m.deleteSelected(id)
		}
		m.status = status{text: "Delete cancelled"}
		return m, nil
	}

	selector := m.svc.Dashboard.Selector()

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.PrevPeriod):
		selector.Navigate(period.Prev)
		return m, nil

	case key.Matches(msg, m.keymap.NextPeriod):
		selector.Navigate(period.Next)
		return m, nil

	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % tabCount
		m.rebuildTable()
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		m.status = status{text: "Refreshing..."}
		return m, tea.Batch(m.loadDashboard(), m.loadLists())

	case key.Matches(msg, m.keymap.Logout):
		return m, m.logout()

	case key.Matches(msg, m.keymap.New):
		return m.openEditor(nil)

	case key.Matches(msg, m.keymap.Edit):
		if m.tab != TabTransactions {
			return m, nil
		}
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		for _, tx := range m.svc.Dashboard.Snapshot().Transactions {
			if tx.ID == id {
				return m.openEditor(&tx)
			}
		}
		return m, nil

	case key.Matches(msg, m.keymap.Delete):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		m.confirming = true
		m.pendingID = id
		m.status = status{text: "Delete this " + m.tabNoun() + "? Press y to confirm"}
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) tabNoun() string {
	switch m.tab {
	case TabGoals:
		return "goal"
	case TabInvestments:
		return "investment"
	default:
		return "transaction"
	}
}

func (m Model) selectedID() (int, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rowIDs) {
		return 0, false
	}
	return m.rowIDs[i], true
}

func (m *Model) resize() {
	m.table.SetWidth(max(m.width-4, 40))
	m.table.SetHeight(max(m.height-24, 5))
	m.bars.Width = max(m.width/2-30, 10)
	m.help.Width = m.width
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
