package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	loginUsername = iota
	loginEmail
	loginPassword
	loginFieldCount
)

// loginForm is the login screen. In register mode it also asks for an email.
type loginForm struct {
	message    string
	inputs     [loginFieldCount]textinput.Model
	focus      int
	register   bool
	messageErr bool
	submitting bool
}

func newLoginForm() loginForm {
	var f loginForm

	f.inputs[loginUsername] = textinput.New()
	f.inputs[loginUsername].Placeholder = "username"
	f.inputs[loginUsername].Prompt = "Username: "

	f.inputs[loginEmail] = textinput.New()
	f.inputs[loginEmail].Placeholder = "you@example.com"
	f.inputs[loginEmail].Prompt = "Email:    "

	f.inputs[loginPassword] = textinput.New()
	f.inputs[loginPassword].Placeholder = "password"
	f.inputs[loginPassword].Prompt = "Password: "
	f.inputs[loginPassword].EchoMode = textinput.EchoPassword
	f.inputs[loginPassword].EchoCharacter = '•'

	f.focus = loginUsername
	f.inputs[loginUsername].Focus()
	return f
}

// fields lists the visible inputs in tab order.
func (f loginForm) fields() []int {
	if f.register {
		return []int{loginUsername, loginEmail, loginPassword}
	}
	return []int{loginUsername, loginPassword}
}

func (f loginForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *loginForm) setFocus(field int) {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = field
	f.inputs[field].Focus()
}

func (f *loginForm) move(delta int) {
	fields := f.fields()
	pos := 0
	for i, field := range fields {
		if field == f.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	f.setFocus(fields[pos])
}

func (f *loginForm) toggleMode() {
	f.register = !f.register
	f.message = ""
	f.setFocus(loginUsername)
}

func (f loginForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

var loginLabels = [loginFieldCount]string{"Username", "Email", "Password"}

// missing names the first empty visible field, or "".
func (f loginForm) missing() string {
	for _, field := range f.fields() {
		v := f.value(field)
		if field == loginPassword {
			v = f.inputs[field].Value()
		}
		if v == "" {
			return loginLabels[field]
		}
	}
	return ""
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.login.toggleMode()
		return m, nil
	case "down":
		m.login.move(1)
		return m, nil
	case "up", "shift+tab":
		m.login.move(-1)
		return m, nil
	case "enter":
		fields := m.login.fields()
		if m.login.focus != fields[len(fields)-1] {
			m.login.move(1)
			return m, nil
		}
		if name := m.login.missing(); name != "" {
			m.login.message = name + " is required"
			m.login.messageErr = true
			return m, nil
		}
		m.login.submitting = true
		m.login.message = ""
		return m, m.authenticate(
			m.login.value(loginUsername),
			m.login.value(loginEmail),
			m.login.inputs[loginPassword].Value(),
			m.login.register,
		)
	}

	if key.Matches(msg, m.keymap.Cancel) {
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	return m, cmd
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false

	if !msg.result.OK {
		m.login.message = msg.result.Message
		m.login.messageErr = true
		m.login.inputs[loginPassword].SetValue("")
		m.login.setFocus(loginPassword)
		return m, nil
	}

	if msg.register {
		username := m.login.value(loginUsername)
		m.login = newLoginForm()
		m.login.inputs[loginUsername].SetValue(username)
		m.login.setFocus(loginPassword)
		m.login.message = "Account created. Log in to continue."
		return m, m.login.focusCmd()
	}

	m.login = newLoginForm()
	return m.enterDashboard()
}
