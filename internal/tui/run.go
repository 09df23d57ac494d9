package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/refresh"
)

// Run starts the TUI and blocks until it exits. While it runs, a 401 from
// client sends the user back to the login screen; the handler is cleared on return.
func Run(ctx context.Context, client *api.Client, svc Services, opts ...Option) error {
	if svc.Session == nil || svc.Dashboard == nil {
		return fmt.Errorf("session and dashboard are required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(New(svc, opts...), programOpts...)

	// Callbacks arrive from request goroutines or from inside Update; Send
	// blocks until the event loop is free, so it must not run inline.
	send := func(msg tea.Msg) { go p.Send(msg) }

	if client != nil {
		client.OnUnauthorized(func() { send(sessionExpiredMsg{}) })
		defer client.OnUnauthorized(nil)
	}

	stopWatch := svc.Dashboard.Watch(svc.Bus, func() { send(reloadMsg{}) })
	defer stopWatch()

	if svc.Bus != nil {
		stopGoals := svc.Bus.Subscribe(func(e refresh.Event) { send(resourceChangedMsg{event: e}) }, refresh.Goals)
		defer stopGoals()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
