package tui

import (
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/refresh"
	"github.com/Veraticus/fintrack/internal/session"
)

// Session messages.
type sessionResolvedMsg struct {
	authenticated bool
}

type authResultMsg struct {
	result   session.Result
	register bool
}

type loggedOutMsg struct{}

// sessionExpiredMsg is sent when the server rejects the bearer token.
type sessionExpiredMsg struct{}

// Data loading messages.
type dashboardLoadedMsg struct {
	err error
}

type listsLoadedMsg struct {
	err error
}

// reloadMsg asks for the dashboard to be fetched again.
type reloadMsg struct{}

// resourceChangedMsg forwards a refresh bus event into the program.
type resourceChangedMsg struct {
	event refresh.Event
}

// Mutation messages.
type deletedMsg struct {
	err  error
	noun string
}

type transactionSavedMsg struct {
	err error
	tx  model.Transaction
}
