package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/worktime/internal/authsession"
)

// LiveAuth is an Auth that also reports state changes, such as a sign out
// forced by a rejected token
type LiveAuth interface {
	Auth
	Subscribe(fn func(authsession.Change)) func()
}

// Run starts the dashboard and blocks until it exits. Auth state changes are
// forwarded into the program so a rejected token returns to the login view
func Run(auth LiveAuth, api API, opts Options) (Model, error) {
	model := NewModel(auth, api, opts)

	p := tea.NewProgram(model, tea.WithAltScreen())

	// Changes can come from inside Update (logout), so never block the loop
	unsubscribe := auth.Subscribe(func(change authsession.Change) {
		go p.Send(authStateMsg{state: change.State, epoch: change.Epoch})
	})
	defer unsubscribe()

	finalModel, err := p.Run()
	if err != nil {
		return model, err
	}

	if m, ok := finalModel.(Model); ok {
		return m, nil
	}
	return model, nil
}
