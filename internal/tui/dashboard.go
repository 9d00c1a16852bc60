package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/worktime/internal/authsession"
	"github.com/balkashynov/worktime/internal/client"
	"github.com/balkashynov/worktime/internal/timer"
)

const (
	frameInterval   = 100 * time.Millisecond
	defaultPageSize = 50
)

// Auth is the part of the auth session manager the dashboard drives
type Auth interface {
	Resolve(ctx context.Context) authsession.State
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, name string) error
	Logout()
	User() *client.User
	Epoch() uint64
	IsCurrent(epoch uint64) bool
}

// API is the part of the REST client the dashboard calls
type API interface {
	timer.SessionCreator
	ListSessions(ctx context.Context, f client.SessionFilter) (*client.SessionPage, error)
	DeleteSession(ctx context.Context, id string) error
	ListProjects(ctx context.Context, includeArchived bool) ([]client.Project, error)
}

// Options tune the dashboard
type Options struct {
	Prefill    Prefill
	Register   bool // open the login view in register mode
	LoginOnly  bool // quit as soon as a login succeeds
	Animations bool
	Now        func() time.Time
	PageSize   int
}

type view int

const (
	viewLoading view = iota
	viewLogin
	viewTimer
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

type (
	resolvedMsg   struct{ state authsession.State }
	authResultMsg struct{ err error }
	tickMsg       struct{ gen uint64 }
	frameMsg      struct{}
	outcomeMsg    struct{ outcome timer.Outcome }
)

// authStateMsg carries a change pushed by the credential manager
type authStateMsg struct {
	state authsession.State
	epoch uint64
}

type sessionsMsg struct {
	epoch    uint64
	sessions []client.Session
	err      error
}

type projectsMsg struct {
	epoch    uint64
	projects []client.Project
	err      error
}

type deletedMsg struct {
	epoch uint64
	id    string
	err   error
}

// Model is the worktime dashboard: a loading view while the stored token is
// checked, a login view, and the timer view with the session form and the
// session history
type Model struct {
	auth Auth
	api  API
	opts Options

	view   view
	width  int
	height int
	frame  int

	ctrl      *timer.Controller
	submitter *timer.Submitter
	sessions  *timer.SessionList
	form      *sessionForm
	login     loginModel
	progress  progress.Model
	shimmer   *shimmer

	focus         field
	cursor        int
	saving        bool
	quitAfterSave bool
	status        string
	statusKind    statusKind
	signedIn      bool
}

// NewModel wires a dashboard over auth and api
func NewModel(auth Auth, api API, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}

	form := newSessionForm(opts.Prefill)
	sessions := &timer.SessionList{}
	ctrl := timer.NewController(nil, form.reset)
	ctrl.SetGoal(form.goalSeconds())

	return Model{
		auth:      auth,
		api:       api,
		opts:      opts,
		view:      viewLoading,
		width:     100,
		height:    30,
		ctrl:      ctrl,
		submitter: timer.NewSubmitter(api, auth, ctrl, sessions, opts.Now),
		sessions:  sessions,
		form:      form,
		login:     newLoginModel(opts.Register),
		progress:  progress.New(progress.WithGradient(ColorAccentMain, ColorAccentBright), progress.WithoutPercentage()),
		shimmer:   newShimmer(opts.Animations),
	}
}

// SignedIn reports whether a login-only run ended signed in
func (m Model) SignedIn() bool { return m.signedIn }

// Status is the last status line, e.g. the result of a save on exit
func (m Model) Status() string { return m.status }

// Init checks the stored token and starts the animation frames
func (m Model) Init() tea.Cmd {
	auth := m.auth
	return tea.Batch(
		func() tea.Msg { return resolvedMsg{state: auth.Resolve(context.Background())} },
		frameCmd(),
	)
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func tickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.setWidth(m.leftWidth() - 8)
		m.progress.Width = max(m.leftWidth()-12, 10)
		return m, nil

	case frameMsg:
		m.frame++
		m.shimmer.advance(len([]rune(m.login.title())))
		return m, frameCmd()

	case resolvedMsg:
		return m.enter(msg.state)

	case authStateMsg:
		// Sends are not ordered, so a change that has been overtaken is dropped
		if msg.epoch != m.auth.Epoch() {
			return m, nil
		}
		switch {
		case msg.state == authsession.Unauthenticated && m.view == viewTimer:
			return m.signOut("Your session has ended. Please log in again.")
		case msg.state == authsession.Authenticated && m.view == viewLogin && !m.login.busy:
			return m.enter(authsession.Authenticated)
		}
		return m, nil

	case authResultMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.message = msg.err.Error()
			return m, nil
		}
		return m.enter(authsession.Authenticated)

	case tickMsg:
		if m.ctrl.Tick(msg.gen) {
			return m, tickCmd(msg.gen)
		}
		return m, nil

	case outcomeMsg:
		return m.reconcile(msg.outcome)

	case sessionsMsg:
		if !m.auth.IsCurrent(msg.epoch) {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus(statusError, "Failed to load sessions: "+msg.err.Error())
			return m, nil
		}
		m.sessions.Replace(msg.sessions)
		m.clampCursor()
		return m, nil

	case projectsMsg:
		if !m.auth.IsCurrent(msg.epoch) {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus(statusError, "Failed to load projects: "+msg.err.Error())
			return m, nil
		}
		m.form.setProjects(msg.projects)
		return m, nil

	case deletedMsg:
		if !m.auth.IsCurrent(msg.epoch) {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus(statusError, "Failed to delete session: "+msg.err.Error())
			return m, nil
		}
		m.sessions.Remove(msg.id)
		m.clampCursor()
		m.setStatus(statusSuccess, "Session deleted")
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.view {
		case viewLogin:
			var cmd tea.Cmd
			m.login, cmd = m.login.update(msg, m.auth)
			return m, cmd
		case viewTimer:
			return m.updateTimer(msg)
		}
	}

	return m, nil
}

// quit exits, first saving a running session. A second ctrl+c while the
// save is in flight exits at once
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.view != viewTimer || m.quitAfterSave || (!m.ctrl.Running() && !m.saving) {
		return m, tea.Quit
	}
	m.quitAfterSave = true
	if m.saving {
		return m, nil
	}
	return m.toggleTimer()
}

// enter switches to the view that matches an auth state
func (m Model) enter(state authsession.State) (tea.Model, tea.Cmd) {
	if state != authsession.Authenticated {
		m.view = viewLogin
		return m, nil
	}

	if m.opts.LoginOnly {
		m.signedIn = true
		return m, tea.Quit
	}

	m.view = viewTimer
	m.focus = fieldName
	m.form.focus(fieldName)
	if user := m.auth.User(); user != nil {
		m.setStatus(statusInfo, fmt.Sprintf("Signed in as %s", user.Name))
	}
	return m, tea.Batch(m.loadSessions(), m.loadProjects())
}

// signOut drops everything that belonged to the ended login
func (m Model) signOut(reason string) (tea.Model, tea.Cmd) {
	m.ctrl.ForceIdle()
	m.saving = false
	m.sessions.Clear()
	m.form.setProjects(nil)
	m.cursor = 0

	m.view = viewLogin
	m.login = newLoginModel(false)
	m.login.message = reason
	m.status = ""
	return m, nil
}

func (m Model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m.moveFocus(1), nil
	case "shift+tab":
		return m.moveFocus(-1), nil
	case "enter":
		if m.focus == fieldSessions {
			return m, nil
		}
		return m.toggleTimer()
	case "ctrl+r":
		m.ctrl.Reset()
		m.focus = fieldName
		m.form.focus(fieldName)
		m.setStatus(statusInfo, "Timer reset")
		return m, nil
	case "ctrl+o":
		m.auth.Logout()
		return m.signOut("Logged out")
	case "ctrl+l":
		m.setStatus(statusInfo, "Refreshing...")
		return m, tea.Batch(m.loadSessions(), m.loadProjects())
	}

	if m.focus == fieldSessions {
		return m.updateTable(msg)
	}

	switch msg.String() {
	case "up":
		return m.moveFocus(-1), nil
	case "down":
		return m.moveFocus(1), nil
	}

	if m.ctrl.Running() {
		return m, nil
	}

	switch m.focus {
	case fieldWorkType, fieldProject, fieldGoal:
		switch msg.String() {
		case "left":
			m.form.cycle(m.focus, -1)
		case "right", " ":
			m.form.cycle(m.focus, 1)
		}
		m.ctrl.SetGoal(m.form.goalSeconds())
		return m, nil
	case fieldName:
		var cmd tea.Cmd
		m.form.name, cmd = m.form.name.Update(msg)
		delete(m.form.errs, "name")
		return m, cmd
	case fieldNotes:
		var cmd tea.Cmd
		m.form.notes, cmd = m.form.notes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.sessions.Items()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "d", "delete":
		if len(items) == 0 {
			return m, nil
		}
		target := items[m.cursor]
		m.setStatus(statusInfo, fmt.Sprintf("Deleting %q...", target.Name))
		return m, m.deleteSession(target.ID)
	}
	return m, nil
}

func (m Model) moveFocus(delta int) Model {
	m.focus = field(wrap(int(m.focus)+delta, 0, int(fieldCount)-1))
	m.form.focus(m.focus)
	return m
}

// toggleTimer starts the timer after validating the form, or stops it and
// sends the session
func (m Model) toggleTimer() (tea.Model, tea.Cmd) {
	if m.ctrl.Running() {
		form := m.form.value()
		elapsed := m.ctrl.Stop()
		m.saving = true
		m.setStatus(statusInfo, "Saving session...")

		submitter, epoch := m.submitter, m.auth.Epoch()
		return m, func() tea.Msg {
			return outcomeMsg{outcome: submitter.Complete(context.Background(), epoch, form, elapsed)}
		}
	}

	if m.saving {
		m.setStatus(statusInfo, "Still saving the last session")
		return m, nil
	}

	form := m.form.value()
	gen, errs := m.ctrl.Start(func() timer.FieldErrors { return timer.Validate(form) })
	if len(errs) > 0 {
		m.form.errs = errs
		m.setStatus(statusError, "Fix the highlighted fields to start")
		return m, nil
	}

	m.form.errs = timer.FieldErrors{}
	m.ctrl.SetGoal(form.GoalSeconds)
	m.setStatus(statusInfo, "Timer started")
	return m, tickCmd(gen)
}

// reconcile applies a finished save. A successful save clears the form for
// the next session
func (m Model) reconcile(o timer.Outcome) (tea.Model, tea.Cmd) {
	m.saving = false
	text := m.submitter.Reconcile(o)
	if m.quitAfterSave {
		m.setStatus(statusInfo, text)
		return m, tea.Quit
	}
	if text == "" {
		return m, nil
	}

	if m.submitter.Saved(o) {
		m.ctrl.Reset()
		m.cursor = 0
		m.focus = fieldName
		m.form.focus(fieldName)
		m.setStatus(statusSuccess, text)
		return m, nil
	}
	m.setStatus(statusError, text)
	return m, nil
}

func (m Model) loadSessions() tea.Cmd {
	api, limit, epoch := m.api, m.opts.PageSize, m.auth.Epoch()
	return func() tea.Msg {
		page, err := api.ListSessions(context.Background(), client.SessionFilter{Limit: limit})
		if err != nil {
			return sessionsMsg{epoch: epoch, err: err}
		}
		return sessionsMsg{epoch: epoch, sessions: page.Sessions}
	}
}

func (m Model) loadProjects() tea.Cmd {
	api, epoch := m.api, m.auth.Epoch()
	return func() tea.Msg {
		projects, err := api.ListProjects(context.Background(), false)
		return projectsMsg{epoch: epoch, projects: projects, err: err}
	}
}

func (m Model) deleteSession(id string) tea.Cmd {
	api, epoch := m.api, m.auth.Epoch()
	return func() tea.Msg {
		return deletedMsg{epoch: epoch, id: id, err: api.DeleteSession(context.Background(), id)}
	}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) clampCursor() {
	if n := m.sessions.Len(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}
