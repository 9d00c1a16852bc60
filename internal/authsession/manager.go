package authsession

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/balkashynov/worktime/internal/client"
)

// State is where the client is in the login lifecycle
type State int

const (
	Loading State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// API is the subset of the REST client the manager needs
type API interface {
	Me(ctx context.Context) (*client.User, error)
	Login(ctx context.Context, email, password string) (*client.AuthResult, error)
	Register(ctx context.Context, email, password, name string) (*client.AuthResult, error)
}

// Storage persists the token and profile between runs
type Storage interface {
	Load() (string, *client.User, error)
	Save(token string, user client.User) error
	SaveUser(user client.User) error
	Clear() error
}

// Manager owns the credential and the login state. It is safe for use from
// several goroutines. Every login or logout bumps the epoch, so results and
// 401s that belong to an older login can be recognised and dropped
type Manager struct {
	api   API
	store Storage
	log   *logrus.Logger

	mu     sync.Mutex
	state  State
	token  string
	user   *client.User
	epoch  uint64
	subs   map[int]func(Change)
	nextID int
}

func NewManager(api API, store Storage, log *logrus.Logger) *Manager {
	return &Manager{
		api:   api,
		store: store,
		log:   log,
		state: Loading,
		subs:  map[int]func(Change){},
	}
}

// Resolve validates a stored token against the server. With no token, or
// when validation fails for any reason, the manager ends Unauthenticated
// with storage cleared
func (m *Manager) Resolve(ctx context.Context) State {
	token, user, err := m.store.Load()
	if err != nil {
		m.log.WithError(err).Warn("discarding unreadable credentials")
	}
	if err != nil || token == "" {
		m.mu.Lock()
		epoch := m.epoch
		m.mu.Unlock()
		m.forceLogout(epoch, "no stored credentials")
		return m.State()
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	epoch := m.epoch
	m.mu.Unlock()

	me, err := m.api.Me(ctx)
	if err != nil {
		m.log.WithError(err).Info("stored token rejected")
		m.forceLogout(epoch, "token validation failed")
		return m.State()
	}

	m.mu.Lock()
	if m.epoch != epoch {
		// A login or logout happened meanwhile and wins
		state := m.state
		m.mu.Unlock()
		return state
	}
	m.user = me
	m.state = Authenticated
	m.mu.Unlock()

	if err := m.store.SaveUser(*me); err != nil {
		m.log.WithError(err).Warn("failed to refresh cached profile")
	}
	m.notify(Change{State: Authenticated, Epoch: epoch})
	return Authenticated
}

// Login authenticates with email and password. On failure the stored
// credentials and the state are left untouched
func (m *Manager) Login(ctx context.Context, email, password string) error {
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return m.establish(res)
}

// Register creates an account and signs in with it
func (m *Manager) Register(ctx context.Context, email, password, name string) error {
	res, err := m.api.Register(ctx, email, password, name)
	if err != nil {
		return err
	}
	return m.establish(res)
}

func (m *Manager) establish(res *client.AuthResult) error {
	if err := m.store.Save(res.Token, res.User); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	user := res.User
	m.mu.Lock()
	m.epoch++
	m.token = res.Token
	m.user = &user
	m.state = Authenticated
	epoch := m.epoch
	m.mu.Unlock()

	m.notify(Change{State: Authenticated, Epoch: epoch})
	return nil
}

// Logout clears the credential unconditionally
func (m *Manager) Logout() {
	m.mu.Lock()
	m.clearLocked()
	epoch := m.epoch
	m.mu.Unlock()
	m.notify(Change{State: Unauthenticated, Epoch: epoch})
}

// Unauthorized handles a 401 for a request sent under epoch. A 401 from an
// older login is ignored
func (m *Manager) Unauthorized(epoch uint64) {
	m.forceLogout(epoch, "server rejected token")
}

func (m *Manager) forceLogout(epoch uint64, reason string) {
	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		m.log.WithField("epoch", epoch).Debug("ignoring stale unauthorized signal")
		return
	}
	if m.state == Unauthenticated && m.token == "" {
		m.mu.Unlock()
		return
	}
	m.clearLocked()
	current := m.epoch
	m.mu.Unlock()

	m.log.WithField("reason", reason).Info("signed out")
	m.notify(Change{State: Unauthenticated, Epoch: current})
}

// clearLocked drops the credential everywhere. Caller holds mu
func (m *Manager) clearLocked() {
	if err := m.store.Clear(); err != nil {
		m.log.WithError(err).Warn("failed to clear stored credentials")
	}
	m.epoch++
	m.token = ""
	m.user = nil
	m.state = Unauthenticated
}

// Credential returns the current token and the epoch it belongs to
func (m *Manager) Credential() (string, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.epoch
}

// Epoch returns the current login epoch
func (m *Manager) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// IsCurrent reports whether epoch still identifies the active login
func (m *Manager) IsCurrent(epoch uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return epoch == m.epoch && m.state == Authenticated
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns a copy of the signed in profile, or nil
func (m *Manager) User() *client.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Change is one state transition and the epoch it produced. Receivers that
// may see changes out of order drop those whose epoch is no longer current
type Change struct {
	State State
	Epoch uint64
}

// Subscribe registers fn for state changes and returns a cancel func.
// fn runs on the goroutine that caused the change
func (m *Manager) Subscribe(fn func(Change)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(change Change) {
	m.mu.Lock()
	subs := make([]func(Change), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}
