package timer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/worktime/internal/client"
)

var (
	// ErrTooShort is returned for a stop before the first tick
	ErrTooShort = errors.New("session must last at least one second")
	// ErrLoggedOut is returned when the login that stopped the timer has ended
	ErrLoggedOut = errors.New("signed out before the session was saved")
)

// SessionCreator persists sessions
type SessionCreator interface {
	CreateSession(ctx context.Context, s client.NewSession) (*client.Session, error)
}

// Epochs tells the submitter which login a result belongs to
type Epochs interface {
	Epoch() uint64
	IsCurrent(epoch uint64) bool
}

// Outcome is the result of Complete, tagged with the login epoch it was
// sent under
type Outcome struct {
	Epoch   uint64
	Session *client.Session
	Err     error
}

// Submitter turns a stopped timer into a persisted session. There is no
// idempotency key; retrying after a timeout can store the session twice
type Submitter struct {
	api   SessionCreator
	auth  Epochs
	timer *Controller
	list  *SessionList
	now   func() time.Time
}

// NewSubmitter wires a submitter. now defaults to time.Now
func NewSubmitter(api SessionCreator, auth Epochs, timer *Controller, list *SessionList, now func() time.Time) *Submitter {
	if now == nil {
		now = time.Now
	}
	return &Submitter{api: api, auth: auth, timer: timer, list: list, now: now}
}

// Complete sends the create call under the login epoch the caller captured
// when the timer stopped. Nothing is sent once that login has ended. It
// reads the clock once so that end - start equals elapsed exactly, and
// touches no UI state, so it may run off the UI goroutine
func (s *Submitter) Complete(ctx context.Context, epoch uint64, form Form, elapsed int) Outcome {
	if !s.auth.IsCurrent(epoch) {
		return Outcome{Epoch: epoch, Err: ErrLoggedOut}
	}
	if elapsed < 1 {
		return Outcome{Epoch: epoch, Err: ErrTooShort}
	}

	now := s.now()
	session, err := s.api.CreateSession(ctx, client.NewSession{
		Name:            strings.TrimSpace(form.Name),
		WorkType:        strings.TrimSpace(form.WorkType),
		StartTime:       now.Add(-time.Duration(elapsed) * time.Second),
		EndTime:         now,
		DurationSeconds: elapsed,
		ProjectID:       strings.TrimSpace(form.ProjectID),
		Notes:           strings.TrimSpace(form.Notes),
	})
	return Outcome{Epoch: epoch, Session: session, Err: err}
}

// Reconcile applies an outcome on the UI goroutine. The timer always ends
// idle. Outcomes from an older login are dropped and return "". Otherwise
// the returned message is meant for the status line
func (s *Submitter) Reconcile(o Outcome) string {
	s.timer.ForceIdle()

	if !s.auth.IsCurrent(o.Epoch) {
		return ""
	}
	if o.Err != nil {
		return FailureMessage(o.Err)
	}
	if o.Session == nil {
		return "Failed to save session: empty response"
	}

	s.list.Prepend(*o.Session)
	return fmt.Sprintf("Saved %q (%s)", o.Session.Name, FormatClock(o.Session.DurationSeconds))
}

// Submit is Complete then Reconcile, for callers without a UI loop
func (s *Submitter) Submit(ctx context.Context, form Form, elapsed int) string {
	return s.Reconcile(s.Complete(ctx, s.auth.Epoch(), form, elapsed))
}

// Saved reports whether o was applied by Reconcile
func (s *Submitter) Saved(o Outcome) bool {
	return o.Err == nil && o.Session != nil && s.auth.IsCurrent(o.Epoch)
}

// FailureMessage renders a failed save for the user
func FailureMessage(err error) string {
	var apiErr *client.Error
	switch {
	case errors.Is(err, ErrTooShort):
		return "Session not saved: it must last at least one second"
	case errors.As(err, &apiErr) && apiErr.Kind == client.KindAuth:
		return "Session not saved: please log in again"
	case errors.As(err, &apiErr) && apiErr.Kind == client.KindTransient:
		return fmt.Sprintf("Session not saved: %s", apiErr.Message)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Failed to save session: %s", apiErr.Message)
	default:
		return fmt.Sprintf("Failed to save session: %v", err)
	}
}
