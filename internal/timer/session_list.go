package timer

import "github.com/balkashynov/worktime/internal/client"

// SessionList is the local, most recent first list of the user's sessions
type SessionList struct {
	items []client.Session
}

// Prepend adds a just saved session at the top
func (l *SessionList) Prepend(s client.Session) {
	l.items = append([]client.Session{s}, l.items...)
}

// Replace swaps in a freshly fetched list, already ordered by the server
func (l *SessionList) Replace(items []client.Session) {
	l.items = append([]client.Session(nil), items...)
}

// Remove drops the session with the given id
func (l *SessionList) Remove(id string) bool {
	for i, s := range l.items {
		if s.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the list
func (l *SessionList) Items() []client.Session {
	return append([]client.Session(nil), l.items...)
}

func (l *SessionList) Len() int {
	return len(l.items)
}

func (l *SessionList) Clear() {
	l.items = nil
}

// TotalSeconds sums the durations of every listed session
func (l *SessionList) TotalSeconds() int {
	total := 0
	for _, s := range l.items {
		total += s.DurationSeconds
	}
	return total
}
