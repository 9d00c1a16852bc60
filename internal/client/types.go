package client

import "time"

// User is the signed in account. It is also what the credential store
// caches on disk, hence the JSON tags
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	Message string
	Token   string
	User    User
}

// ProjectRef is the project summary embedded in a session
type ProjectRef struct {
	ID    string
	Name  string
	Color string
}

// Session is a persisted work session
type Session struct {
	ID              string
	Name            string
	WorkType        string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	ProjectID       *string
	Project         *ProjectRef
	Notes           *string
	CreatedAt       time.Time
}

// NewSession is a completed session to persist
type NewSession struct {
	Name            string
	WorkType        string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	ProjectID       string // empty for none
	Notes           string // empty for none
}

// SessionFilter pages and filters ListSessions. Zero values mean server defaults
type SessionFilter struct {
	Limit    int
	Offset   int
	WorkType string
	From     *time.Time
	To       *time.Time
}

// SessionPage is one page of sessions, most recent first
type SessionPage struct {
	Sessions []Session
	Count    int
	Limit    int
	Offset   int
}

// Project groups sessions
type Project struct {
	ID          string
	Name        string
	Description *string
	Color       string
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProject is a project to create. Empty Color uses the server default
type NewProject struct {
	Name        string
	Description string
	Color       string
}

// ProjectUpdate is a partial update; nil fields are left alone
type ProjectUpdate struct {
	Name        *string
	Description *string
	Color       *string
	IsArchived  *bool
}
