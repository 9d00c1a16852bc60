package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/worktime/internal/client"
	"github.com/balkashynov/worktime/internal/models"
	"github.com/balkashynov/worktime/internal/timer"
)

// field is a focusable part of the dashboard
type field int

const (
	fieldName field = iota
	fieldWorkType
	fieldProject
	fieldGoal
	fieldNotes
	fieldSessions
	fieldCount
)

// Prefill seeds the session form, e.g. from a parsed `start` title
type Prefill struct {
	Name        string
	Project     string // project name, matched case-insensitively once projects load
	WorkType    string
	GoalSeconds int
	Notes       string
}

// sessionForm is the form next to the timer. It is shared by pointer so the
// timer's reset callback can clear it
type sessionForm struct {
	name  textinput.Model
	notes textinput.Model

	workType int // index into models.WorkTypes, -1 for none
	goals    []int
	goal     int // index into goals
	projects []client.Project
	project  int // index into projects, -1 for none

	wantProject string
	errs        timer.FieldErrors
}

func newTextInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	in.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return in
}

func newSessionForm(p Prefill) *sessionForm {
	f := &sessionForm{
		name:     newTextInput("What are you working on? (required)", 200),
		notes:    newTextInput("Notes (optional)", 500),
		workType: -1,
		goals:    append([]int(nil), timer.GoalOptions...),
		project:  -1,
		errs:     timer.FieldErrors{},
	}

	f.name.SetValue(p.Name)
	f.notes.SetValue(p.Notes)
	f.wantProject = p.Project
	for i, wt := range models.WorkTypes {
		if wt == models.NormalizeWorkType(p.WorkType) {
			f.workType = i
		}
	}
	if p.GoalSeconds > 0 {
		f.goal = f.goalIndex(p.GoalSeconds)
	}
	return f
}

// goalIndex finds seconds among the goal options, adding it when it is a
// custom goal
func (f *sessionForm) goalIndex(seconds int) int {
	for i, g := range f.goals {
		if g == seconds {
			return i
		}
	}
	f.goals = append(f.goals, seconds)
	return len(f.goals) - 1
}

// value is the form as the timer sees it
func (f *sessionForm) value() timer.Form {
	form := timer.Form{
		Name:        f.name.Value(),
		Notes:       f.notes.Value(),
		GoalSeconds: f.goalSeconds(),
	}
	if f.workType >= 0 {
		form.WorkType = models.WorkTypes[f.workType]
	}
	if f.project >= 0 && f.project < len(f.projects) {
		form.ProjectID = f.projects[f.project].ID
	}
	return form
}

func (f *sessionForm) goalSeconds() int {
	return f.goals[f.goal]
}

func (f *sessionForm) projectLabel() string {
	if f.project < 0 || f.project >= len(f.projects) {
		return "None"
	}
	return f.projects[f.project].Name
}

func (f *sessionForm) workTypeLabel() string {
	if f.workType < 0 {
		return "Select..."
	}
	return models.WorkTypes[f.workType]
}

// cycle moves a selector field by delta, wrapping around. Work type and
// project include a "none" slot at -1
func (f *sessionForm) cycle(fd field, delta int) {
	switch fd {
	case fieldWorkType:
		f.workType = wrap(f.workType+delta, -1, len(models.WorkTypes)-1)
		delete(f.errs, "workType")
	case fieldProject:
		f.project = wrap(f.project+delta, -1, len(f.projects)-1)
	case fieldGoal:
		f.goal = wrap(f.goal+delta, 0, len(f.goals)-1)
	}
}

func wrap(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	span := hi - lo + 1
	return lo + ((v-lo)%span+span)%span
}

// setProjects swaps in the active projects, keeping the selection when that
// project is still there
func (f *sessionForm) setProjects(projects []client.Project) {
	selected := ""
	if f.project >= 0 && f.project < len(f.projects) {
		selected = f.projects[f.project].ID
	}

	f.projects = projects
	f.project = -1
	for i, p := range projects {
		switch {
		case selected != "" && p.ID == selected:
			f.project = i
		case selected == "" && f.wantProject != "" && strings.EqualFold(p.Name, f.wantProject):
			f.project = i
		}
	}
	f.wantProject = ""
}

// reset clears the form back to empty
func (f *sessionForm) reset() {
	f.name.SetValue("")
	f.notes.SetValue("")
	f.workType = -1
	f.goals = append([]int(nil), timer.GoalOptions...)
	f.goal = 0
	f.project = -1
	f.errs = timer.FieldErrors{}
}

// focus moves the text cursor to fd when it is a text field
func (f *sessionForm) focus(fd field) {
	f.name.Blur()
	f.notes.Blur()
	switch fd {
	case fieldName:
		f.name.Focus()
	case fieldNotes:
		f.notes.Focus()
	}
}

func (f *sessionForm) setWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width > 60 {
		width = 60
	}
	f.name.Width = width
	f.notes.Width = width
}
