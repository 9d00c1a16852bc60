package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/worktime/internal/timer"
)

// splitWidth is the narrowest terminal that gets the side by side layout
const splitWidth = 90

var logoLines = []string{
	"╦ ╦╔═╗╦═╗╦╔═╔╦╗╦╔╦╗╔═╗",
	"║║║║ ║╠╦╝╠╩╗ ║ ║║║║║╣ ",
	"╚╩╝╚═╝╩╚═╩ ╩ ╩ ╩╩ ╩╚═╝",
}

// View renders the dashboard
func (m Model) View() string {
	switch m.view {
	case viewLoading:
		return m.renderCentered(m.renderLoading())
	case viewLogin:
		return m.renderCentered(m.renderLogo() + "\n\n" + m.login.view(m.width, m.shimmer) + "\n\n" + m.renderHelpBar())
	}

	helpBar := m.renderHelpBar()
	statusLine := m.renderStatus()
	contentHeight := m.height - 3

	if m.width < splitWidth {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderTimerPanel(m.width),
			m.renderSessionsPanel(m.width, max(contentHeight/2, 6)),
			statusLine,
			helpBar,
		)
	}

	leftWidth := m.leftWidth()
	rightWidth := m.width - leftWidth - 2

	left := lipgloss.NewStyle().Height(contentHeight).Render(m.renderTimerPanel(leftWidth))
	right := m.renderSessionsPanel(rightWidth, contentHeight)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
		statusLine,
		helpBar,
	)
}

func (m Model) leftWidth() int {
	if m.width < splitWidth {
		return m.width
	}
	return m.width / 2
}

func (m Model) renderCentered(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderLogo() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Render(strings.Join(logoLines, "\n"))
}

func (m Model) renderLoading() string {
	dots := strings.Repeat(".", m.frame/3%4)
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render("Checking your session" + dots)
	return m.renderLogo() + "\n\n" + label
}

// renderTimerPanel renders the header, the big clock, the goal bar and the
// form
func (m Model) renderTimerPanel(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var parts []string

	header := "○  READY  ○"
	if m.ctrl.Running() {
		glyphs := []string{"⏱", "⏲", "⏱", "⏲"}
		g := glyphs[m.frame/3%len(glyphs)]
		header = fmt.Sprintf("%s  TRACKING TIME  %s", g, g)
	} else if m.saving {
		header = "…  SAVING  …"
	}
	parts = append(parts, center.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render(header))

	clockColor := ColorAccentBright
	if !m.ctrl.Running() {
		clockColor = ColorSecondaryText
	}
	clock := renderBigClock(m.ctrl.Elapsed(), clockColor)
	parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Center, clock))

	parts = append(parts, center.Render(m.renderGoal()))
	parts = append(parts, m.renderForm(width))

	return strings.Join(parts, "\n\n")
}

func (m Model) renderGoal() string {
	goal := m.ctrl.Goal()
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	if goal <= 0 {
		return muted.Render("No goal set")
	}

	pct := m.ctrl.Progress()
	label := fmt.Sprintf("%s / %s  %3.0f%%", timer.FormatClock(m.ctrl.Elapsed()), timer.FormatClock(goal), pct*100)
	if pct >= 1 {
		label = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true).Render("Goal reached! " + label)
	} else {
		label = muted.Render(label)
	}
	return m.progress.ViewAs(pct) + "\n" + label
}

func (m Model) renderForm(width int) string {
	locked := m.ctrl.Running() || m.saving

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Width(12)
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	if locked {
		valueStyle = valueStyle.Foreground(lipgloss.Color(ColorDisabledText))
	}

	row := func(fd field, label, value, errKey string) string {
		l := labelStyle.Render(label)
		if fd == m.focus && !locked {
			l = focusStyle.Render("▶ " + label)
		}
		line := l + " " + value
		if msg, ok := m.form.errs[errKey]; ok && errKey != "" {
			line += "\n" + strings.Repeat(" ", 13) + errStyle.Render(msg)
		}
		return line
	}
	selector := func(fd field, label string) string {
		if fd == m.focus && !locked {
			return valueStyle.Render("◀ " + label + " ▶")
		}
		return valueStyle.Render(label)
	}

	name := m.form.name.View()
	notes := m.form.notes.View()
	if locked {
		name = valueStyle.Render(m.form.name.Value())
		notes = valueStyle.Render(m.form.notes.Value())
	}

	rows := []string{
		row(fieldName, "Session", name, "name"),
		row(fieldWorkType, "Work type", selector(fieldWorkType, m.form.workTypeLabel()), "workType"),
		row(fieldProject, "Project", selector(fieldProject, m.form.projectLabel()), ""),
		row(fieldGoal, "Goal", selector(fieldGoal, timer.GoalLabel(m.form.goalSeconds())), "goal"),
		row(fieldNotes, "Notes", notes, ""),
	}

	return lipgloss.NewStyle().
		Width(width-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

// renderSessionsPanel renders the session history, newest first
func (m Model) renderSessionsPanel(width, height int) string {
	border := ColorBorder
	if m.focus == fieldSessions {
		border = ColorAccentMain
	}

	items := m.sessions.Items()
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Session History (%d)", len(items))))
	b.WriteString("  ")
	b.WriteString(muted.Render("total " + FormatDuration(m.sessions.TotalSeconds())))
	b.WriteString("\n\n")

	if len(items) == 0 {
		b.WriteString(muted.Italic(true).Render("No sessions yet. Start the timer to record one."))
	}

	cols := newSessionColumns(width - 6)
	rowsAvailable := max(height-6, 1)
	start := 0
	if m.cursor >= rowsAvailable {
		start = m.cursor - rowsAvailable + 1
	}

	if len(items) > 0 {
		b.WriteString(muted.Bold(true).Render("  " + cols.row("Name", "Type", "Project", "Duration", "Started")))
		b.WriteString("\n")
	}

	now := m.opts.Now()
	for i := start; i < len(items) && i < start+rowsAvailable; i++ {
		s := items[i]
		line := cols.row(s.Name, s.WorkType, ProjectName(s), FormatDuration(s.DurationSeconds), FormatStart(s.StartTime, now))

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		if m.focus == fieldSessions && i == m.cursor {
			style = style.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
			line = "▶ " + line
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width-2).
		Height(max(height-2, 3)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	color := ColorSecondaryText
	switch m.statusKind {
	case statusSuccess:
		color = ColorSuccess
	case statusError:
		color = ColorError
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Width(m.width).Render(m.status)
}

// renderHelpBar renders the key help at the bottom
func (m Model) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	var helpText string
	switch {
	case m.view == viewLoading:
		helpText = "ctrl+c quit"
	case m.view == viewLogin:
		helpText = "tab next field · enter submit · ctrl+t switch login/register · ctrl+c quit"
	case m.focus == fieldSessions:
		helpText = "↑/↓ select · d delete · tab back to form · ctrl+l refresh · ctrl+c quit"
	case m.ctrl.Running():
		helpText = "enter stop & save · ctrl+r reset (discard) · ctrl+o logout · ctrl+c quit"
	default:
		helpText = "enter start · tab/↑/↓ move · ←/→ change option · ctrl+r reset · ctrl+o logout · ctrl+c quit"
	}
	return helpStyle.Render(helpText)
}

// sessionColumns lays out the history table for a given inner width. The
// project and start columns are dropped on narrow panels
type sessionColumns struct {
	width       int
	name        int
	showProject bool
	showStarted bool
}

func newSessionColumns(inner int) sessionColumns {
	c := sessionColumns{
		width:       inner - 2, // row marker
		showProject: inner >= 72,
		showStarted: inner >= 58,
	}
	used := 24 // type and duration with their gaps
	if c.showProject {
		used += 14
	}
	if c.showStarted {
		used += 13
	}
	c.name = max(c.width-used, 10)
	return c
}

func (c sessionColumns) row(name, workType, project, duration, started string) string {
	line := fmt.Sprintf("%-*s  %-10s", c.name, truncate(name, c.name), truncate(workType, 10))
	if c.showProject {
		line += fmt.Sprintf("  %-12s", truncate(project, 12))
	}
	line += fmt.Sprintf("  %-10s", duration)
	if c.showStarted {
		line += "  " + started
	}
	return truncate(line, c.width)
}
