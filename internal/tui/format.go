package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/balkashynov/worktime/internal/client"
)

// FormatDuration renders seconds like "1h 5m 3s", "5m 3s" or "3s"
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatStart renders a session start as weekday and clock time, plus a
// relative hint for anything older than a day
func FormatStart(start, now time.Time) string {
	local := start.Local()
	label := local.Format("Mon 3:04 PM")
	if now.Sub(start) > 24*time.Hour {
		label += " (" + humanize.RelTime(start, now, "ago", "from now") + ")"
	}
	return label
}

// ProjectName is the display name of a session's project
func ProjectName(s client.Session) string {
	if s.Project == nil {
		return "-"
	}
	return s.Project.Name
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 3 || len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
