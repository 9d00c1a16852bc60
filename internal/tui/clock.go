package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// clockGlyphs are 5 row block digits for the big clock
var clockGlyphs = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// clockText is MM:SS under an hour and HH:MM:SS after
func clockText(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours, minutes, secs := seconds/3600, (seconds%3600)/60, seconds%60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// renderBigClock renders elapsed seconds as block digits in color
func renderBigClock(seconds int, color string) string {
	var rows [5]strings.Builder
	for _, ch := range clockText(seconds) {
		glyph, ok := clockGlyphs[ch]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = style.Render(rows[i].String())
	}
	return strings.Join(lines, "\n")
}
