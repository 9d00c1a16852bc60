package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/balkashynov/worktime/internal/client"
)

func TestGetWeekStart(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	tests := []time.Time{
		time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local),  // Monday
		time.Date(2025, 3, 13, 18, 0, 0, 0, time.Local),  // Thursday
		time.Date(2025, 3, 16, 23, 59, 0, 0, time.Local), // Sunday
	}
	for _, in := range tests {
		if got := getWeekStart(in); !got.Equal(monday) {
			t.Errorf("getWeekStart(%s) = %s, want %s", in, got, monday)
		}
	}
}

func session(name string, start time.Time, seconds int) client.Session {
	return client.Session{
		ID:              name + start.Format("0102"),
		Name:            name,
		WorkType:        "Deep Work",
		StartTime:       start,
		EndTime:         start.Add(time.Duration(seconds) * time.Second),
		DurationSeconds: seconds,
	}
}

func TestBuildTimesheet(t *testing.T) {
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	sessions := []client.Session{
		session("Write report", weekStart.Add(9*time.Hour), 5400),
		session("Write report", weekStart.Add(13*time.Hour), 1800),
		session("Write report", weekStart.AddDate(0, 0, 1).Add(9*time.Hour), 5400),
		session("Standup", weekStart.Add(10*time.Hour), 900),
		session("Weekend reading", weekStart.AddDate(0, 0, 5).Add(11*time.Hour), 3600),
	}

	ts := buildTimesheet(sessions, weekStart)

	if len(ts.rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(ts.rows))
	}
	if ts.rows[0].name != "Write report" {
		t.Errorf("expected the largest row first, got %q", ts.rows[0].name)
	}
	if got := ts.rows[0].hours[time.Monday]; got != 2.0 {
		t.Errorf("expected 2.0h on Monday, got %v", got)
	}
	if got := ts.rows[0].total; got != 3.5 {
		t.Errorf("expected 3.5h total, got %v", got)
	}

	// Mon-Fri plus Saturday, which has time on it
	want := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	if len(ts.days) != len(want) {
		t.Fatalf("expected days %v, got %v", want, ts.days)
	}
	for i := range want {
		if ts.days[i] != want[i] {
			t.Errorf("day %d: expected %s, got %s", i, want[i], ts.days[i])
		}
	}

	if ts.seconds != 17100 {
		t.Errorf("expected 17100 tracked seconds, got %d", ts.seconds)
	}
}

func TestBuildTimesheetKeepsTinySessionsVisible(t *testing.T) {
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	ts := buildTimesheet([]client.Session{session("Quick fix", weekStart.Add(time.Hour), 60)}, weekStart)

	if got := ts.rows[0].hours[time.Monday]; got != 0.1 {
		t.Errorf("expected a one minute session to show as 0.1h, got %v", got)
	}
}

func TestRenderTimesheet(t *testing.T) {
	color.NoColor = true

	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	ts := buildTimesheet([]client.Session{
		session("Write report", weekStart.Add(9*time.Hour), 7200),
		session("Standup", weekStart.AddDate(0, 0, 2).Add(10*time.Hour), 900),
	}, weekStart)

	var buf bytes.Buffer
	renderTimesheet(&buf, ts)
	out := buf.String()

	for _, want := range []string{"SESSION", "MON", "FRI", "TOTAL", "Write report", "2.0", "0.3", "Week of Mar 10 to Mar 16, 2025", "2h 15m 0s tracked"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "SAT") {
		t.Errorf("empty weekend days should be hidden:\n%s", out)
	}
}
