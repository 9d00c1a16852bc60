package commands

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/balkashynov/worktime/internal/client"
	"github.com/balkashynov/worktime/internal/models"
	"github.com/balkashynov/worktime/internal/tui"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a weekly timesheet",
	Long: `Show hours tracked per session name and day for one calendar week.

Weekdays are always shown once anything was tracked; weekend days only
when they have time on them.

Example output:
  SESSION          MON  TUE  WED  THU  FRI  TOTAL
  Write report     2.0  1.5    -    -    -    3.5
  Standup          0.3  0.3  0.3    -    -    0.9
  Total            2.3  1.8  0.3    0    0    4.4`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		day := time.Now()
		if raw, _ := cmd.Flags().GetString("week-of"); raw != "" {
			parsed, err := parseDay(raw)
			if err != nil {
				return err
			}
			day = parsed
		}
		if back, _ := cmd.Flags().GetInt("last"); back > 0 {
			day = day.AddDate(0, 0, -7*back)
		}

		weekStart := getWeekStart(day)
		weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Second)

		filter := client.SessionFilter{From: &weekStart, To: &weekEnd}
		if workType, _ := cmd.Flags().GetString("type"); workType != "" {
			filter.WorkType = models.NormalizeWorkType(workType)
		}

		sessions, err := fetchSessions(cmd.Context(), a.client, filter)
		if err != nil {
			return fmt.Errorf("failed to get sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintf(color.Output, "No time tracked in the week of %s.\n", weekStart.Format("Jan 2"))
			return nil
		}

		renderTimesheet(color.Output, buildTimesheet(sessions, weekStart))
		return nil
	}),
}

func init() {
	reportCmd.Flags().String("week-of", "", "any day in the week to report (YYYY-MM-DD)")
	reportCmd.Flags().Int("last", 0, "weeks to go back, e.g. 1 for last week")
	reportCmd.Flags().StringP("type", "t", "", "only this work type")
}

var (
	weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	dayNames = map[time.Weekday]string{
		time.Monday:    "MON",
		time.Tuesday:   "TUE",
		time.Wednesday: "WED",
		time.Thursday:  "THU",
		time.Friday:    "FRI",
		time.Saturday:  "SAT",
		time.Sunday:    "SUN",
	}
)

// timesheet is one week of hours grouped by session name and day
type timesheet struct {
	weekStart time.Time
	days      []time.Weekday
	rows      []timesheetRow
	dayTotals map[time.Weekday]float64
	total     float64
	seconds   int
}

type timesheetRow struct {
	name  string
	hours map[time.Weekday]float64
	total float64
}

// buildTimesheet groups sessions by name and local start day. Cells are
// rounded to a tenth of an hour and totals are sums of the rounded cells
func buildTimesheet(sessions []client.Session, weekStart time.Time) timesheet {
	byName := make(map[string]map[time.Weekday]float64)
	ts := timesheet{weekStart: weekStart, dayTotals: make(map[time.Weekday]float64)}

	for _, s := range sessions {
		weekday := s.StartTime.In(weekStart.Location()).Weekday()
		if byName[s.Name] == nil {
			byName[s.Name] = make(map[time.Weekday]float64)
		}
		byName[s.Name][weekday] += float64(s.DurationSeconds) / 3600.0
		ts.seconds += s.DurationSeconds
	}

	active := make(map[time.Weekday]bool)
	for name, dayHours := range byName {
		row := timesheetRow{name: name, hours: make(map[time.Weekday]float64)}
		for day, hours := range dayHours {
			rounded := math.Round(hours*10) / 10
			if rounded == 0 && hours > 0 {
				rounded = 0.1
			}
			row.hours[day] = rounded
			row.total += rounded
			ts.dayTotals[day] += rounded
			active[day] = true
		}
		ts.total += row.total
		ts.rows = append(ts.rows, row)
	}

	sort.Slice(ts.rows, func(i, j int) bool {
		if ts.rows[i].total != ts.rows[j].total {
			return ts.rows[i].total > ts.rows[j].total
		}
		return ts.rows[i].name < ts.rows[j].name
	})

	for i, day := range weekdays {
		if active[day] || (i < 5 && len(active) > 0) {
			ts.days = append(ts.days, day)
		}
	}
	return ts
}

func renderTimesheet(w io.Writer, ts timesheet) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40

	header := []interface{}{boldColor.Sprint("SESSION")}
	for _, day := range ts.days {
		header = append(header, boldColor.Sprint(dayNames[day]))
	}
	header = append(header, boldColor.Sprint("TOTAL"))
	tbl.AddRow(header...)

	for _, row := range ts.rows {
		cells := []interface{}{row.name}
		for _, day := range ts.days {
			if hours, ok := row.hours[day]; ok {
				cells = append(cells, formatHours(hours))
			} else {
				cells = append(cells, "-")
			}
		}
		cells = append(cells, formatHours(row.total))
		tbl.AddRow(cells...)
	}

	footer := []interface{}{boldColor.Sprint("Total")}
	for _, day := range ts.days {
		if total := ts.dayTotals[day]; total > 0 {
			footer = append(footer, formatHours(total))
		} else {
			footer = append(footer, "0")
		}
	}
	footer = append(footer, boldColor.Sprint(formatHours(ts.total)))
	tbl.AddRow(footer...)

	for col := 1; col <= len(ts.days)+1; col++ {
		tbl.RightAlign(col)
	}

	fmt.Fprintln(w, tbl)
	fmt.Fprintf(w, "\nWeek of %s to %s, %s tracked\n",
		ts.weekStart.Format("Jan 2"),
		ts.weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"),
		tui.FormatDuration(ts.seconds))
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1f", h)
}

// getWeekStart returns local midnight on the Monday of t's week
func getWeekStart(t time.Time) time.Time {
	weekday := t.Weekday()
	daysFromMonday := int(weekday - time.Monday)
	if weekday == time.Sunday {
		daysFromMonday = 6
	}

	weekStart := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
}
