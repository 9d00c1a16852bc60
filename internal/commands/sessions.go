package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/balkashynov/worktime/internal/client"
	"github.com/balkashynov/worktime/internal/models"
	"github.com/balkashynov/worktime/internal/tui"
)

// pageLimit is the largest page the server hands out
const pageLimit = 100

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"s"},
	Short:   "List, inspect and delete saved sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List sessions, most recent first",
	Long: `List saved sessions, most recent first.

Examples:
  worktime sessions ls
  worktime sessions ls --type deep --from 2025-03-01 --to 2025-03-07
  worktime sessions ls --limit 10 --offset 10`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		filter, err := sessionFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		page, err := a.client.ListSessions(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if len(page.Sessions) == 0 {
			fmt.Fprintln(color.Output, "No sessions found.")
			return nil
		}

		fmt.Fprintln(color.Output, sessionTable(page.Sessions, time.Now()))
		fmt.Fprintln(color.Output, faintColor.Sprintf("\n%s, %s", plural(len(page.Sessions), "session"), tui.FormatDuration(totalSeconds(page.Sessions))))
		return nil
	}),
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		id, err := resolveSessionID(cmd.Context(), a.client, args[0])
		if err != nil {
			return err
		}
		s, err := a.client.GetSession(cmd.Context(), id)
		if err != nil {
			return err
		}

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.Wrap = true
		tbl.AddRow(boldColor.Sprint("ID"), s.ID)
		tbl.AddRow(boldColor.Sprint("Name"), s.Name)
		tbl.AddRow(boldColor.Sprint("Type"), s.WorkType)
		tbl.AddRow(boldColor.Sprint("Project"), tui.ProjectName(*s))
		tbl.AddRow(boldColor.Sprint("Duration"), tui.FormatDuration(s.DurationSeconds))
		tbl.AddRow(boldColor.Sprint("Started"), s.StartTime.Local().Format("Mon Jan 2, 2006 3:04 PM"))
		tbl.AddRow(boldColor.Sprint("Ended"), s.EndTime.Local().Format("Mon Jan 2, 2006 3:04 PM"))
		tbl.AddRow(boldColor.Sprint("Notes"), orDash(s.Notes))
		fmt.Fprintln(color.Output, tbl)
		return nil
	}),
}

var sessionsRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a session permanently",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		id, err := resolveSessionID(cmd.Context(), a.client, args[0])
		if err != nil {
			return err
		}
		if err := a.client.DeleteSession(cmd.Context(), id); err != nil {
			return err
		}
		printSuccess("🗑️  Deleted session %s", shortID(id))
		return nil
	}),
}

func init() {
	f := sessionsListCmd.Flags()
	f.Int("limit", 20, "number of sessions to show (max 100)")
	f.Int("offset", 0, "number of sessions to skip")
	f.StringP("type", "t", "", "only this work type")
	f.String("from", "", "only sessions starting on or after this date (YYYY-MM-DD)")
	f.String("to", "", "only sessions starting on or before this date (YYYY-MM-DD)")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsRemoveCmd)
}

func sessionFilterFromFlags(cmd *cobra.Command) (client.SessionFilter, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	workType, _ := cmd.Flags().GetString("type")

	filter := client.SessionFilter{Limit: limit, Offset: offset}
	if workType != "" {
		filter.WorkType = models.NormalizeWorkType(workType)
	}

	if raw, _ := cmd.Flags().GetString("from"); raw != "" {
		from, err := parseDay(raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw, _ := cmd.Flags().GetString("to"); raw != "" {
		day, err := parseDay(raw)
		if err != nil {
			return filter, err
		}
		to := day.AddDate(0, 0, 1).Add(-time.Second)
		filter.To = &to
	}
	return filter, nil
}

// parseDay reads a YYYY-MM-DD date as local midnight
func parseDay(raw string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", raw)
	}
	return t, nil
}

func sessionTable(sessions []client.Session, now time.Time) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40

	tbl.AddRow(boldColor.Sprint("ID"), boldColor.Sprint("NAME"), boldColor.Sprint("TYPE"), boldColor.Sprint("PROJECT"), boldColor.Sprint("DURATION"), boldColor.Sprint("STARTED"))
	for _, s := range sessions {
		tbl.AddRow(faintColor.Sprint(shortID(s.ID)), s.Name, s.WorkType, tui.ProjectName(s), tui.FormatDuration(s.DurationSeconds), tui.FormatStart(s.StartTime, now))
	}
	return tbl
}

func totalSeconds(sessions []client.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.DurationSeconds
	}
	return total
}

// fetchSessions pages through every session matching filter
func fetchSessions(ctx context.Context, c *client.Client, filter client.SessionFilter) ([]client.Session, error) {
	filter.Limit = pageLimit
	filter.Offset = 0

	var all []client.Session
	for {
		page, err := c.ListSessions(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Sessions...)
		if len(page.Sessions) < pageLimit {
			return all, nil
		}
		filter.Offset += len(page.Sessions)
	}
}

// resolveSessionID expands a short ID prefix, as printed by ls, to a full ID
func resolveSessionID(ctx context.Context, c *client.Client, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if _, err := uuid.Parse(ref); err == nil {
		return ref, nil
	}

	sessions, err := fetchSessions(ctx, c, client.SessionFilter{})
	if err != nil {
		return "", err
	}
	return matchPrefix(ref, sessions)
}

func matchPrefix(ref string, sessions []client.Session) (string, error) {
	var found []string
	for _, s := range sessions {
		if strings.HasPrefix(s.ID, ref) {
			found = append(found, s.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("session %q not found", ref)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("session %q is ambiguous, use more of the ID", ref)
	}
}
