package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/balkashynov/worktime/internal/client"
	"github.com/balkashynov/worktime/internal/models"
	"github.com/balkashynov/worktime/internal/parser"
	"github.com/balkashynov/worktime/internal/timer"
	"github.com/balkashynov/worktime/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [title...]",
	Short: "Open the focus timer, optionally prefilled",
	Long: `Open the timer dashboard. The title accepts inline metadata:

  @project      Select a project by name
  +type         Work type: deep, light, meeting, study or coding
  goal:25m      Goal duration (25m, 1h30m, 45)

Flags override inline metadata. With --no-ui the timer runs in the terminal
until Ctrl+C, then the session is saved.

Examples:
  worktime start
  worktime start "Write report @thesis +deep goal:45m"
  worktime start "Standup" --type meeting --no-ui`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		prefill, err := buildPrefill(cmd, args)
		if err != nil {
			return err
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI {
			return runHeadless(cmd.Context(), a, prefill)
		}

		model, err := tui.Run(a.auth, a.client, tui.Options{
			Prefill:    prefill,
			Animations: true,
			Now:        time.Now,
		})
		if err != nil {
			return fmt.Errorf("failed to run timer: %w", err)
		}
		if status := model.Status(); status != "" {
			fmt.Fprintln(color.Output, status)
		}
		return nil
	}),
}

func init() {
	addStartFlags(startCmd)
}

func addStartFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("project", "p", "", "project name")
	f.StringP("type", "t", "", "work type (deep, light, meeting, study, coding)")
	f.StringP("goal", "g", "", "goal duration, e.g. 25m or 1h30m")
	f.StringP("note", "n", "", "session notes")
	f.Bool("no-ui", false, "run the timer without the interactive UI")
}

// buildPrefill parses the inline title and applies flag overrides
func buildPrefill(cmd *cobra.Command, args []string) (tui.Prefill, error) {
	parsed := parser.ParseSessionTitle(strings.Join(args, " "))
	if len(parsed.Errors) > 0 {
		return tui.Prefill{}, fmt.Errorf("%s", strings.Join(parsed.Errors, "; "))
	}

	p := tui.Prefill{
		Name:        parsed.Name,
		Project:     parsed.Project,
		WorkType:    parsed.WorkType,
		GoalSeconds: parsed.GoalSeconds,
	}

	if v, _ := cmd.Flags().GetString("project"); v != "" {
		p.Project = v
	}
	if v, _ := cmd.Flags().GetString("type"); v != "" {
		p.WorkType = models.NormalizeWorkType(v)
	}
	if v, _ := cmd.Flags().GetString("goal"); v != "" {
		goal, err := parser.ParseGoal(v)
		if err != nil {
			return tui.Prefill{}, fmt.Errorf("invalid goal %q: %w", v, err)
		}
		p.GoalSeconds = goal
	}
	if v, _ := cmd.Flags().GetString("note"); v != "" {
		p.Notes = v
	}
	return p, nil
}

// runHeadless drives the same controller and submitter as the dashboard
// from a one second ticker
func runHeadless(ctx context.Context, a *app, p tui.Prefill) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := a.requireLogin(ctx); err != nil {
		return err
	}

	form := timer.Form{
		Name:        p.Name,
		WorkType:    p.WorkType,
		Notes:       p.Notes,
		GoalSeconds: p.GoalSeconds,
	}
	if p.Project != "" {
		project, err := findProject(ctx, a.client, p.Project, false)
		if err != nil {
			return err
		}
		form.ProjectID = project.ID
	}

	ctrl := timer.NewController(nil, nil)
	list := &timer.SessionList{}
	submitter := timer.NewSubmitter(a.client, a.auth, ctrl, list, nil)

	gen, errs := ctrl.Start(func() timer.FieldErrors { return timer.Validate(form) })
	if len(errs) > 0 {
		return fieldErrors(errs)
	}
	ctrl.SetGoal(form.GoalSeconds)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(color.Output, "⏱️  Tracking %s (%s). Press Ctrl+C to stop and save.\n", boldColor.Sprint(form.Name), form.WorkType)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for running := true; running; {
		select {
		case <-ticker.C:
			ctrl.Tick(gen)
			fmt.Fprintf(color.Output, "\r⏱️  %s%s", ctrl.Clock(), goalSuffix(ctrl))
		case <-sigCtx.Done():
			running = false
		}
	}
	fmt.Fprintln(color.Output)

	elapsed := ctrl.Stop()
	message := submitter.Submit(context.Background(), form, elapsed)
	if list.Len() == 0 {
		return fmt.Errorf("%s", message)
	}
	printSuccess("✅ %s", message)
	return nil
}

func goalSuffix(ctrl *timer.Controller) string {
	if ctrl.Goal() <= 0 {
		return ""
	}
	if ctrl.Elapsed() >= ctrl.Goal() {
		return "  🎯 goal reached"
	}
	return fmt.Sprintf("  %3.0f%% of %s", ctrl.Progress()*100, timer.GoalLabel(ctrl.Goal()))
}

// findProject matches a project by ID, ID prefix or case-insensitive name
func findProject(ctx context.Context, c *client.Client, ref string, includeArchived bool) (*client.Project, error) {
	projects, err := c.ListProjects(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	return matchProject(ref, projects)
}

func matchProject(ref string, projects []client.Project) (*client.Project, error) {
	var matches []client.Project
	for _, p := range projects {
		if p.ID == ref || strings.EqualFold(p.Name, ref) {
			return &p, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project %q not found", ref)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("project %q is ambiguous, use more of the ID", ref)
	}
}
