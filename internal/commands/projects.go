package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/balkashynov/worktime/internal/client"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"p"},
	Short:   "Manage projects",
}

var projectsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Long: `Create a project to group sessions under.

Examples:
  worktime projects add Thesis
  worktime projects add "Client work" --color "#10B981" --description "Billable"`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		description, _ := cmd.Flags().GetString("description")
		colorFlag, _ := cmd.Flags().GetString("color")

		p, err := a.client.CreateProject(cmd.Context(), client.NewProject{
			Name:        strings.Join(args, " "),
			Description: description,
			Color:       colorFlag,
		})
		if err != nil {
			return err
		}
		printSuccess("📁 Created project %s (%s)", p.Name, shortID(p.ID))
		return nil
	}),
}

var projectsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")
		projects, err := a.client.ListProjects(cmd.Context(), all)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Fprintln(color.Output, "No projects yet. Create one with 'worktime projects add <name>'.")
			return nil
		}

		fmt.Fprintln(color.Output, projectTable(projects))
		return nil
	}),
}

var projectsEditCmd = &cobra.Command{
	Use:   "edit <project>",
	Short: "Rename or recolor a project",
	Long: `Update a project by name or ID. Only the given flags change.

Examples:
  worktime projects edit Thesis --name Dissertation
  worktime projects edit 3f2a --color "#F59E0B" --description ""`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		var update client.ProjectUpdate
		flags := cmd.Flags()
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			update.Name = &v
		}
		if flags.Changed("description") {
			v, _ := flags.GetString("description")
			update.Description = &v
		}
		if flags.Changed("color") {
			v, _ := flags.GetString("color")
			update.Color = &v
		}
		if update.Name == nil && update.Description == nil && update.Color == nil {
			return errors.New("nothing to change, pass --name, --description or --color")
		}

		return updateProject(cmd, a, args[0], update, "✏️  Updated project %s")
	}),
}

var projectsArchiveCmd = &cobra.Command{
	Use:   "archive <project>",
	Short: "Archive a project, keeping its sessions",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		p, err := findProject(cmd.Context(), a.client, args[0], false)
		if err != nil {
			return err
		}
		if err := a.client.ArchiveProject(cmd.Context(), p.ID); err != nil {
			return err
		}
		printSuccess("📦 Archived project %s", p.Name)
		return nil
	}),
}

var projectsUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <project>",
	Short: "Restore an archived project",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if _, err := a.requireLogin(cmd.Context()); err != nil {
			return err
		}

		active := false
		return updateProject(cmd, a, args[0], client.ProjectUpdate{IsArchived: &active}, "📂 Restored project %s")
	}),
}

func init() {
	projectsAddCmd.Flags().StringP("description", "d", "", "project description")
	projectsAddCmd.Flags().StringP("color", "c", "", "hex color, e.g. #7C3AED")

	projectsListCmd.Flags().BoolP("all", "a", false, "include archived projects")

	projectsEditCmd.Flags().String("name", "", "new name")
	projectsEditCmd.Flags().StringP("description", "d", "", "new description, empty to clear")
	projectsEditCmd.Flags().StringP("color", "c", "", "new hex color")

	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsEditCmd)
	projectsCmd.AddCommand(projectsArchiveCmd)
	projectsCmd.AddCommand(projectsUnarchiveCmd)
}

func updateProject(cmd *cobra.Command, a *app, ref string, update client.ProjectUpdate, done string) error {
	p, err := findProject(cmd.Context(), a.client, ref, true)
	if err != nil {
		return err
	}
	updated, err := a.client.UpdateProject(cmd.Context(), p.ID, update)
	if err != nil {
		return err
	}
	printSuccess(done, updated.Name)
	return nil
}

func projectTable(projects []client.Project) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50

	tbl.AddRow(boldColor.Sprint("ID"), boldColor.Sprint("NAME"), boldColor.Sprint("COLOR"), boldColor.Sprint("DESCRIPTION"), boldColor.Sprint("STATUS"))
	for _, p := range projects {
		status := "active"
		if p.IsArchived {
			status = faintColor.Sprint("archived")
		}
		tbl.AddRow(faintColor.Sprint(shortID(p.ID)), p.Name, swatch(p.Color), orDash(p.Description), status)
	}
	return tbl
}

// swatch prints a block in the project color next to its hex code
func swatch(hex string) string {
	if !strings.HasPrefix(hex, "#") {
		return hex
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■") + " " + hex
}
