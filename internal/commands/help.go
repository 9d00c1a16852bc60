package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for worktime",
	Long:  `Display detailed help for all worktime commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Fprint(color.Output, `
╦ ╦╔═╗╦═╗╦╔═╔╦╗╦╔╦╗╔═╗
║║║║ ║╠╦╝╠╩╗ ║ ║║║║║╣
╚╩╝╚═╝╩╚═╩ ╩ ╩ ╩╩ ╩╚═╝

worktime - focus timer and work session tracker

SERVER:

  serve                   Run the REST API over the local SQLite database
    --addr                Listen address (default :5000)

ACCOUNT:

  register                Create an account (interactive without flags)
    --name, --email, --password
  login                   Sign in (interactive without flags)
    --email, --password
  logout                  Forget the stored token
  whoami                  Show the signed in user

TIMER:

  start [title]           Open the timer dashboard
    -p, --project         Project name
    -t, --type            Work type: deep|light|meeting|study|coding
    -g, --goal            Goal duration (25m, 1h30m, 45)
    -n, --note            Session notes
    --no-ui               Run the timer in the terminal, Ctrl+C saves

    Smart syntax:
      @project      Select a project
      +type         Set the work type
      goal:25m      Set a goal

    Example:
      worktime start "Write report @thesis +deep goal:45m"

    Dashboard keys:
      tab/shift+tab Move between fields
      ←/→           Change work type, project or goal
      enter         Start/stop the timer (stop saves)
      ctrl+r        Reset the timer
      d             Delete the selected session
      ctrl+l        Refresh history
      ctrl+o        Log out
      ctrl+c        Save a running session and quit

HISTORY:

  sessions ls             List sessions, most recent first
    --limit, --offset     Page through history
    -t, --type            Only this work type
    --from, --to          Date range (YYYY-MM-DD)
  sessions show <id>      Show one session (short IDs work)
  sessions rm <id>        Delete a session

  report                  Weekly timesheet by session and day
    --week-of             Any day in the week (YYYY-MM-DD)
    --last                Weeks back, e.g. 1 for last week

PROJECTS:

  projects add <name>     Create a project (-c color, -d description)
  projects ls             List projects (--all includes archived)
  projects edit <p>       Change --name, --description or --color
  projects archive <p>    Archive a project
  projects unarchive <p>  Restore an archived project

  version                 Show version information
  help                    Show this help

Every command accepts --config to point at a config file.

`)
}
