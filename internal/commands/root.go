package commands

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// configFile is the --config flag shared by every command
var configFile string

var rootCmd = &cobra.Command{
	Use:   "worktime",
	Short: "A focus timer and work session tracker",
	Long: `worktime tracks focused work sessions against a small REST API.
Run the server with 'worktime serve', sign in with 'worktime login' and
start a session with 'worktime start'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command and prints any error
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.worktime/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
