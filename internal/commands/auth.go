package commands

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/balkashynov/worktime/internal/tui"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Create a worktime account. Without flags an interactive form opens.

Examples:
  worktime register
  worktime register --name "Ada" --email ada@example.com --password secret1`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" || password == "" {
			return interactiveLogin(a, true)
		}
		if err := fieldErrors(tui.ValidateRegister(name, email, password, password)); err != nil {
			return err
		}
		if err := a.auth.Register(cmd.Context(), email, password, name); err != nil {
			return err
		}
		printSuccess("✅ Welcome, %s! You are signed in.", a.auth.User().Name)
		return nil
	}),
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the worktime server",
	Long: `Sign in and store the token for later commands. Without flags an
interactive form opens.

Examples:
  worktime login
  worktime login --email ada@example.com --password secret1`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" || password == "" {
			return interactiveLogin(a, false)
		}
		if err := fieldErrors(tui.ValidateLogin(email, password)); err != nil {
			return err
		}
		if err := a.auth.Login(cmd.Context(), email, password); err != nil {
			return err
		}
		printSuccess("✅ Signed in as %s", a.auth.User().Email)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		a.auth.Logout()
		printSuccess("👋 Logged out")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in user",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		user, err := a.requireLogin(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(color.Output, "%s %s\n", boldColor.Sprint(user.Name), faintColor.Sprintf("<%s>", user.Email))
		fmt.Fprintf(color.Output, "Member since %s\n", user.CreatedAt.Local().Format("Jan 2, 2006"))
		if user.LastLogin != nil {
			fmt.Fprintf(color.Output, "Last login   %s\n", humanize.Time(*user.LastLogin))
		}
		fmt.Fprintf(color.Output, "Server       %s\n", a.cfg.Client.APIURL)
		return nil
	}),
}

func init() {
	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("password", "", "password")

	loginCmd.Flags().String("email", "", "email address")
	loginCmd.Flags().String("password", "", "password")
}

// interactiveLogin opens the login view and returns once it succeeds or the
// user quits
func interactiveLogin(a *app, register bool) error {
	model, err := tui.Run(a.auth, a.client, tui.Options{
		Register:   register,
		LoginOnly:  true,
		Animations: true,
		Now:        time.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to run login form: %w", err)
	}
	if !model.SignedIn() {
		return nil
	}

	if user := a.auth.User(); user != nil {
		printSuccess("✅ Signed in as %s", user.Email)
	}
	return nil
}
