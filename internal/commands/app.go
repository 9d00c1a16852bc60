package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/balkashynov/worktime/internal/authsession"
	"github.com/balkashynov/worktime/internal/client"
	"github.com/balkashynov/worktime/internal/config"
	"github.com/balkashynov/worktime/internal/credstore"
	"github.com/balkashynov/worktime/internal/logging"
)

// errNotLoggedIn is returned by commands that need a signed in user
var errNotLoggedIn = errors.New("not logged in. Run 'worktime login' first")

// app is everything a client command needs
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	client *client.Client
	auth   *authsession.Manager
}

// newApp loads config and wires the API client to the auth session manager.
// Client logs go to a file in the state dir so they never mix with the TUI
func newApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	log := clientLogger(cfg)
	c := client.New(cfg.Client.APIURL, cfg.Client.RequestTimeout)
	mgr := authsession.NewManager(c, credstore.Open(cfg.Client.StateDir), log)
	c.UseCredentials(mgr)

	return &app{cfg: cfg, log: log, client: c, auth: mgr}, nil
}

func clientLogger(cfg *config.Config) *logrus.Logger {
	if err := os.MkdirAll(cfg.Client.StateDir, 0o700); err != nil {
		return logging.Discard()
	}
	f, err := os.OpenFile(filepath.Join(cfg.Client.StateDir, "client.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return logging.Discard()
	}
	return logging.New(cfg.Log.Level, cfg.Log.Format, f)
}

// requireLogin validates the stored token and returns the signed in user
func (a *app) requireLogin(ctx context.Context) (*client.User, error) {
	if a.auth.Resolve(ctx) != authsession.Authenticated {
		return nil, errNotLoggedIn
	}
	user := a.auth.User()
	if user == nil {
		return nil, errNotLoggedIn
	}
	return user, nil
}

// withApp wraps a command so it receives a ready app
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return fn(cmd, args, a)
	}
}
