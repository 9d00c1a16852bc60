package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/worktime/internal/api"
	"github.com/balkashynov/worktime/internal/config"
	"github.com/balkashynov/worktime/internal/db"
	"github.com/balkashynov/worktime/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the worktime API server",
	Long: `Run the REST API server over the local SQLite database.

Examples:
  worktime serve
  worktime serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
}

func serve(parent context.Context, cfg *config.Config) error {
	log := logging.New(cfg.Log.Level, cfg.Log.Format, nil)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.Server.DatabasePath)
	if err != nil {
		return err
	}
	store := db.NewStore(gdb)
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("failed to close database")
		}
	}()

	if cfg.Server.JWTSecret == config.DefaultJWTSecret {
		log.Warn("using the default JWT secret; set server.jwt_secret before exposing the server")
	}

	server := api.NewServer(cfg.Server, store, log)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).WithField("database", cfg.Server.DatabasePath).Info("worktime api listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("server stopped")
	return nil
}
