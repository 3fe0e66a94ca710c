package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/logging"
	"github.com/rgehrsitz/rothsim/internal/server"
	"github.com/rgehrsitz/rothsim/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation API over HTTP",
	Long: `Start the HTTP API. Settings come from the environment (or a .env file):

  ROTHSIM_ADDR          listen address (default :8080)
  ROTHSIM_DB            SQLite database path (default ./data/rothsim.db)
  ROTHSIM_WORKERS       sweep workers (default: number of CPUs)
  ROTHSIM_CORS_ORIGINS  comma separated allowed origins (default *)
  LOG_LEVEL             log level (default info)

Flags override the environment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServerConfig()
		if err != nil {
			return fmt.Errorf("failed to load server config: %w", err)
		}
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Addr = v
		}
		if v, _ := cmd.Flags().GetString("db"); v != "" {
			cfg.DBPath = v
		}
		if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
			cfg.Workers = v
		}
		dev, _ := cmd.Flags().GetBool("dev")

		// the server logs at its own level unless --log-level was given
		log := logger
		if !cmd.Flags().Changed("log-level") {
			log = logging.New(logging.Config{Level: cfg.LogLevel, Pretty: logPretty})
		}

		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Info().Str("path", cfg.DBPath).Msg("Database opened")

		srv := server.New(server.Config{
			Addr:        cfg.Addr,
			Log:         log,
			Store:       store,
			Workers:     cfg.Workers,
			CORSOrigins: cfg.CORSOrigins,
			DevMode:     dev,
		})

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Info().Str("signal", sig.String()).Msg("Shutting down server")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Info().Msg("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides ROTHSIM_ADDR)")
	serveCmd.Flags().String("db", "", "SQLite database path (overrides ROTHSIM_DB)")
	serveCmd.Flags().Int("workers", 0, "Sweep workers (overrides ROTHSIM_WORKERS)")
	serveCmd.Flags().Bool("dev", false, "Development mode: disables response compression")
}
