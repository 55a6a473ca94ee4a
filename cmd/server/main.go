/*
main.go - Application entry point

PURPOSE:
  Command-line entry point of the leave management service. Handles
  configuration, dependency injection, and graceful shutdown.

COMMANDS:
  serve      Run the HTTP API
  summary    Print a user's yearly summary from the database
  token      Mint a bearer token for local development

STARTUP SEQUENCE (serve):
  1. Load configuration (defaults, --config file, LEAVEDESK_* env, flags)
  2. Initialize SQLite store
  3. Seed the holiday calendar for the current and next year and keep
     it rolled over
  4. Wire leave service and notification dispatcher
  5. Configure HTTP router
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  LEAVEDESK_JWT_SECRET=dev ./server serve --db=./data/leavedesk.db

  # Run with in-memory database on a different port
  LEAVEDESK_JWT_SECRET=dev ./server serve --db=":memory:" --port=3000

  # Print a summary
  ./server summary u-alice --year=2025

SEE ALSO:
  - config/config.go: Configuration keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warp/leavedesk/api"
	"github.com/warp/leavedesk/config"
	"github.com/warp/leavedesk/leave"
	"github.com/warp/leavedesk/notify"
	"github.com/warp/leavedesk/seed"
	"github.com/warp/leavedesk/store/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          "leavedesk",
		Short:        "Leave management service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().String("db", "", "SQLite database path (\":memory:\" for in-memory)")
	v.BindPFlag("db", root.PersistentFlags().Lookup("db"))

	load := func() (config.Config, error) {
		return config.Load(v, cfgFile)
	}

	root.AddCommand(newServeCmd(v, load))
	root.AddCommand(newSummaryCmd(load))
	root.AddCommand(newTokenCmd(load))
	return root
}

// =============================================================================
// SERVE
// =============================================================================

func newServeCmd(v *viper.Viper, load func() (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().Int("port", 0, "HTTP server port")
	cmd.Flags().String("log-level", "", "debug, info, warn or error")
	cmd.Flags().Bool("demo", false, "mount the demo scenario loader")
	v.BindPFlag("port", cmd.Flags().Lookup("port"))
	v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))
	v.BindPFlag("demo", cmd.Flags().Lookup("demo"))
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	store, err := sqlite.New(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	cal, err := seed.LoadFile(cfg.HolidaysFile)
	if err != nil {
		return fmt.Errorf("failed to load holiday calendar: %w", err)
	}
	scheduler := seed.NewScheduler(store, cal, logger)
	if _, err := scheduler.RunOnce(ctx); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	svc := leave.NewService(store, logger)
	dispatcher := notify.NewDispatcher(store, store, notify.NewMailer(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		UseTLS:   cfg.SMTP.TLS,
	}), logger)
	dispatcher.From = cfg.SMTP.From
	dispatcher.ManagementEmail = cfg.ManagementEmail
	svc.Notifier = dispatcher

	handler := api.NewHandler(svc, store, logger)
	router := api.NewRouter(handler, api.Options{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		StaticDir:   cfg.StaticDir,
		Demo:        cfg.Demo,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "db", cfg.DB)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// =============================================================================
// SUMMARY
// =============================================================================

func newSummaryCmd(load func() (config.Config, error)) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "summary USER_ID",
		Short: "Print a user's yearly summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := sqlite.New(cfg.DB)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			svc := leave.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
			if year == 0 {
				year = svc.Now().Year()
			}
			s, err := svc.Summary(cmd.Context(), args[0], year)
			if err != nil {
				return err
			}
			b, err := svc.Balance(cmd.Context(), args[0], year)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), args[0], s, b)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year (default current year)")
	return cmd
}

func printSummary(w io.Writer, userID string, s leave.Summary, b leave.Balance) {
	fmt.Fprintf(w, "%s %d\n", userID, s.Year)
	fmt.Fprintf(w, "%-8s %9s %6s %6s %9s\n", "Quarter", "Allocated", "Carry", "Taken", "Remaining")
	for _, q := range s.Quarters {
		fmt.Fprintf(w, "%-8s %9d %6d %6d %9d\n", q.Name, q.Allocated, q.CarryForward, q.Taken, q.Remaining)
	}
	fmt.Fprintf(w, "Taken %d of %d, remaining %d (sick %d, planned %d)\n",
		b.Taken, b.Allocated, b.Remaining, b.SickTaken, b.PlannedTaken)
	fmt.Fprintf(w, "Holidays %d of %d", s.HolidaysUsed, s.HolidaysCap)
	if s.OverHolidayCap() {
		fmt.Fprint(w, " (over cap)")
	}
	fmt.Fprintln(w)
}

// =============================================================================
// TOKEN
// =============================================================================

func newTokenCmd(load func() (config.Config, error)) *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token USER_ID",
		Short: "Mint a bearer token signed with jwt_secret (development only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("jwt_secret is required (LEAVEDESK_JWT_SECRET)")
			}
			token, err := api.NewToken(cfg.JWTSecret, args[0], role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", sqlite.RoleEmployee, "employee or manager")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
