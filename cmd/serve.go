package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/notificator/internal/api"
	"github.com/shaharia-lab/notificator/internal/build"
	"github.com/shaharia-lab/notificator/internal/config"
	"github.com/shaharia-lab/notificator/internal/scheduler"
	"github.com/shaharia-lab/notificator/internal/server"
)

// NewServeCmd returns the "serve" subcommand that runs the HTTP API and the
// dispatch scheduler.
func NewServeCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		port int
		cron string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the notification API server and dispatch scheduler",
		Long: `Start the HTTP server that accepts project updates and dispatches them
on the configured cron schedule. Pass --cron "" to disable scheduled runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("cron") {
				cfg.DispatchCron = cron
			}

			logFile := filepath.Join(cfg.LogDir(), "system.log")
			schedule := cfg.DispatchCron
			if schedule == "" {
				schedule = "disabled"
			}
			printBanner(cmd.OutOrStdout(), build.Version, [][2]string{
				{"API", fmt.Sprintf("http://localhost:%d/api", cfg.Port)},
				{"Metrics", fmt.Sprintf("http://localhost:%d/metrics", cfg.Port)},
				{"Schedule", schedule},
				{"Logs", logFile},
			})

			if err := runServe(cmd.Context(), cfg); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("An error occurred. Please check the logs at: "+logFile))
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", cfg.Port, "HTTP server port (overrides PORT env var)")
	cmd.Flags().StringVar(&cron, "cron", cfg.DispatchCron, "Dispatch schedule (overrides NOTIFICATOR_DISPATCH_CRON env var)")

	return cmd
}

func runServe(parent context.Context, cfg *config.AppConfig) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	if cfg.DispatchCron != "" {
		sched, err := scheduler.New(scheduler.Config{
			Dispatcher: a.service,
			Cron:       cfg.DispatchCron,
			Logger:     a.logger,
		})
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				a.logger.Warn("failed to stop scheduler", "error", err)
			}
		}()
	}

	apiSrv := api.New(a.service, a.logger)
	srv := server.New(apiSrv, server.Config{Port: cfg.Port, CORSOrigins: cfg.CORSOrigins}, a.logger)

	a.logger.Info("server ready", "port", cfg.Port)
	return srv.Run(ctx)
}
