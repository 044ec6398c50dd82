package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vita/internal/assessment"
	"vita/internal/config"
	"vita/internal/i18n"
	"vita/internal/platform/logger"
	"vita/internal/report"
	"vita/internal/web"
)

type options struct {
	configPath string
	env        string
}

func NewCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Start the Vita HTTP server: the risk check pages and the JSON API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to the config file (default configs/config.yaml)")
	cmd.Flags().StringVarP(&opts.env, "env", "e", "", "Environment (development, test, production); overrides server.mode")

	return cmd
}

func run(parent context.Context, opts *options) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.env != "" {
		cfg.Server.Mode = opts.env
	}

	log, closeLog, err := logger.Init(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := assessment.NewMemoryRepository(cfg.Session.TTL, log)
	go repo.Run(ctx, cfg.Session.SweepInterval)

	reports := report.NewService(cfg.Report.FontFamily, cfg.Report.FontPaths, log)
	if path, err := reports.FontPath(); err != nil {
		log.Warn("report font not found, PDF downloads are disabled", "paths", cfg.Report.FontPaths)
	} else {
		log.Info("report font", "path", path)
	}

	router := web.NewRouter(web.Deps{
		Service:      assessment.NewService(repo, log),
		Reports:      reports,
		Catalog:      i18n.DefaultCatalog(),
		SecureCookie: cfg.I18n.CookieSecure,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return err
	}
	log.Info("server exited gracefully")
	return nil
}
