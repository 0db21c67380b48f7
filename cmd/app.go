package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"spotmap/internal/components"
	"spotmap/internal/config"
	"spotmap/internal/storage/postgres"
)

func Run() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "spotmap",
		Short:         "Geo-tagged spots and alert statistics service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := components.SetupLogger(cfg.Env)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			storage, err := postgres.NewPostgres(ctx, cfg, logger)
			if err != nil {
				logger.Error("could not connect to postgres", "err", err)
				return err
			}
			defer storage.Close()

			if err := storage.Migrate(ctx); err != nil {
				logger.Error("migration failed", "err", err)
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		components.SetupLogger("local").Error("load config failed", "err", err)
		return err
	}
	logger := components.SetupLogger(cfg.Env)

	appCtx, cancel := context.WithCancel(parent)
	defer cancel()

	comps, err := components.InitComponents(appCtx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		return err
	}

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quitChan)

	var warmer backgroundRunner
	if comps.Warmer != nil {
		warmer = comps.Warmer
	}
	runErr := runUntilStopped(appCtx, logger, comps.HttpServer, warmer, quitChan)

	logger.Info("shutting down the services...")
	comps.ShutdownAll()
	logger.Info("gracefully shutting down the servers")

	return runErr
}

type serverRunner interface {
	Run(ctx context.Context) error
}

type backgroundRunner interface {
	Run(ctx context.Context)
}

// runUntilStopped runs the server and the optional warmer until a signal
// arrives, parent is done or the server fails. The server error is returned
// once everything has stopped.
func runUntilStopped(parent context.Context, logger *slog.Logger, server serverRunner, warmer backgroundRunner, quit <-chan os.Signal) error {
	ctx, stop := context.WithCancel(parent)
	defer stop()

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Run(ctx); err != nil {
			logger.Error("http server failed", "err", err)
			runErr = err
			stop()
		}
		logger.Info("http server stopped")
	}()

	if warmer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			warmer.Run(ctx)
			logger.Info("aggregation warmer stopped")
		}()
	}

	select {
	case sig := <-quit:
		logger.Info("captured signal, initiating shutdown", "signal", sig.String())
	case <-ctx.Done():
	}
	stop()

	wg.Wait()
	return runErr
}
