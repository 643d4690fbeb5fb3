package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/beans/pkg/beans/manager"
	"mercator-hq/beans/pkg/cli"
	"mercator-hq/beans/pkg/journal"
	"mercator-hq/beans/pkg/telemetry/health"
)

var watchFlags struct {
	listenAddress string
}

var watchCmd = &cobra.Command{
	Use:   "watch [source...]",
	Short: "Load bean definitions and reload them on change",
	Long: `Load the configured sources, then reload whenever a definition file
changes. A failed reload keeps the previous registry active.

While watching, an HTTP server exposes:
  /metrics   Prometheus load metrics
  /health    liveness
  /ready     readiness (the registry is loaded)
  /version   build information

The journal is pruned on its configured schedule.

Examples:
  # Watch configured sources
  beans watch

  # Watch a directory and serve on another address
  beans watch conf/ --listen 0.0.0.0:9464`,
	RunE: watchDefinitions,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.listenAddress, "listen", "l", "", "override metrics listen address")
}

func watchDefinitions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	cfg.Beans.Watch = true
	if watchFlags.listenAddress != "" {
		cfg.Telemetry.Metrics.ListenAddress = watchFlags.listenAddress
	}

	a, err := newApp(cfg, errWriter(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	if err := a.manager.Load(ctx); err != nil {
		return err
	}

	if a.journal != nil {
		pruner := journal.NewPruner(a.journal, journal.PrunerConfigFrom(cfg.Journal),
			journal.WithPrunerLogger(a.logger),
			journal.WithPrunerMetrics(a.metrics),
		)
		if err := pruner.Start(ctx); err != nil {
			return fmt.Errorf("failed to start journal pruning: %w", err)
		}
		defer pruner.Stop()
	}

	fmt.Fprintf(outWriter(cmd), "Watching %d sources, press Ctrl+C to stop\n", len(a.manager.Status().Sources))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Telemetry.Metrics.Enabled {
		server := &http.Server{
			Addr:              cfg.Telemetry.Metrics.ListenAddress,
			Handler:           a.routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.logger.Info("serving metrics and health endpoints", "address", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		// stopping the watch stops the server
		defer stop()
		if err := a.manager.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("stopped watching")
	return nil
}

// routes builds the HTTP handler for metrics and health probes.
func (a *app) routes() http.Handler {
	checker := health.New(2 * time.Second)
	checker.RegisterCheck("registry", a.registryCheck)
	if a.journal != nil {
		checker.RegisterCheck("journal", func(ctx context.Context) error {
			_, err := a.journal.Count(ctx)
			return err
		})
	}

	mux := http.NewServeMux()
	mux.Handle(a.config.Telemetry.Metrics.Path, a.metrics.Handler())
	health.Register(mux, checker, health.VersionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
		GoVersion: runtime.Version(),
	})
	return mux
}

// registryCheck fails until a registry has been loaded.
func (a *app) registryCheck(context.Context) error {
	status := a.manager.Status()
	if !status.Loaded {
		if status.LastError != nil {
			return fmt.Errorf("%w: %v", manager.ErrNotLoaded, status.LastError)
		}
		return manager.ErrNotLoaded
	}
	return nil
}
