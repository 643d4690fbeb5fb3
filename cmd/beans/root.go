package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/beans/pkg/beans/manager"
	"mercator-hq/beans/pkg/cli"
	"mercator-hq/beans/pkg/config"
	"mercator-hq/beans/pkg/journal"
	"mercator-hq/beans/pkg/telemetry/logging"
	"mercator-hq/beans/pkg/telemetry/metrics"
	"mercator-hq/beans/pkg/telemetry/tracing"
)

const defaultConfigFile = "beans.yaml"

var (
	// Global flags
	cfgFile  string
	verbose  bool
	profiles []string
)

var rootCmd = &cobra.Command{
	Use:   "beans",
	Short: "Load and inspect XML bean definitions",
	Long: `Beans reads XML bean definition documents into a registry of named
definitions.

Definitions are declared with <bean> elements, may be nested in <beans>
blocks that form their own identifier scope, and may set properties with
p-namespace shorthand attributes. Sources are listed in the configuration
file or given as arguments.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringSliceVarP(&profiles, "profile", "p", nil, "active profiles (overrides config)")
}

// readConfig reads the configuration file and applies command line
// overrides. A missing default config file is not an error.
func readConfig(args []string) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(cfgFile); errors.Is(err, fs.ErrNotExist) && cfgFile == defaultConfigFile {
		cfg = config.NewDefault()
	} else {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, cli.NewConfigError(cfgFile, err.Error())
		}
	}

	if len(args) > 0 {
		cfg.Beans.Sources = args
		cfg.Beans.BaseDir = ""
	}
	if len(profiles) > 0 {
		cfg.Beans.ActiveProfiles = profiles
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	return cfg, nil
}

// loadConfig is readConfig for commands that load definitions.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := readConfig(args)
	if err != nil {
		return nil, err
	}
	if len(cfg.Beans.Sources) == 0 {
		return nil, cli.NewConfigError(cfgFile, manager.ErrNoSources.Error())
	}
	return cfg, nil
}

// app holds the components shared by the commands.
type app struct {
	config  *config.Config
	logger  *slog.Logger
	tracer  *tracing.Tracer
	metrics *metrics.Collector
	journal journal.Store
	manager *manager.Manager
}

// newApp wires the configured components. Logs go to stderr.
func newApp(cfg *config.Config, stderr io.Writer) (*app, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, stderr))
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	a := &app{
		config:  cfg,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
	}

	opts := []manager.Option{
		manager.WithLogger(logger),
		manager.WithMetrics(a.metrics),
		manager.WithTracer(tracer.Tracer()),
	}
	if cfg.Journal.Enabled {
		a.journal, err = journal.Open(cfg.Journal)
		if err != nil {
			_ = tracer.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		opts = append(opts, manager.WithJournal(a.journal))
	}

	a.manager, err = manager.New(&cfg.Beans, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// setup loads the configuration and wires the application for cmd.
func setup(cmd *cobra.Command, args []string) (*app, error) {
	cfg, err := loadConfig(args)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, errWriter(cmd))
}

// Close releases the journal and flushes traces.
func (a *app) Close() {
	if a.manager != nil {
		_ = a.manager.Close()
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("failed to close journal", "error", err)
		}
	}
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		a.logger.Warn("failed to shut down tracer", "error", err)
	}
}

func outWriter(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stdout
	}
	return cmd.OutOrStdout()
}

func errWriter(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return os.Stderr
	}
	return cmd.ErrOrStderr()
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd == nil || cmd.Context() == nil {
		return context.Background()
	}
	return cmd.Context()
}
