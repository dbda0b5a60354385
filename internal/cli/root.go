// Package cli implements the mstl command line tool.
package cli

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sartorproj/gomstl/internal/config"
	"github.com/sartorproj/gomstl/internal/logger"
	"github.com/sartorproj/gomstl/internal/metrics"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath      string
	logLevel        string
	logFormat       string
	metricsTextfile string

	cfg      *config.Config
	log      zerolog.Logger
	closer   io.Closer
	registry *prometheus.Registry
	recorder *metrics.Recorder
}

// NewRootCmd builds the mstl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "mstl",
		Short: "Multi-seasonal trend decomposition of time series",
		Long: `mstl splits a time series into a trend, one seasonal component per
period and a remainder, using repeated STL fits (MSTL).

Series are read from CSV. Results are written as CSV or as compressed
snapshots that can be examined with "mstl inspect".`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (json or console)")
	root.PersistentFlags().StringVar(&a.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")

	root.AddCommand(newDecomposeCmd(a), newDiagnoseCmd(a), newInspectCmd(a))
	return root
}

// Execute runs the command tree with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile = a.metricsTextfile
	}

	log, closer, err := newLogger(cmd, cfg.Logging)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.closer = closer
	a.registry = prometheus.NewRegistry()
	a.recorder = metrics.New(a.registry)
	return nil
}

// run wraps a command body so that failures are logged and metrics are
// flushed whatever the outcome.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if terr := a.teardown(); err == nil {
				err = terr
			}
		}()

		if err = fn(cmd, args); err != nil {
			a.log.Error().Err(err).Str("command", cmd.Name()).Msg("command failed")
		}
		return err
	}
}

func (a *app) teardown() error {
	if a.cfg == nil {
		return nil
	}

	var err error
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err = metrics.WriteTextfile(path, a.registry); err != nil {
			a.log.Error().Err(err).Str("path", path).Msg("write metrics textfile")
		}
	}
	if a.closer != nil {
		if cerr := a.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// newLogger routes stdout and stderr through the command so output can be
// captured.
func newLogger(cmd *cobra.Command, cfg logger.Config) (zerolog.Logger, io.Closer, error) {
	switch cfg.Output {
	case "", "stderr":
		l, err := logger.NewWithWriter(cfg, cmd.ErrOrStderr())
		return l, nil, err
	case "stdout":
		l, err := logger.NewWithWriter(cfg, cmd.OutOrStdout())
		return l, nil, err
	default:
		return logger.New(cfg)
	}
}
