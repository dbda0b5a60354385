package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gomstl/internal/config"
	"github.com/sartorproj/gomstl/mstl"
	"github.com/sartorproj/gomstl/snapshot"
	"github.com/sartorproj/gomstl/timeseries"
)

// seriesFlags are shared by every command that decomposes a CSV series.
type seriesFlags struct {
	input       string
	valueColumn string
	periods     []int
	windows     []int
	iterations  int
	robust      bool
}

func (f *seriesFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "input CSV file")
	fl.StringVar(&f.valueColumn, "value-column", "", "CSV column holding the values")
	fl.IntSliceVarP(&f.periods, "period", "p", nil, "seasonal periods in samples, in extraction order")
	fl.IntSliceVarP(&f.windows, "window", "w", nil, "seasonal smoother length per period (odd)")
	fl.IntVar(&f.iterations, "iterations", 0, "outer passes over all periods")
	fl.BoolVar(&f.robust, "robust", false, "use robust STL fits")
}

// apply overrides the configuration with the flags that were set.
func (f *seriesFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("input") {
		cfg.Input.Path = f.input
	}
	if fl.Changed("value-column") {
		cfg.Input.ValueColumn = f.valueColumn
	}
	if fl.Changed("period") {
		cfg.Decomposition.Periods = f.periods
	}
	if fl.Changed("window") {
		cfg.Decomposition.SeasonalWindows = f.windows
	}
	if fl.Changed("iterations") {
		cfg.Decomposition.Iterations = f.iterations
	}
	if fl.Changed("robust") {
		cfg.Decomposition.Robust = f.robust
	}

	if cfg.Input.Path == "" {
		return errors.New("no input file: use --input or input.path")
	}
	return cfg.Validate()
}

func (a *app) loadSeries() (*timeseries.Series, error) {
	in := a.cfg.Input
	opts := timeseries.DefaultCSVOptions()
	opts.ValueColumn = in.ValueColumn
	opts.DateColumn = in.DateColumn
	opts.IDColumn = in.IDColumn
	opts.IDFilter = in.IDFilter
	opts.DateFormat = in.DateFormat

	series, err := timeseries.LoadCSV(in.Path, opts)
	if err != nil {
		return nil, err
	}
	a.log.Debug().
		Str("path", in.Path).
		Int("n", series.Len()).
		Bool("timestamps", series.HasTimestamps()).
		Msg("series loaded")
	return series, nil
}

func (a *app) decompose(series *timeseries.Series) (*mstl.Table, error) {
	d := a.cfg.Decomposition
	opts := []mstl.Option{
		mstl.WithIterations(d.Iterations),
		mstl.WithSTLParams(d.STLParams()),
		mstl.WithLogger(a.log),
		mstl.WithRecorder(a.recorder),
	}
	if len(d.SeasonalWindows) > 0 {
		opts = append(opts, mstl.WithSeasonalWindows(d.SeasonalWindows...))
	}
	if d.BoxCoxLambda != nil {
		opts = append(opts, mstl.WithBoxCox(*d.BoxCoxLambda))
	}

	dec, err := mstl.New(opts...)
	if err != nil {
		return nil, err
	}
	return dec.DecomposeSeries(series, d.Periods...)
}

func newDecomposeCmd(a *app) *cobra.Command {
	var (
		sf          seriesFlags
		output      string
		format      string
		compression string
	)

	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Decompose a series into trend, seasonal and remainder components",
		Example: `  mstl decompose --input load.csv --period 24,168
  mstl decompose -i load.csv -p 24,168 --format snapshot --compression lz4 -o load.mstl`,
		Args: cobra.NoArgs,
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: CSV to stdout)")
	cmd.Flags().StringVar(&format, "format", "", "output format (csv or snapshot)")
	cmd.Flags().StringVar(&compression, "compression", "", "snapshot compression (none, zstd, s2, lz4)")

	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		fl := cmd.Flags()
		if fl.Changed("output") {
			a.cfg.Output.Path = output
		}
		if fl.Changed("format") {
			a.cfg.Output.Format = format
		}
		if fl.Changed("compression") {
			a.cfg.Output.Compression = compression
		}
		if err := sf.apply(cmd, a.cfg); err != nil {
			return err
		}

		series, err := a.loadSeries()
		if err != nil {
			return err
		}
		table, err := a.decompose(series)
		if err != nil {
			return err
		}
		return a.writeTable(cmd.OutOrStdout(), table, series)
	})
	return cmd
}

func (a *app) writeTable(stdout io.Writer, table *mstl.Table, series *timeseries.Series) error {
	out := a.cfg.Output

	if out.Format == "snapshot" {
		if out.Path == "" {
			return errors.New("snapshot output needs --output")
		}
		c, err := snapshot.ParseCompression(out.Compression)
		if err != nil {
			return err
		}
		if err := snapshot.WriteFile(out.Path, table, snapshot.WithCompression(c)); err != nil {
			return err
		}
		a.log.Info().Str("path", out.Path).Stringer("compression", c).Int("rows", table.Len()).Msg("snapshot written")
		return nil
	}

	var index []time.Time
	if series.HasTimestamps() {
		index = series.Timestamps
	}

	if out.Path == "" {
		return table.WriteCSV(stdout, index)
	}
	f, err := os.Create(out.Path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := table.WriteCSV(f, index); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Info().Str("path", out.Path).Int("rows", table.Len()).Msg("csv written")
	return nil
}
