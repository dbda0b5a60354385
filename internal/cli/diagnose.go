package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gomstl/mstl"
	"github.com/sartorproj/gomstl/stats"
)

func newDiagnoseCmd(a *app) *cobra.Command {
	var (
		sf   seriesFlags
		lags int
	)

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Decompose a series and report component strength and remainder tests",
		Long: `Decompose a series and report how well it was separated:

- Strength of the trend and of every seasonal component
- Ljung-Box and Box-Pierce tests of the remainder
- Durbin-Watson statistic of the remainder
- Remainder autocorrelation lags outside the 95% bounds`,
		Example: "  mstl diagnose --input load.csv --period 24,168 --lags 48",
		Args:    cobra.NoArgs,
	}
	sf.register(cmd)
	cmd.Flags().IntVar(&lags, "lags", 24, "lags used by the autocorrelation tests")

	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
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
		return printDiagnostics(cmd.OutOrStdout(), table, lags)
	})
	return cmd
}

func printDiagnostics(w io.Writer, table *mstl.Table, lags int) error {
	rem := table.Remainder()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT STRENGTH")
	fmt.Fprintln(tw, strings.Repeat("─", 40))
	fmt.Fprintf(tw, "%s\t%.4f\n", mstl.ColumnTrend, stats.TrendStrength(table.Trend(), rem))
	for _, name := range table.SeasonalNames() {
		seasonal, _ := table.Column(name)
		fmt.Fprintf(tw, "%s\t%.4f\n", name, stats.SeasonalStrength(seasonal, rem))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "REMAINDER")
	fmt.Fprintln(tw, strings.Repeat("─", 40))
	if lb := stats.LjungBox(rem, lags, 0); lb != nil {
		fmt.Fprintf(tw, "Ljung-Box\tQ=%.4f\tdf=%d\tp=%.4f\n", lb.Statistic, lb.DOF, lb.PValue)
	} else {
		fmt.Fprintln(tw, "Ljung-Box\tn/a")
	}
	if bp := stats.BoxPierce(rem, lags, 0); bp != nil {
		fmt.Fprintf(tw, "Box-Pierce\tQ=%.4f\tdf=%d\tp=%.4f\n", bp.Statistic, bp.DOF, bp.PValue)
	}
	if dw := stats.DurbinWatson(rem); dw != nil {
		fmt.Fprintf(tw, "Durbin-Watson\t%.4f\n", dw.Statistic)
	}
	if acf := stats.ACFWithConfidence(rem, lags); acf != nil {
		fmt.Fprintf(tw, "Significant ACF lags\t%v\n", stats.SignificantLags(acf.Values, acf.ConfBounds))
	}
	return tw.Flush()
}
