// Package main demonstrates MSTL on synthetic series with known components.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gomstl/mstl"
	"github.com/sartorproj/gomstl/snapshot"
	"github.com/sartorproj/gomstl/stats"
	"github.com/sartorproj/gomstl/timeseries"
)

// Scenario defines a synthetic series to decompose
type Scenario struct {
	Name        string        // Display name
	Description string        // Brief description
	Step        time.Duration // Spacing of the timestamps
	Length      int           // Number of observations
	Periods     []int         // Seasonal periods, shortest first
	Amplitudes  []float64     // Amplitude per period
	Slope       float64       // Trend increase per observation
	Noise       float64       // Standard deviation of the noise
	Windows     []int         // Seasonal windows (nil = defaults)
	Iterations  int           // Outer passes (0 = default)
}

// ComponentResult holds the recovery error of one component
type ComponentResult struct {
	Name        string  `json:"name"`
	RMSE        float64 `json:"rmse"`
	Correlation float64 `json:"correlation"`
	Strength    float64 `json:"strength"`
}

// ScenarioResult holds decomposition results for JSON export
type ScenarioResult struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	NObs          int               `json:"n_obs"`
	Periods       []int             `json:"periods"`
	Components    []ComponentResult `json:"components"`
	LjungBoxP     float64           `json:"ljung_box_p"`
	DurbinWatson  float64           `json:"durbin_watson"`
	SnapshotBytes map[string]int    `json:"snapshot_bytes"`
	Elapsed       string            `json:"elapsed"`
}

// OutputData holds all results for visualization
type OutputData struct {
	Scenarios []ScenarioResult `json:"scenarios"`
}

// truth is the generated series together with its known components
type truth struct {
	series    *timeseries.Series
	trend     []float64
	seasonals [][]float64
}

func main() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("GoMSTL Demonstration - Multiple Seasonal-Trend decomposition")
	fmt.Println(strings.Repeat("=", 80))

	scenarios := []Scenario{
		{Name: "Hourly Load", Step: time.Hour, Length: 24 * 7 * 8, Periods: []int{24, 168}, Amplitudes: []float64{10, 5}, Slope: 0.01, Noise: 1, Description: "Daily and weekly cycles of electricity demand"},
		{Name: "Hourly Load (2 passes)", Step: time.Hour, Length: 24 * 7 * 8, Periods: []int{24, 168}, Amplitudes: []float64{10, 5}, Slope: 0.01, Noise: 1, Iterations: 2, Description: "Same series refined by a second outer pass"},
		{Name: "Half-hourly Traffic", Step: 30 * time.Minute, Length: 48 * 7 * 6, Periods: []int{48, 336}, Amplitudes: []float64{20, 8}, Slope: -0.005, Noise: 2, Windows: []int{13}, Description: "Daily and weekly cycles, one shared window"},
		{Name: "Monthly Sales", Step: 30 * 24 * time.Hour, Length: 120, Periods: []int{12}, Amplitudes: []float64{15}, Slope: 0.5, Noise: 3, Description: "Single yearly cycle"},
		{Name: "Random Walk", Step: 24 * time.Hour, Length: 365, Periods: []int{1}, Noise: 1, Description: "No seasonality, trend smoother only"},
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	output := OutputData{Scenarios: []ScenarioResult{}}
	rng := rand.New(rand.NewSource(7))

	for i, sc := range scenarios {
		fmt.Printf("\n%s\n[%d/%d] %s\n%s\n", strings.Repeat("=", 80), i+1, len(scenarios), sc.Name, strings.Repeat("=", 80))

		result := analyze(sc, generate(sc, rng), log)
		if result != nil {
			output.Scenarios = append(output.Scenarios, *result)
		}
	}

	// Export results
	fmt.Printf("\n%s\nEXPORTING RESULTS\n%s\n", strings.Repeat("=", 80), strings.Repeat("=", 80))

	if data, err := json.MarshalIndent(output, "", "  "); err == nil {
		os.WriteFile("decomposition_results.json", data, 0644)
		fmt.Printf("Exported %d scenarios to decomposition_results.json\n", len(output.Scenarios))
	}
	fmt.Println(strings.Repeat("=", 80))
}

// generate builds a series as trend + one sinusoid per period + noise
func generate(sc Scenario, rng *rand.Rand) *truth {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := make([]time.Time, sc.Length)
	values := make([]float64, sc.Length)
	tr := &truth{trend: make([]float64, sc.Length)}

	for range sc.Amplitudes {
		tr.seasonals = append(tr.seasonals, make([]float64, sc.Length))
	}

	walk := 0.0
	for i := range values {
		ts[i] = start.Add(time.Duration(i) * sc.Step)

		if sc.Periods[0] <= 1 {
			walk += sc.Noise * rng.NormFloat64()
			tr.trend[i] = 50 + walk
			values[i] = tr.trend[i]
			continue
		}

		tr.trend[i] = 100 + sc.Slope*float64(i)
		values[i] = tr.trend[i] + sc.Noise*rng.NormFloat64()
		for k, amp := range sc.Amplitudes {
			s := amp * math.Sin(2*math.Pi*float64(i)/float64(sc.Periods[k]))
			tr.seasonals[k][i] = s
			values[i] += s
		}
	}

	tr.series, _ = timeseries.NewWithTimestamps(ts, values)
	tr.series.Name = sc.Name
	return tr
}

// analyze decomposes a scenario and compares the components with the truth
func analyze(sc Scenario, tr *truth, log zerolog.Logger) *ScenarioResult {
	opts := []mstl.Option{mstl.WithLogger(log)}
	if sc.Windows != nil {
		opts = append(opts, mstl.WithSeasonalWindows(sc.Windows...))
	}
	if sc.Iterations > 0 {
		opts = append(opts, mstl.WithIterations(sc.Iterations))
	}

	dec, err := mstl.New(opts...)
	if err != nil {
		fmt.Printf("   Error building decomposer: %v\n", err)
		return nil
	}

	start := time.Now()
	table, err := dec.DecomposeSeries(tr.series, sc.Periods...)
	if err != nil {
		fmt.Printf("   Error decomposing: %v\n", err)
		return nil
	}
	elapsed := time.Since(start)

	n := table.Len()
	fmt.Printf("   %s\n", sc.Description)
	fmt.Printf("   %d observations, periods %v, columns %v (%v)\n", n, sc.Periods, table.Names(), elapsed.Round(time.Microsecond))

	result := &ScenarioResult{
		Name:          sc.Name,
		Description:   sc.Description,
		NObs:          n,
		Periods:       table.Periods(),
		SnapshotBytes: map[string]int{},
		Elapsed:       elapsed.String(),
	}

	rem := table.Remainder()

	// Component recovery
	fmt.Println("\n   Component recovery:")
	fmt.Printf("   %-14s %10s %12s %10s\n", "Component", "RMSE", "Correlation", "Strength")
	fmt.Printf("   %s\n", strings.Repeat("-", 50))

	trend := ComponentResult{
		Name:        mstl.ColumnTrend,
		RMSE:        rmse(table.Trend(), tr.trend),
		Correlation: correlation(table.Trend(), tr.trend),
		Strength:    stats.TrendStrength(table.Trend(), rem),
	}
	result.Components = append(result.Components, trend)
	printComponent(trend)

	for k, name := range table.SeasonalNames() {
		est, _ := table.Column(name)
		c := ComponentResult{
			Name:        name,
			RMSE:        rmse(est, tr.seasonals[k]),
			Correlation: correlation(est, tr.seasonals[k]),
			Strength:    stats.SeasonalStrength(est, rem),
		}
		result.Components = append(result.Components, c)
		printComponent(c)
	}

	// Remainder diagnostics
	fmt.Println("\n   Remainder diagnostics:")
	if lb := stats.LjungBox(rem, 24, 0); lb != nil {
		result.LjungBoxP = lb.PValue
		fmt.Printf("   Ljung-Box Q=%.2f, p=%.4f\n", lb.Statistic, lb.PValue)
	}
	if dw := stats.DurbinWatson(rem); dw != nil {
		result.DurbinWatson = dw.Statistic
		fmt.Printf("   Durbin-Watson %.4f\n", dw.Statistic)
	}

	// Check the decomposition adds back up
	maxErr := 0.0
	for i, v := range table.Reconstruct() {
		maxErr = math.Max(maxErr, math.Abs(v-table.Data()[i]))
	}
	fmt.Printf("   Reconstruction error %.2e\n", maxErr)

	// Snapshot sizes per codec
	fmt.Println("\n   Snapshot size:")
	for _, c := range []snapshot.Compression{snapshot.CompressionNone, snapshot.CompressionZstd, snapshot.CompressionS2, snapshot.CompressionLZ4} {
		b, err := snapshot.Encode(table, snapshot.WithCompression(c))
		if err != nil {
			fmt.Printf("   %-5s error: %v\n", c, err)
			continue
		}
		result.SnapshotBytes[c.String()] = len(b)
		fmt.Printf("   %-5s %8d bytes\n", c, len(b))
	}

	return result
}

func printComponent(c ComponentResult) {
	fmt.Printf("   %-14s %10.4f %12.4f %10.4f\n", c.Name, c.RMSE, c.Correlation, c.Strength)
}

func rmse(est, actual []float64) float64 {
	return floats.Distance(est, actual, 2) / math.Sqrt(float64(len(est)))
}

func correlation(a, b []float64) float64 {
	return stat.Correlation(a, b, nil)
}
