package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 1, c.Decomposition.Iterations)
	assert.Equal(t, "y", c.Input.ValueColumn)
	assert.Equal(t, "csv", c.Output.Format)
	assert.Equal(t, "zstd", c.Output.Compression)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
	assert.Equal(t, "stderr", c.Logging.Output)
	assert.Nil(t, c.Decomposition.BoxCoxLambda)
	require.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	yml := `
decomposition:
  periods: [24, 168]
  seasonal_windows: [11, 15]
  iterations: 2
  robust: true
input:
  path: load.csv
  value_column: load
output:
  format: snapshot
  compression: lz4
logging:
  level: debug
  format: json
metrics:
  textfile: /tmp/mstl.prom
`
	path := filepath.Join(t.TempDir(), "mstl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []int{24, 168}, c.Decomposition.Periods)
	assert.Equal(t, []int{11, 15}, c.Decomposition.SeasonalWindows)
	assert.Equal(t, 2, c.Decomposition.Iterations)
	assert.True(t, c.Decomposition.STLParams().Robust)
	assert.Equal(t, "load", c.Input.ValueColumn)
	assert.Equal(t, "2006-01-02", c.Input.DateFormat)
	assert.Equal(t, "snapshot", c.Output.Format)
	assert.Equal(t, "lz4", c.Output.Compression)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "stderr", c.Logging.Output)
	assert.Equal(t, "/tmp/mstl.prom", c.Metrics.Textfile)
}

func TestParseBoxCox(t *testing.T) {
	c, err := Parse([]byte("decomposition:\n  boxcox_lambda: 0.5\n"))
	require.NoError(t, err)
	require.NotNil(t, c.Decomposition.BoxCoxLambda)
	assert.Equal(t, 0.5, *c.Decomposition.BoxCoxLambda)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		msg  string
	}{
		{"unknown format", "output:\n  format: parquet\n", "Output.Format must be one of: csv, snapshot"},
		{"unknown compression", "output:\n  compression: brotli\n", "Output.Compression"},
		{"negative iterations", "decomposition:\n  iterations: -1\n", "Decomposition.Iterations"},
		{"zero period", "decomposition:\n  periods: [0]\n", "Decomposition.Periods[0]"},
		{"tiny window", "decomposition:\n  seasonal_windows: [1]\n", "Decomposition.SeasonalWindows[0]"},
		{"bad level", "logging:\n  level: loud\n", "Logging.Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("decomposition: [\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
