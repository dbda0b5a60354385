package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gomstl/mstl"
)

var _ mstl.Recorder = (*Recorder)(nil)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveDecomposition("seasonal", 336, 2, 15*time.Millisecond)
	r.ObserveDecomposition("seasonal", 672, 2, 20*time.Millisecond)
	r.ObserveDecomposition("trend_only", 50, 0, time.Millisecond)
	r.RecordFailure("missing_data")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runs.WithLabelValues("seasonal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("trend_only")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("missing_data")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
	assert.Equal(t, 1, testutil.CollectAndCount(r.points))
}

func TestRecorderRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	r.RecordFailure("fitter")

	path := filepath.Join(t.TempDir(), "mstl.prom")
	require.NoError(t, WriteTextfile(path, reg))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `mstl_failures_total{reason="fitter"} 1`)
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "0", periodLabel(0))
	assert.Equal(t, "1", periodLabel(1))
	assert.Equal(t, "2", periodLabel(2))
	assert.Equal(t, "3+", periodLabel(5))
}
