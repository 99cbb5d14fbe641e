package telemetry

import (
	"context"
	"testing"

	"ctchen222/hotseat/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	return totals
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.SessionStarted(ctx, "websocket")
	m.Move(ctx, true, "")
	m.Move(ctx, true, "")
	m.Move(ctx, false, "occupied")
	m.GameFinished(ctx, "win")
	m.Reset(ctx)

	totals := collectSums(t, reader)
	assert.Equal(t, int64(1), totals["hotseat.sessions.started"])
	assert.Equal(t, int64(3), totals["hotseat.moves"])
	assert.Equal(t, int64(1), totals["hotseat.games.finished"])
	assert.Equal(t, int64(1), totals["hotseat.resets"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.SessionStarted(ctx, "rest")
		m.Move(ctx, false, "game_over")
		m.GameFinished(ctx, "draw")
		m.Reset(ctx)
	})
}

func TestInitOtelDisabled(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), config.Telemetry{Enabled: false})
	require.NoError(t, err)

	assert.NoError(t, shutdown(context.Background()))
}
