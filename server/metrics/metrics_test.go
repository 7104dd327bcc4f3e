package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericzzh/mattermost-plugin-purge/server/metrics"
)

func TestMetrics(t *testing.T) {
	t.Run("nil metrics record nothing", func(t *testing.T) {
		var m *metrics.Metrics
		assert.NotPanics(t, func() {
			m.ObserveFeed(metrics.FeedCreated, 1)
			m.ObserveSweep(3)
			m.ObserveBackfillChannel(10, false)
			m.ObservePurge(5)
			m.ObserveChunk(metrics.ChunkOK)
		})
	})

	t.Run("tracker gauges read the stats function", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		metrics.New(reg, func() (int, int) { return 2, 7 })

		families, err := reg.Gather()
		require.NoError(t, err)

		values := map[string]float64{}
		for _, f := range families {
			if len(f.GetMetric()) == 1 && f.GetMetric()[0].GetGauge() != nil {
				values[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
			}
		}
		assert.Equal(t, 2.0, values["purge_tracker_owners"])
		assert.Equal(t, 7.0, values["purge_tracker_posts"])
	})

	t.Run("counters accumulate", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg, nil)

		m.ObservePurge(4)
		m.ObservePurge(6)
		m.ObserveChunk(metrics.ChunkOK)
		m.ObserveChunk(metrics.ChunkAlreadyGone)
		m.ObserveChunk(metrics.ChunkOK)
		m.ObserveBackfillChannel(12, false)
		m.ObserveBackfillChannel(0, true)

		count, err := testutil.GatherAndCount(reg,
			"purge_purge_runs_total",
			"purge_purge_chunks_total",
			"purge_backfill_channels_total",
		)
		require.NoError(t, err)
		// runs (1 series) + chunks (2 outcomes) + channels (2 results)
		assert.Equal(t, 5, count)
	})
}
