// Package metrics exposes prometheus collectors for the tracker, the retention sweep,
// the history backfill and purge runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "purge"

// Chunk outcomes reported by purge runs.
const (
	ChunkOK           = "ok"
	ChunkAlreadyGone  = "already_gone"
	ChunkUnauthorized = "unauthorized"
	ChunkFailed       = "failed"
)

// Feed event kinds.
const (
	FeedCreated     = "created"
	FeedDeleted     = "deleted"
	FeedBulkDeleted = "bulk_deleted"
)

// StatsFunc reports the number of tracked owners and posts.
type StatsFunc func() (owners int, posts int)

// Metrics holds every collector of the plugin. A nil *Metrics is valid and records nothing.
type Metrics struct {
	feedEvents       *prometheus.CounterVec
	sweptPosts       prometheus.Counter
	sweeps           prometheus.Counter
	backfillPosts    prometheus.Counter
	backfillChannels *prometheus.CounterVec
	purgeRuns        prometheus.Counter
	purgeDeleted     prometheus.Counter
	purgeChunks      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. When stats is not nil, gauges for
// the tracker size are registered as well.
func New(reg prometheus.Registerer, stats StatsFunc) *Metrics {
	m := &Metrics{
		feedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "events_total",
			Help:      "Live post events applied to the tracker.",
		}, []string{"kind"}),
		sweptPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "evicted_posts_total",
			Help:      "Posts evicted from the tracker after leaving the retention window.",
		}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Retention sweeps performed.",
		}),
		backfillPosts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backfill",
			Name:      "tracked_posts_total",
			Help:      "Posts inserted into the tracker by the history backfill.",
		}),
		backfillChannels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backfill",
			Name:      "channels_total",
			Help:      "Channels scanned by the history backfill.",
		}, []string{"result"}),
		purgeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "purge",
			Name:      "runs_total",
			Help:      "Purge requests executed.",
		}),
		purgeDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "purge",
			Name:      "deleted_posts_total",
			Help:      "Posts reported deleted by purge runs.",
		}),
		purgeChunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "purge",
			Name:      "chunks_total",
			Help:      "Deletion calls issued by purge runs, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.feedEvents,
		m.sweptPosts,
		m.sweeps,
		m.backfillPosts,
		m.backfillChannels,
		m.purgeRuns,
		m.purgeDeleted,
		m.purgeChunks,
	)

	if stats != nil {
		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "tracker",
				Name:      "owners",
				Help:      "Authors with at least one tracked post.",
			}, func() float64 {
				owners, _ := stats()
				return float64(owners)
			}),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "tracker",
				Name:      "posts",
				Help:      "Posts currently tracked.",
			}, func() float64 {
				_, posts := stats()
				return float64(posts)
			}),
		)
	}

	return m
}

func (m *Metrics) ObserveFeed(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.feedEvents.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) ObserveSweep(evicted int) {
	if m == nil {
		return
	}
	m.sweeps.Inc()
	m.sweptPosts.Add(float64(evicted))
}

func (m *Metrics) ObserveBackfillChannel(tracked int, failed bool) {
	if m == nil {
		return
	}
	result := "done"
	if failed {
		result = "failed"
	}
	m.backfillChannels.WithLabelValues(result).Inc()
	m.backfillPosts.Add(float64(tracked))
}

func (m *Metrics) ObservePurge(deleted int) {
	if m == nil {
		return
	}
	m.purgeRuns.Inc()
	m.purgeDeleted.Add(float64(deleted))
}

func (m *Metrics) ObserveChunk(outcome string) {
	if m == nil {
		return
	}
	m.purgeChunks.WithLabelValues(outcome).Inc()
}
