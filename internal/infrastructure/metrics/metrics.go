package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "daybook"

// Metrics holds all Prometheus metrics. It implements usecase.Metrics.
type Metrics struct {
	// Ledger metrics
	EntriesInserted   prometheus.Counter
	EntriesRemoved    prometheus.Counter
	EntriesRebalanced prometheus.Counter

	// Report metrics
	SummaryFallbacks *prometheus.CounterVec
	DayBookDuration  prometheus.Histogram

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	registerer prometheus.Registerer
}

// New creates and registers all metrics with reg, or with the default
// registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		EntriesInserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_inserted_total",
			Help:      "Total number of ledger entries inserted",
		}),
		EntriesRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_removed_total",
			Help:      "Total number of ledger entries removed",
		}),
		EntriesRebalanced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_rebalanced_total",
			Help:      "Total number of later entries whose running balance was rewritten",
		}),

		SummaryFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_fallbacks_total",
				Help:      "Summary parts reported as zero because their source failed",
			},
			[]string{"part"},
		),
		DayBookDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "daybook_duration_seconds",
			Help:      "Time to load and aggregate the day book sources",
			Buckets:   prometheus.DefBuckets,
		}),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Total authentication failures",
			},
			[]string{"reason"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total requests rejected by the rate limiter",
		}),

		registerer: reg,
	}
}

// EntryInserted counts a new entry.
func (m *Metrics) EntryInserted() { m.EntriesInserted.Inc() }

// EntryRemoved counts a removed entry.
func (m *Metrics) EntryRemoved() { m.EntriesRemoved.Inc() }

// Rebalanced counts entries whose balance was rewritten.
func (m *Metrics) Rebalanced(n int) {
	if n > 0 {
		m.EntriesRebalanced.Add(float64(n))
	}
}

// SummaryFallback counts a summary part that fell back to zeros.
func (m *Metrics) SummaryFallback(part string) { m.SummaryFallbacks.WithLabelValues(part).Inc() }

// ObserveDayBook records how long a day book took to build.
func (m *Metrics) ObserveDayBook(d time.Duration) { m.DayBookDuration.Observe(d.Seconds()) }

// AuthFailed counts a rejected credential.
func (m *Metrics) AuthFailed(reason string) { m.AuthFailures.WithLabelValues(reason).Inc() }

// RateLimited counts a throttled request.
func (m *Metrics) RateLimited() { m.RateLimitHits.Inc() }

// TrackDroppedEvents exposes a counter read from dropped, typically the event
// bus drop count.
func (m *Metrics) TrackDroppedEvents(dropped func() uint64) {
	promauto.With(m.registerer).NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Ledger events not delivered to a slow subscriber",
	}, func() float64 { return float64(dropped()) })
}
