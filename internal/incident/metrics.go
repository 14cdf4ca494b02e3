package incident

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the incident subsystem.
type Metrics struct {
	SourcesClassified *prometheus.CounterVec
	IncidentsCreated  prometheus.Counter
	AggregateDuration prometheus.Histogram
	AggregateSize     prometheus.Histogram
	SkippedTagLinks   prometheus.Counter
	SkippedSources    prometheus.Counter
}

// NewMetrics registers and returns incident metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SourcesClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forcewatch_sources_classified_total",
			Help: "Citations classified, by resolved source type.",
		}, []string{"type"}),
		IncidentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forcewatch_incidents_created_total",
			Help: "Incidents accepted through the write path.",
		}),
		AggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forcewatch_aggregate_duration_seconds",
			Help:    "Duration of in-memory incident aggregation.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs .. ~1.6s
		}),
		AggregateSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forcewatch_aggregate_incidents",
			Help:    "Incidents per aggregation pass.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8), // 10 .. ~160k
		}),
		SkippedTagLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forcewatch_aggregate_skipped_tag_links_total",
			Help: "Tag links skipped for a dangling incident or type-of-force reference.",
		}),
		SkippedSources: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forcewatch_aggregate_skipped_sources_total",
			Help: "Sources skipped for a dangling incident reference.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.SourcesClassified,
			m.IncidentsCreated,
			m.AggregateDuration,
			m.AggregateSize,
			m.SkippedTagLinks,
			m.SkippedSources,
		)
	}
	return m
}
