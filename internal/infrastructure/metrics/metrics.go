package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/assetsync/internal/usecase"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Receipt dispatch metrics
	ReceiptsDispatched *prometheus.CounterVec
	DispatchDuration   *prometheus.HistogramVec
	DispatchErrors     *prometheus.CounterVec

	// Asset metrics
	AssetsCreated     prometheus.Counter
	UnmappedLines     prometheus.Counter
	TransferOutcomes  *prometheus.CounterVec
	UnitFailures      *prometheus.CounterVec
	DuplicateUnits    *prometheus.CounterVec
	LandedCostApplied prometheus.Counter
	LandedCostAmount  prometheus.Histogram

	// Exchange rate metrics
	RateBreakerState prometheus.Gauge

	// Messaging metrics
	MessagesConsumed *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)

	return &Metrics{
		ReceiptsDispatched: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_receipts_dispatched_total",
				Help: "Receipt events by dispatch outcome",
			},
			[]string{"event", "outcome"},
		),
		DispatchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assetsync_dispatch_duration_seconds",
				Help:    "Duration of receipt event handling",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event"},
		),
		DispatchErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_dispatch_errors_total",
				Help: "Receipt events that returned an error",
			},
			[]string{"event"},
		),

		AssetsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "assetsync_assets_created_total",
			Help: "Assets created from purchase receipts",
		}),
		UnmappedLines: f.NewCounter(prometheus.CounterOpts{
			Name: "assetsync_unmapped_lines_total",
			Help: "Receipt lines skipped for lack of a depreciation profile",
		}),
		TransferOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_transfer_outcomes_total",
				Help: "Transferred units by reconciliation case",
			},
			[]string{"case"},
		),
		UnitFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_unit_failures_total",
				Help: "Inventory units that failed to process",
			},
			[]string{"operation"},
		),
		DuplicateUnits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_duplicate_units_total",
				Help: "Units skipped because they were already processed",
			},
			[]string{"operation"},
		),
		LandedCostApplied: f.NewCounter(prometheus.CounterOpts{
			Name: "assetsync_landed_cost_allocations_total",
			Help: "Assets that received a landed cost portion",
		}),
		LandedCostAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetsync_landed_cost_amount",
			Help:    "Total landed cost allocated per receipt",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		RateBreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "assetsync_rate_breaker_state",
			Help: "Exchange rate circuit breaker state (0 closed, 1 half-open, 2 open)",
		}),

		MessagesConsumed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_messages_consumed_total",
				Help: "Receipt messages consumed",
			},
			[]string{"type", "status"},
		),
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_events_published_total",
				Help: "Outbox events published",
			},
			[]string{"event_type", "status"},
		),

		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assetsync_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "assetsync_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		DBQueries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assetsync_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetsync_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}

// RecordDispatch records the outcome of one receipt event. event is
// "created" or "updated"; res may be nil when the receipt could not be loaded.
func (m *Metrics) RecordDispatch(event string, res *usecase.DispatchResult, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.DispatchDuration.WithLabelValues(event).Observe(elapsed.Seconds())

	if err != nil {
		m.DispatchErrors.WithLabelValues(event).Inc()
	}

	if res == nil {
		return
	}

	m.ReceiptsDispatched.WithLabelValues(event, string(res.Outcome)).Inc()

	if c := res.Creation; c != nil {
		m.AssetsCreated.Add(float64(len(c.Created)))
		m.UnmappedLines.Add(float64(c.UnmappedLines))
		m.UnitFailures.WithLabelValues("create").Add(float64(len(c.Failures)))
		m.DuplicateUnits.WithLabelValues("create").Add(float64(c.Duplicates))
	}

	if t := res.Transfer; t != nil {
		for _, o := range t.Outcomes {
			m.TransferOutcomes.WithLabelValues(string(o.Case)).Inc()
		}
		m.UnitFailures.WithLabelValues("transfer").Add(float64(len(t.Failures)))
		m.DuplicateUnits.WithLabelValues("transfer").Add(float64(t.Duplicates))
	}

	if a := res.Allocation; a != nil && !a.Duplicate {
		m.LandedCostApplied.Add(float64(len(a.Allocations)))
		total, _ := a.TotalLandedCost.Float64()
		m.LandedCostAmount.Observe(total)
	}
}
