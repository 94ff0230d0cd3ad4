package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds every application metric. A nil *Manager is not valid;
// tests use NewTestManager.
type Manager struct {
	CounterRequests             *prometheus.CounterVec
	CounterCompletionsMarked    prometheus.Counter
	CounterCompletionsDuplicate prometheus.Counter
	CounterCompletionsUnmarked  prometheus.Counter
	CounterSessions             *prometheus.CounterVec
	CounterRenewals             *prometheus.CounterVec
	CounterChatPrompts          *prometheus.CounterVec
	CounterExports              prometheus.Counter
	CounterTrackedEntries       *prometheus.CounterVec

	GaugeMembershipWatchers prometheus.Gauge

	HistogramRequestDuration *prometheus.HistogramVec
	HistogramSessionMinutes  prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitpal", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitpal", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of handled HTTP requests",
		}, []string{"method", "status"}),
		CounterCompletionsMarked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "completions_marked_total",
			Help:      "Workout completions recorded",
		}),
		CounterCompletionsDuplicate: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "completions_duplicate_total",
			Help:      "Completion attempts rejected as already completed",
		}),
		CounterCompletionsUnmarked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "completions_unmarked_total",
			Help:      "Completions removed by the user on the same day",
		}),
		CounterSessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sessions_total",
			Help:      "Workout session transitions by resulting status",
		}, []string{"status"}),
		CounterRenewals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "membership_renewals_total",
			Help:      "Membership renewal attempts by outcome",
		}, []string{"outcome"}),
		CounterChatPrompts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chat_prompts_total",
			Help:      "Assistant prompts by outcome (allowed, limited)",
		}, []string{"outcome"}),
		CounterExports: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "history_exports_total",
			Help:      "History exports uploaded to object storage",
		}),
		CounterTrackedEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tracked_entries_total",
			Help:      "Progress and nutrition entries logged, by kind",
		}, []string{"kind"}),
		GaugeMembershipWatchers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "membership_watchers",
			Help:      "Open membership event streams",
		}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of response time for requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status_code"}),
		HistogramSessionMinutes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "session_duration_minutes",
			Help:      "Duration of completed workout sessions",
			Buckets:   []float64{5, 15, 30, 45, 60, 90, 120, 180},
		}),
	}
}
