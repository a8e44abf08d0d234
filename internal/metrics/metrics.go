package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Engine Metrics
var (
	ActivityEventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActivityEventsProcessed,
			Help: HelpTextActivityEventsProcessed,
		},
		[]string{LabelType},
	)

	PointsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePointsAwarded,
			Help: HelpTextPointsAwarded,
		},
		[]string{LabelActivityKind},
	)

	AchievementsUnlocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAchievementsUnlocked,
			Help: HelpTextAchievementsUnlocked,
		},
	)

	StreakMilestones = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStreakMilestones,
			Help: HelpTextStreakMilestones,
		},
		[]string{LabelActivityKind},
	)

	ChallengesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChallengesCompleted,
			Help: HelpTextChallengesCompleted,
		},
		[]string{LabelType},
	)

	RewardsClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRewardsClaimed,
			Help: HelpTextRewardsClaimed,
		},
	)

	ResetSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameResetSweeps,
			Help: HelpTextResetSweeps,
		},
	)

	ResetSweepUserFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameResetSweepUserFailures,
			Help: HelpTextResetSweepUserFailures,
		},
	)

	StateFlushFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStateFlushFailures,
			Help: HelpTextStateFlushFailures,
		},
	)

	WorkerJobFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameWorkerJobFailures,
			Help: HelpTextWorkerJobFailures,
		},
	)

	WorkerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameWorkerQueueDepth,
			Help: HelpTextWorkerQueueDepth,
		},
	)
)
