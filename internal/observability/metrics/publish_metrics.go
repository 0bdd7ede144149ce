package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Config carries the const labels stamped onto every metric.
type Config struct {
	ServiceName string
	Environment string
}

const (
	JobReasonDeadlineExceeded = "deadline_exceeded"
	JobReasonCollaborator     = "collaborator"
	JobReasonDB               = "db"
	JobReasonUnknown          = "unknown"
)

// PublishMetrics captures publish pipeline health signals: orchestrator jobs,
// status polls, launches, and stuck-site recoveries.
type PublishMetrics struct {
	jobRuns        *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
	jobTimeouts    *prometheus.CounterVec
	jobErrors      *prometheus.CounterVec
	launches       *prometheus.CounterVec
	pollTicks      *prometheus.CounterVec
	stuckRecovered prometheus.Counter
}

var (
	publishMetricsOnce sync.Once
	publishMetrics     *PublishMetrics
)

// Publish returns the singleton publish metrics registry.
func Publish() *PublishMetrics {
	return PublishWithConfig(Config{})
}

// PublishWithConfig returns the singleton publish metrics registry using config labels.
func PublishWithConfig(cfg Config) *PublishMetrics {
	publishMetricsOnce.Do(func() {
		publishMetrics = newPublishMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return publishMetrics
}

// ResetPublishMetricsForTest resets the publish metrics singleton for tests.
func ResetPublishMetricsForTest() {
	publishMetricsOnce = sync.Once{}
	publishMetrics = nil
}

func newPublishMetrics(registerer prometheus.Registerer, cfg Config) *PublishMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "sitekit"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "sitekit_publish_job_runs_total",
		Help:        "Publish pipeline job runs by name.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "sitekit_publish_job_duration_seconds",
		Help:        "Publish pipeline job latency.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		ConstLabels: constLabels,
	}, []string{"job"})
	jobTimeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "sitekit_publish_job_timeouts_total",
		Help:        "Publish pipeline job timeouts.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "sitekit_publish_job_errors_total",
		Help:        "Publish pipeline job errors by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"job", "reason"})
	launches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "sitekit_launches_total",
		Help:        "Site launches by outcome.",
		ConstLabels: constLabels,
	}, []string{"result"})
	pollTicks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "sitekit_status_poll_ticks_total",
		Help:        "Publish status poll ticks by outcome.",
		ConstLabels: constLabels,
	}, []string{"result"})
	stuckRecovered := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "sitekit_stuck_sites_recovered_total",
		Help:        "Sites force-transitioned to live by the stuck-site heuristic.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(
		jobRuns,
		jobDuration,
		jobTimeouts,
		jobErrors,
		launches,
		pollTicks,
		stuckRecovered,
	)

	return &PublishMetrics{
		jobRuns:        jobRuns,
		jobDuration:    jobDuration,
		jobTimeouts:    jobTimeouts,
		jobErrors:      jobErrors,
		launches:       launches,
		pollTicks:      pollTicks,
		stuckRecovered: stuckRecovered,
	}
}

func (m *PublishMetrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *PublishMetrics) ObserveJobDuration(job string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *PublishMetrics) IncJobTimeout(job string) {
	if m == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

func (m *PublishMetrics) IncJobError(job string, err error) {
	if m == nil {
		return
	}
	m.jobErrors.WithLabelValues(job, classifyJobError(err)).Inc()
}

func (m *PublishMetrics) IncLaunch(result string) {
	if m == nil {
		return
	}
	m.launches.WithLabelValues(result).Inc()
}

func (m *PublishMetrics) IncPollTick(result string) {
	if m == nil {
		return
	}
	m.pollTicks.WithLabelValues(result).Inc()
}

func (m *PublishMetrics) IncStuckRecovered() {
	if m == nil {
		return
	}
	m.stuckRecovered.Inc()
}

func classifyJobError(err error) string {
	switch {
	case err == nil:
		return JobReasonUnknown
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return JobReasonDeadlineExceeded
	case errors.Is(err, gorm.ErrInvalidTransaction), errors.Is(err, gorm.ErrInvalidDB):
		return JobReasonDB
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return JobReasonDB
	}
	if strings.Contains(strings.ToLower(err.Error()), "connection") {
		return JobReasonCollaborator
	}
	return JobReasonUnknown
}
