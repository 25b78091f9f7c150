package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry tracks pipeline runs and per-stage outcomes, both as
// in-process counters and as prometheus metrics served on /metrics.
type Telemetry struct {
	logger *log.Logger

	mu sync.RWMutex
	// Run metrics
	TotalRuns        int64
	TotalRunDuration time.Duration

	// Stage metrics
	StageExecutions map[string]int64
	StageFailures   map[string]int64
	StageDurations  map[string]time.Duration
}

var (
	promOnce sync.Once

	runsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "newsinsight",
		Name:      "runs_total",
		Help:      "Completed verification runs.",
	})
	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "newsinsight",
		Name:      "run_duration_seconds",
		Help:      "End to end duration of a verification run.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
	stageTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsinsight",
		Name:      "stage_executions_total",
		Help:      "Pipeline stage executions by outcome.",
	}, []string{"stage", "outcome"})
	stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "newsinsight",
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"stage"})
)

// New creates a telemetry instance and registers the prometheus
// collectors exactly once per process.
func New() *Telemetry {
	promOnce.Do(func() {
		prometheus.MustRegister(runsTotal, runDuration, stageTotal, stageDuration)
	})
	return &Telemetry{
		logger:          log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		StageExecutions: make(map[string]int64),
		StageFailures:   make(map[string]int64),
		StageDurations:  make(map[string]time.Duration),
	}
}

// RecordRun records a completed pipeline run.
func (t *Telemetry) RecordRun(topic string, d time.Duration) {
	t.mu.Lock()
	t.TotalRuns++
	t.TotalRunDuration += d
	t.mu.Unlock()

	runsTotal.Inc()
	runDuration.Observe(d.Seconds())
	t.logger.Printf("run completed (topic=%q, duration=%s)", topic, d)
}

// RecordStage records one stage execution and its outcome.
func (t *Telemetry) RecordStage(stage string, d time.Duration, err error) {
	t.mu.Lock()
	t.StageExecutions[stage]++
	t.StageDurations[stage] += d
	if err != nil {
		t.StageFailures[stage]++
	}
	t.mu.Unlock()

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	stageTotal.WithLabelValues(stage, outcome).Inc()
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Snapshot returns a copy of the in-process counters.
func (t *Telemetry) Snapshot() map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stages := make(map[string]map[string]interface{}, len(t.StageExecutions))
	for name, count := range t.StageExecutions {
		avg := time.Duration(0)
		if count > 0 {
			avg = t.StageDurations[name] / time.Duration(count)
		}
		stages[name] = map[string]interface{}{
			"executions":   count,
			"failures":     t.StageFailures[name],
			"avg_duration": avg.String(),
		}
	}
	return map[string]interface{}{
		"total_runs": t.TotalRuns,
		"stages":     stages,
	}
}
