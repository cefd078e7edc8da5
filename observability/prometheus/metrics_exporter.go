// Package prometheus exports pool measurements as Prometheus metrics.
package prometheus

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jzx17/gotasker/pkg/tasker"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts tasker.Metrics to Prometheus collectors.
type MetricsExporter struct {
	namespace string
	reg       prom.Registerer

	tasksPostedTotal    *prom.CounterVec
	tasksDroppedTotal   *prom.CounterVec
	tasksProcessedTotal *prom.CounterVec
	taskPanicTotal      *prom.CounterVec
	taskDurationSeconds *prom.HistogramVec
}

var _ tasker.Metrics = (*MetricsExporter)(nil)

// Sizer is anything that can report how many tasks are queued.
type Sizer interface {
	Size() int
}

// NewMetricsExporter creates and registers Prometheus collectors for tasker.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "tasker"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	postedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_posted_total",
		Help:      "Total number of tasks accepted by Post.",
	}, []string{"pool"})
	droppedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_dropped_total",
		Help:      "Total number of tasks posted after the pool was stopped.",
	}, []string{"pool"})
	processedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_processed_total",
		Help:      "Total number of tasks handed to the processing function.",
	}, []string{"pool", "stolen"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_panic_total",
		Help:      "Total number of panics recovered from the processing function.",
	}, []string{"pool"})
	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Processing function duration in seconds.",
		Buckets:   buckets,
	}, []string{"pool"})

	var err error
	if postedVec, err = registerCollector(reg, postedVec); err != nil {
		return nil, err
	}
	if droppedVec, err = registerCollector(reg, droppedVec); err != nil {
		return nil, err
	}
	if processedVec, err = registerCollector(reg, processedVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		namespace:           namespace,
		reg:                 reg,
		tasksPostedTotal:    postedVec,
		tasksDroppedTotal:   droppedVec,
		tasksProcessedTotal: processedVec,
		taskPanicTotal:      panicVec,
		taskDurationSeconds: durationVec,
	}, nil
}

// RecordPosted counts an accepted task.
func (m *MetricsExporter) RecordPosted(pool string) {
	if m == nil {
		return
	}
	m.tasksPostedTotal.WithLabelValues(normalizeLabel(pool, tasker.DefaultName)).Inc()
}

// RecordDropped counts a task posted after stop.
func (m *MetricsExporter) RecordDropped(pool string) {
	if m == nil {
		return
	}
	m.tasksDroppedTotal.WithLabelValues(normalizeLabel(pool, tasker.DefaultName)).Inc()
}

// RecordProcessed counts a processed task and observes its duration.
func (m *MetricsExporter) RecordProcessed(pool string, _ int, stolen bool, duration time.Duration) {
	if m == nil {
		return
	}
	pool = normalizeLabel(pool, tasker.DefaultName)
	m.tasksProcessedTotal.WithLabelValues(pool, strconv.FormatBool(stolen)).Inc()
	m.taskDurationSeconds.WithLabelValues(pool).Observe(duration.Seconds())
}

// RecordPanic counts a recovered panic.
func (m *MetricsExporter) RecordPanic(pool string) {
	if m == nil {
		return
	}
	m.taskPanicTotal.WithLabelValues(normalizeLabel(pool, tasker.DefaultName)).Inc()
}

// WatchQueueDepth registers a gauge that reports s.Size() on every scrape.
func (m *MetricsExporter) WatchQueueDepth(pool string, s Sizer) error {
	gauge := prom.NewGaugeFunc(prom.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "queue_depth",
		Help:        "Current number of queued tasks.",
		ConstLabels: prom.Labels{"pool": normalizeLabel(pool, tasker.DefaultName)},
	}, func() float64 {
		return float64(s.Size())
	})

	if err := m.reg.Register(gauge); err != nil {
		return fmt.Errorf("register queue depth for pool %q: %w", pool, err)
	}
	return nil
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
