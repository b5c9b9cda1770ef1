// Package runner drives the frozen, ordered plugin list the assembler
// produces: an unbounded single-threaded loop that sweeps every
// plugin once per tick, isolating per-plugin process failures so a
// transient producer failure degrades the pipeline instead of halting
// it.
package runner

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/coreframe/trnx/pluginapi"
)

// Metrics holds the Prometheus collectors a Runner records to. They
// are observability only: no build or run invariant depends on their
// values.
type Metrics struct {
	tickTotal      prometheus.Counter
	processLatency *prometheus.HistogramVec
	processErrors  *prometheus.CounterVec
}

// NewMetrics creates the runner's collectors via promauto, the
// pattern this stack uses everywhere else Prometheus metrics are
// wired up. Pass prometheus.DefaultRegisterer to expose them on the
// process's default /metrics endpoint, or a dedicated
// prometheus.NewRegistry() (recommended for tests and for constructing
// more than one Runner per process) to avoid duplicate-registration
// panics; a nil reg creates the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		tickTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "trnx_tick_total",
			Help: "Total number of completed runner ticks.",
		}),
		processLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trnx_plugin_process_duration_seconds",
			Help:    "Per-plugin Process() duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"plugin"}),
		processErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trnx_plugin_process_errors_total",
			Help: "Total Process() errors per plugin, isolated and not propagated.",
		}, []string{"plugin"}),
	}
}

// Runner owns the built, ordered plugin list and drives cyclic
// execution.
type Runner struct {
	order   []string
	plugins map[string]pluginapi.Plugin

	log     *logrus.Logger
	metrics *Metrics

	// logEvery, when > 0, logs a tick summary every N ticks at info
	// level instead of staying silent (facade.Config.TickLogEvery).
	logEvery int
}

// New returns a Runner over order, resolving each class name to its
// plugin instance via lookup.
func New(order []string, lookup func(class string) pluginapi.Plugin, log *logrus.Logger, metrics *Metrics, logEvery int) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	plugins := make(map[string]pluginapi.Plugin, len(order))
	for _, class := range order {
		plugins[class] = lookup(class)
	}
	return &Runner{order: order, plugins: plugins, log: log, metrics: metrics, logEvery: logEvery}
}

// Run is the unbounded single-threaded tick loop. It observes ctx for
// cancellation only at plugin boundaries: the currently executing
// plugin's Process() is always allowed to finish before Run returns.
func (r *Runner) Run(ctx context.Context) {
	var tick uint64
	for {
		for _, class := range r.order {
			r.processOne(class)
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
		tick++
		r.metrics.tickTotal.Inc()
		if r.logEvery > 0 && tick%uint64(r.logEvery) == 0 {
			r.log.WithField("tick", tick).Info("runner: tick sweep complete")
		}
	}
}

func (r *Runner) processOne(class string) {
	p := r.plugins[class]
	start := time.Now()
	err := p.Process()
	r.metrics.processLatency.WithLabelValues(class).Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.processErrors.WithLabelValues(class).Inc()
		r.log.WithError(err).WithField("plugin", class).Warn("runner: plugin process failed, continuing")
	}
}
