// Package metrics instruments a BmcSolver run with Prometheus collectors,
// grounded on _teacher_reference/metrics/metrics.go's gauge/counter
// registration pattern (package-level collector vars, a Register() that
// MustRegisters them all, and small reporting types that update them from
// whatever domain event just happened).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ncip-solver/ncip"
	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/problem"
)

// To add new metrics:
// 1. Register new metrics in Register() below.
// 2. Update them from Exporter's methods (or elsewhere, for metrics no
//    Exporter hook can see).
var (
	depthReached = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ncip_depth_reached",
			Help: "Bounded unrolling depth the most recent Solve call reached",
		},
	)

	resultCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncip_result_count",
			Help: "Number of Solve calls completed, by outcome status",
		},
		[]string{"status"},
	)

	craigRootCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ncip_craig_root_count",
			Help: "Number of accumulated Craig interpolant roots in the most recent UNSAT certificate",
		},
	)

	certificateClauseCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ncip_certificate_clause_count",
			Help: "CNF clause count of the most recent certificate's invariant, Tseitin-converted",
		},
	)

	solveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ncip_solve_duration_seconds",
			Help:    "Wall-clock duration of a Solve call",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)
)

// Register adds every collector above to the default Prometheus registry.
func Register() {
	prometheus.MustRegister(depthReached)
	prometheus.MustRegister(resultCount)
	prometheus.MustRegister(craigRootCount)
	prometheus.MustRegister(certificateClauseCount)
	prometheus.MustRegister(solveDuration)
}

// Exporter decorates an ncip.Exporter with metric updates, so a
// Configuration can be built with WithExporter(metrics.Wrap(inner)) and get
// both behaviors without the engine itself needing to know metrics exist.
type Exporter struct {
	inner ncip.Exporter
	start time.Time
}

// Wrap returns an ncip.Exporter that updates this package's collectors on
// every Result/Certificate callback, then delegates to inner (NullExporter
// if inner is nil).
func Wrap(inner ncip.Exporter) *Exporter {
	if inner == nil {
		inner = ncip.NullExporter{}
	}
	return &Exporter{inner: inner, start: timeNow()}
}

// timeNow keeps this package's calls to time.Now in one place;
// Solve's own duration is measured end-to-end across the whole call, not
// per-iteration, so wall-clock time (not the Date.now-style deterministic
// clock this module's test helpers avoid) is appropriate here.
func timeNow() time.Time { return time.Now() }

func (e *Exporter) Problem(p *problem.Problem) error {
	e.start = timeNow()
	return e.inner.Problem(p)
}

func (e *Exporter) Result(r *ncip.Result) error {
	solveDuration.Observe(timeNow().Sub(e.start).Seconds())
	depthReached.Set(float64(r.Depth))
	resultCount.WithLabelValues(r.Status.String()).Inc()
	return e.inner.Result(r)
}

func (e *Exporter) Model(m *problem.Model) error {
	return e.inner.Model(m)
}

func (e *Exporter) Certificate(c *certificate.Certificate) error {
	craigRootCount.Set(float64(len(c.Roots)))
	var nextVar problem.Variable
	_, clauses := c.ToCNF(&nextVar)
	certificateClauseCount.Set(float64(len(clauses)))
	return e.inner.Certificate(c)
}
