// Package ncip implements the interpolation-based bounded model checking
// engine (spec component C4): the outer fixed-point loop that drives the
// interpolating SAT adapter (internal/satcore), reads interpolants out of
// the proof tracer (internal/craig), and hands the result to the
// certificate builder (certificate) or reconstructs a concrete witness
// trace.
//
// Package layout mirrors _teacher_reference/solver's New(options...)/Option
// style: Configuration is built through functional options, and a
// Configuration produces one BmcSolver per problem.Problem.
package ncip

import (
	"github.com/sirupsen/logrus"

	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/internal/craig"
	"github.com/ncip-solver/ncip/internal/satcore"
	"github.com/ncip-solver/ncip/problem"
)

// LogLevel mirrors spec.md §6's `--log` verbosity tiers. Levels beyond Trace
// don't have a logrus.Level equivalent of their own: LogTrace and every
// level above it map to logrus.TraceLevel.
type LogLevel uint8

const (
	LogNone LogLevel = iota
	LogCompetition
	LogMinimal
	LogInfo
	LogDebug
	LogTrace
	LogExtendedTrace
	LogFullTrace
)

func (l LogLevel) logrusLevel() logrus.Level {
	switch {
	case l >= LogTrace:
		return logrus.TraceLevel
	case l == LogDebug:
		return logrus.DebugLevel
	case l == LogInfo:
		return logrus.InfoLevel
	default:
		return logrus.WarnLevel
	}
}

// discardLogger is the default *logrus.Entry used when no logger is
// injected, matching the nil-logger-falls-back-to-discard pattern the
// teacher's controllers use.
var discardLogger = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(noopWriter{})
	return logrus.NewEntry(l)
}()

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Exporter implements spec.md §6's `--export-{problem,result,model,certificate}`
// debug hooks (recovered from original_source's BmcConfiguration, see
// SPEC_FULL.md §3): each method is called with the corresponding artefact
// if and when the engine produces one. A nil Exporter (NullExporter) is a
// no-op.
type Exporter interface {
	Problem(*problem.Problem) error
	Result(*Result) error
	Model(*problem.Model) error
	Certificate(*certificate.Certificate) error
}

// NullExporter discards every artefact.
type NullExporter struct{}

func (NullExporter) Problem(*problem.Problem) error             { return nil }
func (NullExporter) Result(*Result) error                       { return nil }
func (NullExporter) Model(*problem.Model) error                 { return nil }
func (NullExporter) Certificate(*certificate.Certificate) error { return nil }

// Configuration collects every knob spec.md §4.4/§6 exposes. Build one with
// NewConfiguration(options...), then pass it to New(problem, config) to get
// a BmcSolver.
type Configuration struct {
	logger *logrus.Entry
	level  LogLevel

	maxDepth int

	enableCraigInterpolation bool
	enableFixedPointCheck    bool
	enableSanityChecks       bool
	totalTransitionRelation  bool

	selector craig.Selector
	bases    []craig.Base

	preprocessInit   satcore.PreprocessLevel
	preprocessTrans  satcore.PreprocessLevel
	preprocessTarget satcore.PreprocessLevel
	preprocessCraig  satcore.PreprocessLevel

	craigClauseCap int

	exporter Exporter
}

// Option configures a Configuration, matching the teacher's
// solver.Option/solver.New(options...) pattern.
type Option func(*Configuration) error

// NewConfiguration builds a Configuration from options, applying defaults
// for anything not set.
func NewConfiguration(options ...Option) (*Configuration, error) {
	cfg := &Configuration{
		logger:                   discardLogger,
		level:                    LogMinimal,
		maxDepth:                 1000,
		enableCraigInterpolation: true,
		enableFixedPointCheck:    true,
		selector:                 craig.SelectSymmetric,
		preprocessInit:           satcore.PreprocessSimple,
		preprocessTrans:          satcore.PreprocessSimple,
		preprocessTarget:         satcore.PreprocessSimple,
		preprocessCraig:          satcore.PreprocessSimple,
		exporter:                 NullExporter{},
	}
	for _, opt := range options {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func WithLogger(logger *logrus.Entry) Option {
	return func(c *Configuration) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

func WithLogLevel(level LogLevel) Option {
	return func(c *Configuration) error {
		c.level = level
		c.logger = c.logger.Logger.WithField("component", "ncip")
		c.logger.Logger.SetLevel(level.logrusLevel())
		return nil
	}
}

func WithMaxDepth(depth int) Option {
	return func(c *Configuration) error {
		c.maxDepth = depth
		return nil
	}
}

func WithCraigInterpolation(enabled bool) Option {
	return func(c *Configuration) error {
		c.enableCraigInterpolation = enabled
		return nil
	}
}

func WithFixedPointCheck(enabled bool) Option {
	return func(c *Configuration) error {
		c.enableFixedPointCheck = enabled
		return nil
	}
}

func WithSanityChecks(enabled bool) Option {
	return func(c *Configuration) error {
		c.enableSanityChecks = enabled
		return nil
	}
}

func WithTotalTransitionRelation(enabled bool) Option {
	return func(c *Configuration) error {
		c.totalTransitionRelation = enabled
		return nil
	}
}

func WithInterpolantSelector(sel craig.Selector) Option {
	return func(c *Configuration) error {
		c.selector = sel
		return nil
	}
}

// WithCraigBases restricts which of the four construction bases the proof
// tracer computes; the default (no call) computes all four.
func WithCraigBases(bases ...craig.Base) Option {
	return func(c *Configuration) error {
		c.bases = bases
		return nil
	}
}

func WithPreprocessLevels(init, trans, target, craigLevel satcore.PreprocessLevel) Option {
	return func(c *Configuration) error {
		c.preprocessInit = init
		c.preprocessTrans = trans
		c.preprocessTarget = target
		c.preprocessCraig = craigLevel
		return nil
	}
}

// WithCraigClauseCap bounds the clause count of any extracted Craig
// interpolant (spec.md §4.4 step 2a); 0 means unlimited.
func WithCraigClauseCap(cap int) Option {
	return func(c *Configuration) error {
		c.craigClauseCap = cap
		return nil
	}
}

func WithExporter(exporter Exporter) Option {
	return func(c *Configuration) error {
		if exporter != nil {
			c.exporter = exporter
		}
		return nil
	}
}
