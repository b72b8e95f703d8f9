package ncip

import (
	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/internal/satcore"
	"github.com/ncip-solver/ncip/problem"
)

// BmcSolver is the interpolation-based bounded model checking engine
// (component C4): it owns one problem.Problem, drives C2/C3 through the
// outer/inner loop of spec.md §4.4, and produces either a witness Model or
// an UNSAT certificate.
type BmcSolver struct {
	interruptFlag

	cfg     *Configuration
	problem *problem.Problem

	global    problem.VariableSet
	protected problem.VariableSet

	initC, transC, targetC problem.Clauses

	// accGraph accumulates every Craig interpolant root extracted across the
	// whole Solve call, always keyed by the ORIGINAL problem's variables
	// (see internal/aig's Rebuild, used when a root is first transplanted
	// out of a step's own throwaway Graph). It, and accRoots, outlive any
	// single outer-loop depth: spec.md's fixed-point checks compare a new
	// root against every one extracted so far, regardless of which depth
	// produced it.
	accGraph *aig.Graph
	accRoots []aig.Edge

	// nextVar is shared by every fresh-variable allocation outside the
	// original problem's own variable space (Tseitin gates from AIG->CNF
	// conversion, the invertable-I encoding's r_I/trigger variables), so
	// none of them collide with each other or with a problem variable.
	nextVar problem.Variable

	fp *fixedPointState
}

// New builds a BmcSolver for p under cfg (a nil cfg uses NewConfiguration's
// defaults). Preprocessing and protected/global-variable computation both
// happen here, once, rather than per outer-loop iteration.
func New(p *problem.Problem, cfg *Configuration) (*BmcSolver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		var err error
		cfg, err = NewConfiguration()
		if err != nil {
			return nil, err
		}
	}

	global := problem.GlobalVariables(p)
	protected := problem.ProtectedVariables(p, global)

	b := &BmcSolver{
		cfg:       cfg,
		problem:   p,
		global:    global,
		protected: protected,
		initC:     satcore.Preprocess(p.Init, p.Variables, protected, cfg.preprocessInit),
		transC:    satcore.Preprocess(p.Trans, p.Variables, protected, cfg.preprocessTrans),
		targetC:   satcore.Preprocess(p.Target, p.Variables, protected, cfg.preprocessTarget),
		accGraph:  aig.New(),
		nextVar:   problem.Variable(p.Variables),
	}

	if cfg.enableFixedPointCheck {
		b.fp = newFixedPointState(b.initC, &b.nextVar)
	}

	if err := cfg.exporter.Problem(p); err != nil {
		return nil, err
	}

	return b, nil
}

func isTriviallyFalse(clauses problem.Clauses) bool {
	for _, c := range clauses {
		if len(c) == 0 {
			return true
		}
	}
	return false
}

// Solve runs the outer/inner loop of spec.md §4.4 to completion (or until
// interrupted, depth-limited, or Craig-limited).
func (b *BmcSolver) Solve() (*Result, error) {
	b.ClearInterrupt()

	if isTriviallyFalse(b.initC) {
		return b.finish(ForCertificate(certificate.ConstantFalse(b.accGraph), 0))
	}
	if isTriviallyFalse(b.targetC) {
		return b.finish(ForCertificate(certificate.ConstantTrue(b.accGraph), 0))
	}

	if b.cfg.enableSanityChecks {
		if err := b.runSanityGates(); err != nil {
			return nil, err
		}
	}

	for k := 0; ; k++ {
		if b.IsInterrupted() {
			return b.finish(ForUserInterrupt(k))
		}
		if k >= b.cfg.maxDepth {
			return b.finish(ForDepthLimit(k))
		}

		plain, err := b.runStep(b.initC, b.transC, b.targetC, k, b.global)
		if err != nil {
			return nil, err
		}
		if plain.sat {
			model, err := b.expand(plain, k)
			if err != nil {
				return nil, err
			}
			return b.finish(ForModel(model, k))
		}

		if !b.cfg.enableCraigInterpolation {
			continue
		}

		result, err := b.craigInnerLoop(k)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return b.finish(result)
		}
	}
}

// craigInnerLoop implements spec.md §4.4 step 2: while UNSAT and depth
// allows it, grow the accumulated interpolant disjunction and re-check the
// SAME B-side at the SAME depth k, watching for a fixed point after every
// new root. It returns a non-nil *Result only when the whole Solve call is
// done (UNSAT via fixed point, or Craig-limit/interrupt); returning (nil,
// nil) means "fall through to PlainBMC(k+1) with the original I0", spec.md
// §4.4 step 2d's "exit inner loop" case.
func (b *BmcSolver) craigInnerLoop(k int) (*Result, error) {
	initRoot := certificate.InitAIG(b.accGraph, b.initC)
	candidateInit := b.initC

	for k+1 < b.cfg.maxDepth {
		if b.IsInterrupted() {
			return ForUserInterrupt(k), nil
		}

		step, err := b.runStep(candidateInit, b.transC, b.targetC, k, b.global)
		if err != nil {
			return nil, err
		}
		if step.sat {
			return nil, nil
		}

		rootAtFrame1, err := b.extractRoot(step)
		if err != nil {
			return nil, err
		}
		if b.cfg.craigClauseCap > 0 {
			var scratch problem.Variable
			_, cnf := b.accGraph.ToCNF(rootAtFrame1, &scratch)
			if len(cnf) > b.cfg.craigClauseCap {
				return ForCraigLimit(k), nil
			}
		}

		rootAtFrame0 := b.accGraph.Shift(rootAtFrame1, -1)
		b.accRoots = append(b.accRoots, rootAtFrame0)

		if b.fp != nil {
			if b.IsInterrupted() {
				return ForUserInterrupt(k), nil
			}
			b.fp.addRoot(b.accGraph, rootAtFrame0, &b.nextVar)
			verdict, err := b.fp.check(&b.nextVar)
			if err != nil {
				return nil, err
			}
			if verdict != noFixedPoint {
				cert, err := b.certificateFromRoots(verdict)
				if err != nil {
					return nil, err
				}
				return ForCertificate(cert, k), nil
			}
		}

		// spec.md §4.4 step 2d: the new A-side is the DISJUNCTION
		// I0 ∨ R_1 ∨ … ∨ R_i, not a conjunction — a Craig interpolant always
		// satisfies I0 ⇒ R_i, so ANDing Tseitin units onto the previous
		// candidateInit would collapse back to (logically) I0 itself and the
		// inner loop would never over-approximate anything. Mirrors
		// _examples/original_source/src/bmc-ncip.cpp's craigRoots/craigTriggers,
		// which seed with invertableInitRoot and push each new craigRoot onto
		// the same disjunctive trigger clause.
		disjunction := b.accGraph.OrMany(append([]aig.Edge{initRoot}, b.accRoots...))
		scratch := b.nextVar
		_, cnf := b.accGraph.ToCNF(disjunction, &scratch)
		b.nextVar = scratch
		candidateInit = cnf
	}
	return nil, nil
}

// extractRoot reads the Craig interpolant out of a failed (UNSAT) inner-loop
// step and transplants it from that step's own throwaway AIG graph into
// b.accGraph, keyed by the original problem's global variables at timeframe
// 1 (the only place a Global-role solver variable and an original variable
// coincide, see step.go's variableMapper).
func (b *BmcSolver) extractRoot(step *stepOutcome) (aig.Edge, error) {
	localEdge, err := step.tracer.Interpolant(b.cfg.selector)
	if err != nil {
		return 0, err
	}
	remap := func(l problem.Literal) problem.Literal {
		orig, ok := step.vm.original(l.Variable())
		if !ok {
			return l
		}
		if l.Negated() {
			return orig.Not()
		}
		return orig
	}
	return b.accGraph.Rebuild(step.graph, localEdge, remap), nil
}

// finish runs the exporter hooks spec.md §6's --export-result/--export-model
// flags describe, then returns result unchanged. result must be non-nil
// (every Result constructor returns a concrete Result, and craigInnerLoop's
// nil "keep looping" value is never passed here); a nil result panics.
func (b *BmcSolver) finish(result *Result) (*Result, error) {
	if err := b.cfg.exporter.Result(result); err != nil {
		return nil, err
	}
	if result.Model != nil {
		if err := b.cfg.exporter.Model(result.Model); err != nil {
			return nil, err
		}
	}
	if result.Certificate != nil {
		if err := b.cfg.exporter.Certificate(result.Certificate); err != nil {
			return nil, err
		}
	}
	return result, nil
}
