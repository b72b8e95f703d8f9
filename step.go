package ncip

import (
	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/internal/craig"
	"github.com/ncip-solver/ncip/internal/satcore"
	"github.com/ncip-solver/ncip/problem"
)

// variableMapper assigns each (original variable, timeframe) pair its own
// satcore.Solver variable the first time it's referenced, classifying it
// Global the moment it's spotted at timeframe 1 — the only timeframe the
// A/T0→1 clauses and the B side's first transition ever share, per spec.md
// §4.2's "a global variable is promoted ... only when it appears at
// timeframe 1 on the A/B boundary".
type variableMapper struct {
	solver *satcore.Solver
	global problem.VariableSet
	ids    map[problem.Literal]problem.Variable
	orig   map[problem.Variable]problem.Literal
}

func newVariableMapper(s *satcore.Solver, global problem.VariableSet) *variableMapper {
	return &variableMapper{
		solver: s,
		global: global,
		ids:    make(map[problem.Literal]problem.Variable),
		orig:   make(map[problem.Variable]problem.Literal),
	}
}

func (m *variableMapper) solverVar(key problem.Literal, side satcore.Side) problem.Variable {
	if id, ok := m.ids[key]; ok {
		return id
	}
	role := satcore.Role{Side: side}
	if m.global.Has(key.Variable()) && key.Timeframe() == 1 {
		role = satcore.Role{Global: true}
	}
	id := m.solver.AddVariable(role)
	m.ids[key] = id
	m.orig[id] = key
	return id
}

// original returns the (problem variable, timeframe) pair a solver variable
// was allocated for. Only meaningful for variables minted through this
// mapper; used to transplant a Craig interpolant (built over solver
// variable ids) back onto the problem's own global variables.
func (m *variableMapper) original(v problem.Variable) (problem.Literal, bool) {
	l, ok := m.orig[v]
	return l, ok
}

func (m *variableMapper) lit(l problem.Literal, side satcore.Side) problem.Literal {
	id := m.solverVar(l.Positive(), side)
	return problem.Lit(id, l.Negated())
}

func (m *variableMapper) addClause(c problem.Clause, shift int32, side satcore.Side, external satcore.ExternalID) {
	mapped := make(problem.Clause, len(c))
	for i, l := range c {
		mapped[i] = m.lit(l.Shift(shift), side)
	}
	m.solver.AddClause(mapped, side, external)
}

// shiftTemplate moves a timeframe-{0,1} transition clause so its "current
// state" half lands at from and its "next state" half lands at to, rather
// than at consecutive frames — used by the total-transition-relation mode
// (SPEC_FULL.md §3) to connect non-adjacent frontier frames directly.
func shiftTemplate(c problem.Clause, from, to int32) problem.Clause {
	out := make(problem.Clause, len(c))
	for i, l := range c {
		if l.Timeframe() == 0 {
			out[i] = l.AtTimeframe(from)
		} else {
			out[i] = l.AtTimeframe(to)
		}
	}
	return out
}

// stepOutcome is the result of one satcore solve attempting to show a bad
// state is reachable using initCNF as the candidate initial-state predicate.
type stepOutcome struct {
	sat    bool
	solver *satcore.Solver
	tracer *craig.Tracer
	vm     *variableMapper
	graph  *aig.Graph
}

// buildStep constructs a fresh satcore.Solver (and its craig.Tracer) for a
// single BMC check, without solving it: initCNF at frame 0, trans activated
// frame-to-frame up to k, and target activated only at the frontier frame k
// (spec.md §4.4 step 1's "forbid P at lower depths" — depths below k were
// already ruled out by earlier outer-loop iterations, so only the frontier
// needs checking). The A/B partition always falls at the first transition
// (frame 0→1), matching spec.md §4.2's clause-type table and letting the
// Craig inner loop re-run this same step with only initCNF replaced
// (spec.md §4.4 step 2d).
//
// A fresh Solver is built per step rather than incrementally reusing one
// across depths/iterations (the trigger/PermanentlyDisableTrigger machinery
// in internal/satcore exists for exactly that reuse, but this engine
// doesn't exploit it — see DESIGN.md): simpler and still correct, at the
// cost of re-deriving unit propagation already done in a previous step.
func (b *BmcSolver) buildStep(initCNF, trans, target problem.Clauses, k int, global problem.VariableSet) (*satcore.Solver, *variableMapper, *craig.Tracer, *aig.Graph) {
	graph := aig.New()
	s := satcore.New(nil)
	tracer := craig.NewTracer(graph, s, b.cfg.bases...)
	s.SetTracer(tracer)

	vm := newVariableMapper(s, global)
	var nextExternal satcore.ExternalID

	use := func(c problem.Clause, shift int32, side satcore.Side) {
		vm.addClause(c, shift, side, nextExternal)
		nextExternal++
	}

	for _, c := range initCNF {
		use(c, 0, satcore.ASide)
	}
	for _, c := range trans {
		use(c, 0, satcore.ASide)
	}

	if b.cfg.totalTransitionRelation {
		for i := 0; i < k; i++ {
			for j := i + 1; j <= k; j++ {
				if i == 0 && j == 1 {
					continue
				}
				side := satcore.BSide
				for _, c := range trans {
					vm.addClause(shiftTemplate(c, int32(i), int32(j)), 0, side, nextExternal)
					nextExternal++
				}
			}
		}
	} else {
		for i := 1; i < k; i++ {
			for _, c := range trans {
				use(c, int32(i), satcore.BSide)
			}
		}
	}

	targetSide := satcore.ASide
	if k > 0 {
		targetSide = satcore.BSide
	}
	for _, c := range target {
		use(c, int32(k), targetSide)
	}

	return s, vm, tracer, graph
}

// runStep builds a step and solves it with no extra assumptions, the shape
// the outer loop's plain-BMC and Craig-inner-loop checks both need.
func (b *BmcSolver) runStep(initCNF, trans, target problem.Clauses, k int, global problem.VariableSet) (*stepOutcome, error) {
	s, vm, tracer, graph := b.buildStep(initCNF, trans, target, k, global)
	sat, err := s.SolveAssumptions(nil)
	if err != nil {
		return nil, err
	}
	return &stepOutcome{sat: sat, solver: s, tracer: tracer, vm: vm, graph: graph}, nil
}
