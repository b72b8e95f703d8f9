package satcore

import (
	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip/problem"
)

const (
	valUnknown int8 = 0
	valTrue    int8 = 1
	valFalse   int8 = 2
)

type storedClause struct {
	id       ClauseID
	literals problem.Clause
	kind     ClauseKind
	side     Side
	external ExternalID
}

type decisionRec struct {
	trailIndex int
	variable   problem.Variable
	otherTried bool
}

// Solver is the adapter's CDCL-style engine: it owns the clause database
// (original and learned), the trail, and conflict analysis, and reports
// every committed clause to a ProofTracer.
type Solver struct {
	tracer ProofTracer

	nextVar problem.Variable
	roles   []Role

	nextClauseID ClauseID
	clauses      []storedClause // indexed by ClauseID-1

	value    []int8
	reason   []ClauseID
	assumed  []bool
	trail    []problem.Variable
	decision []decisionRec

	assumptionFailureID map[problem.Variable]ClauseID
	lastFailed          []problem.Literal
}

// New returns an empty Solver reporting committed clauses to tracer. Pass
// NullTracer{} for solves that don't need interpolants.
func New(tracer ProofTracer) *Solver {
	if tracer == nil {
		tracer = NullTracer{}
	}
	return &Solver{tracer: tracer}
}

// AddVariable allocates a fresh solver variable with the given role.
func (s *Solver) AddVariable(role Role) problem.Variable {
	v := s.nextVar
	s.nextVar++
	s.roles = append(s.roles, role)
	s.value = append(s.value, valUnknown)
	s.reason = append(s.reason, NoClause)
	s.assumed = append(s.assumed, false)
	return v
}

// EnsureVariable grows the solver's bookkeeping so variable v is addressable,
// assigning role to it (and to any variables skipped over) if not already
// present. Used when the caller allocates variable numbers itself (e.g. a
// shared numbering space with an AIG's Tseitin output).
func (s *Solver) EnsureVariable(v problem.Variable, role Role) {
	for s.nextVar <= v {
		s.AddVariable(Role{})
	}
	s.roles[v] = role
}

// RoleOf implements RoleProvider.
func (s *Solver) RoleOf(v problem.Variable) Role { return s.roles[v] }

// SetTracer replaces the solver's proof tracer. It exists because a
// craig.Tracer needs the Solver itself as its RoleProvider, so it can only
// be constructed after the Solver is; callers build the Solver with New(nil),
// construct the tracer around it, then call SetTracer before adding clauses.
func (s *Solver) SetTracer(tracer ProofTracer) {
	if tracer == nil {
		tracer = NullTracer{}
	}
	s.tracer = tracer
}

// AddClause commits an original clause with the given side label and
// external identifier (NoExternalID if it has none), reporting it to the
// tracer, and returns its ClauseID.
func (s *Solver) AddClause(lits problem.Clause, side Side, external ExternalID) ClauseID {
	id := s.commit(storedClause{literals: append(problem.Clause(nil), lits...), kind: KindOriginal, side: side, external: external})
	s.tracer.OnClause(ClauseRecord{ID: id, Kind: KindOriginal, External: external, Side: side, Literals: lits})
	return id
}

// PermanentlyDisableTrigger commits the unit clause {¬trigger} under side,
// modelling a trigger whose batch of gated clauses must never activate
// again.
func (s *Solver) PermanentlyDisableTrigger(trigger problem.Literal, side Side) ClauseID {
	return s.AddClause(problem.Clause{trigger.Not()}, side, NoExternalID)
}

func (s *Solver) commit(c storedClause) ClauseID {
	id := s.allocateID()
	c.id = id
	s.clauses = append(s.clauses, c)
	return id
}

// allocateID reserves a ClauseID without adding anything to the searchable
// clause database, for bookkeeping-only records (assumption-failure leaves)
// that the proof tracer needs a stable identity for but that propagate()
// must never see.
func (s *Solver) allocateID() ClauseID {
	s.nextClauseID++
	return s.nextClauseID
}

func (s *Solver) clauseLiterals(id ClauseID) problem.Clause {
	return s.clauses[id-1].literals
}

// Value reports the current three-valued assignment of a literal.
func (s *Solver) Value(l problem.Literal) problem.Assignment {
	v := s.value[l.Variable()]
	if v == valUnknown {
		return problem.DontCare
	}
	positive := v == valTrue
	if l.Negated() {
		positive = !positive
	}
	if positive {
		return problem.Positive
	}
	return problem.Negative
}

// FailedAssumptions returns the subset of the previous SolveAssumptions
// call's assumptions that participated in the UNSAT core, valid until the
// next SolveAssumptions call.
func (s *Solver) FailedAssumptions() []problem.Literal { return s.lastFailed }

// SolveAssumptions resets the search state and solves the accumulated clause
// database under the given assumption literals. Learned clauses survive
// across calls (they are always valid general clauses, since any assumption
// literal that takes part in one is explicitly negated in it); the trail
// does not.
func (s *Solver) SolveAssumptions(assumptions []problem.Literal) (bool, error) {
	s.resetTrail()
	s.lastFailed = nil
	s.assumptionFailureID = nil

	for _, a := range assumptions {
		if s.value[a.Variable()] != valUnknown {
			// The variable was already assigned by an earlier assumption
			// in this call: skip a consistent duplicate, and report a
			// contradictory one as an error.
			if s.Value(a) == problem.Negative {
				return false, errors.Errorf("satcore: contradictory assumptions on variable %d", a.Variable())
			}
			continue
		}
		s.assign(a, NoClause, true)
	}

	for {
		conflict, hasConflict := s.propagate()
		if hasConflict {
			finalLits, antecedents, pivots, leaves := s.explain(conflict)

			allAssumptions := true
			for _, lf := range leaves {
				if !lf.isAssumption {
					allAssumptions = false
					break
				}
			}
			if allAssumptions {
				s.finalizeUnsat(finalLits, antecedents, pivots, leaves)
				return false, nil
			}

			s.commitLearned(finalLits, antecedents, pivots)
			if !s.backtrackAndFlip() {
				// No free decision left to undo. A non-assumption leaf is
				// always a decision still on the decision stack, so this is
				// unreachable, but guard for safety.
				s.finalizeUnsat(finalLits, antecedents, pivots, leaves)
				return false, nil
			}
			continue
		}

		if v, ok := s.pickUnassigned(); ok {
			s.decideTrue(v)
			continue
		}
		return true, nil
	}
}

func (s *Solver) resetTrail() {
	for _, v := range s.trail {
		s.value[v] = valUnknown
		s.reason[v] = NoClause
		s.assumed[v] = false
	}
	s.trail = s.trail[:0]
	s.decision = s.decision[:0]
}

func (s *Solver) assign(l problem.Literal, reason ClauseID, isAssumption bool) {
	v := l.Variable()
	if l.Negated() {
		s.value[v] = valFalse
	} else {
		s.value[v] = valTrue
	}
	s.reason[v] = reason
	s.assumed[v] = isAssumption
	s.trail = append(s.trail, v)
}

func (s *Solver) decideTrue(v problem.Variable) {
	s.decision = append(s.decision, decisionRec{trailIndex: len(s.trail), variable: v})
	s.assign(problem.Pos(v), NoClause, false)
}

func (s *Solver) pickUnassigned() (problem.Variable, bool) {
	for v := problem.Variable(0); v < s.nextVar; v++ {
		if s.value[v] == valUnknown {
			return v, true
		}
	}
	return 0, false
}

type clauseStatus uint8

const (
	statusUnresolved clauseStatus = iota
	statusSatisfied
	statusUnit
	statusConflict
)

func (s *Solver) status(lits problem.Clause) (clauseStatus, problem.Literal) {
	unassignedCount := 0
	var unassigned problem.Literal
	for _, l := range lits {
		switch s.Value(l) {
		case problem.Positive:
			return statusSatisfied, problem.Literal{}
		case problem.DontCare:
			unassignedCount++
			unassigned = l
		}
	}
	switch unassignedCount {
	case 0:
		return statusConflict, problem.Literal{}
	case 1:
		return statusUnit, unassigned
	default:
		return statusUnresolved, problem.Literal{}
	}
}

// propagate runs unit propagation to a fixed point by repeated full scans of
// the clause database (no watched-literal indexing; see package doc).
func (s *Solver) propagate() (ClauseID, bool) {
	for {
		progressed := false
		for i := range s.clauses {
			c := &s.clauses[i]
			st, unit := s.status(c.literals)
			switch st {
			case statusConflict:
				return c.id, true
			case statusUnit:
				s.assign(unit, c.id, false)
				progressed = true
			}
		}
		if !progressed {
			return NoClause, false
		}
	}
}

type leaf struct {
	variable     problem.Variable
	literal      problem.Literal
	isAssumption bool
}

// explain walks the trail backwards from a conflicting clause, resolving
// away every propagated (reasoned) literal along the way and collecting the
// unreasoned ones (decisions and assumptions) as leaves. It implements the
// "mark literals of the conflicting clause, then resolve on any literal
// whose complement is marked" procedure, generalized to run to completion
// (no 1-UIP early stop) since clause-learning depth is out of scope here.
func (s *Solver) explain(conflict ClauseID) (problem.Clause, []ClauseID, []problem.Variable, []leaf) {
	marked := make(map[problem.Variable]bool)
	mark := func(lits problem.Clause) {
		for _, l := range lits {
			marked[l.Variable()] = true
		}
	}
	mark(s.clauseLiterals(conflict))

	antecedents := []ClauseID{conflict}
	var pivots []problem.Variable
	var finalLits problem.Clause
	var leaves []leaf

	for i := len(s.trail) - 1; i >= 0; i-- {
		v := s.trail[i]
		if !marked[v] {
			continue
		}
		delete(marked, v)
		r := s.reason[v]
		if r == NoClause {
			lit := s.assertedLiteral(v).Not()
			finalLits = append(finalLits, lit)
			leaves = append(leaves, leaf{variable: v, literal: lit, isAssumption: s.assumed[v]})
			continue
		}
		antecedents = append(antecedents, r)
		pivots = append(pivots, v)
		mark(s.clauseLiterals(r))
	}
	return finalLits, antecedents, pivots, leaves
}

func (s *Solver) assertedLiteral(v problem.Variable) problem.Literal {
	return problem.Lit(v, s.value[v] == valFalse)
}

func (s *Solver) commitLearned(lits problem.Clause, antecedents []ClauseID, pivots []problem.Variable) ClauseID {
	id := s.commit(storedClause{literals: lits, kind: KindLearned})
	s.tracer.OnClause(ClauseRecord{
		ID: id, Kind: KindLearned, External: NoExternalID,
		Literals: lits, Antecedents: antecedents, Pivots: pivots,
	})
	return id
}

// finalizeUnsat folds every assumption leaf into the resolution chain as a
// synthetic KindAssumptionFailure leaf (memoized per variable, and never
// added to the searchable clause database: it stands in for an assumption,
// not a real clause), then commits finalLits — the disjunction of the
// negated assumption literals — as an ordinary, permanently valid learned
// clause (it is sound regardless of what a future call assumes), and
// records FailedAssumptions.
func (s *Solver) finalizeUnsat(finalLits problem.Clause, antecedents []ClauseID, pivots []problem.Variable, leaves []leaf) {
	if s.assumptionFailureID == nil {
		s.assumptionFailureID = make(map[problem.Variable]ClauseID)
	}
	for _, lf := range leaves {
		id, ok := s.assumptionFailureID[lf.variable]
		if !ok {
			id = s.allocateID()
			s.assumptionFailureID[lf.variable] = id
			s.tracer.OnClause(ClauseRecord{
				ID: id, Kind: KindAssumptionFailure, External: NoExternalID,
				AssumedVar: lf.variable, Literals: problem.Clause{lf.literal.Not()},
			})
		}
		antecedents = append(antecedents, id)
		pivots = append(pivots, lf.variable)
		s.lastFailed = append(s.lastFailed, lf.literal.Not())
	}
	s.commitLearned(finalLits, antecedents, pivots)
}

// backtrackAndFlip pops the most recent free decision and undoes the trail
// back to it. Every literal of the clause just committed by commitLearned
// negates a decision or assumption, so the next propagate() pass either
// derives the flipped decision from that clause (with it as the reason) or,
// when the popped decision is not in it, reports a conflict again. It
// returns false when there is no decision left to pop.
func (s *Solver) backtrackAndFlip() bool {
	if len(s.decision) == 0 {
		return false
	}
	top := s.decision[len(s.decision)-1]
	s.undoTo(top.trailIndex)
	s.decision = s.decision[:len(s.decision)-1]
	return true
}

func (s *Solver) undoTo(trailIndex int) {
	for i := len(s.trail) - 1; i >= trailIndex; i-- {
		v := s.trail[i]
		s.value[v] = valUnknown
		s.reason[v] = NoClause
		s.assumed[v] = false
	}
	s.trail = s.trail[:trailIndex]
}
