package ncip

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/ncip-solver/ncip/problem"
)

// auxSolver wraps a plain github.com/go-air/gini instance for the two roles
// spec.md keeps outside the antecedent-tracked main engine: the sanity
// gates (§4.4 "optional") and the fixed-point-check oracle (§4.4.1). Neither
// role needs proof tracking, only incremental assumption-based solving, so
// this reuses the teacher's own SAT dependency and usage idiom (see
// DESIGN.md) instead of internal/satcore.
type auxSolver struct {
	g    *gini.Gini
	lits map[problem.Literal]z.Lit
}

func newAuxSolver() *auxSolver {
	return &auxSolver{g: gini.New(), lits: make(map[problem.Literal]z.Lit)}
}

// lit returns the gini literal for l, allocating a fresh gini variable on
// first reference to l's variable+timeframe identity. Variable 0 in gini is
// reserved (z.LitNull), so literals are allocated through g.Lit() rather
// than addressed directly, mirroring the teacher's litMapping.
func (a *auxSolver) lit(l problem.Literal) z.Lit {
	key := l.Positive()
	zl, ok := a.lits[key]
	if !ok {
		zl = a.g.Lit()
		a.lits[key] = zl
	}
	if l.Negated() {
		return zl.Not()
	}
	return zl
}

func (a *auxSolver) addClause(c problem.Clause) {
	for _, l := range c {
		a.g.Add(a.lit(l))
	}
	a.g.Add(z.LitNull)
}

func (a *auxSolver) addClauses(cs problem.Clauses) {
	for _, c := range cs {
		a.addClause(c)
	}
}

// solve runs a fresh SAT.Solve() under the given assumptions, each allocated
// a gini literal on demand exactly as addClause does.
func (a *auxSolver) solve(assumptions ...problem.Literal) bool {
	zs := make([]z.Lit, len(assumptions))
	for i, l := range assumptions {
		zs[i] = a.lit(l)
	}
	a.g.Assume(zs...)
	return a.g.Solve() == 1
}

// solveOr tests satisfiability of the disjunction of lits by gating them
// behind one fresh trigger variable minted from nextVar, since Assume only
// expresses a conjunction of unit assumptions directly.
func (a *auxSolver) solveOr(lits []problem.Literal, nextVar *problem.Variable) bool {
	d := *nextVar
	*nextVar++
	trigger := problem.Pos(d)
	clause := append(problem.Clause{trigger.Not()}, lits...)
	a.addClause(clause)
	return a.solve(trigger)
}

func (a *auxSolver) value(l problem.Literal) problem.Assignment {
	positive := a.g.Value(a.lit(l.Positive()))
	if l.Negated() {
		positive = !positive
	}
	if positive {
		return problem.Positive
	}
	return problem.Negative
}
