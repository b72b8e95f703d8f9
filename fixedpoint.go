package ncip

import (
	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/problem"
)

// fixedPointState is the "separate SAT instance holding a copy of I in
// invertable form plus every R_j root" spec.md §4.4.1 describes. It lives
// for the whole Solve call, accumulating one representative literal per
// Craig interpolant root the outer loop extracts.
type fixedPointState struct {
	solver *auxSolver
	rI     problem.Literal
	roots  []problem.Literal
}

// newFixedPointState builds the invertable-I encoding of spec.md §4.4: a
// fresh root r_I with, per clause C_i of init, the forward implication
// (¬r_I ∨ C_i) and, via a per-clause trigger t_i, the reverse implication
// r_I ∨ t_1 ∨ … ∨ t_k together with ¬t_i ∨ ¬ℓ for every literal ℓ of C_i.
// Together these pin r_I to exactly the truth value of I(s) for whatever
// state s the solver is holding, without re-encoding I from scratch every
// time a fixed-point query needs to toggle it on or off.
func newFixedPointState(initClauses problem.Clauses, nextVar *problem.Variable) *fixedPointState {
	s := newAuxSolver()
	rIVar := *nextVar
	*nextVar++
	rI := problem.Pos(rIVar)

	triggers := make([]problem.Literal, len(initClauses))
	for i, c := range initClauses {
		tVar := *nextVar
		*nextVar++
		t := problem.Pos(tVar)
		triggers[i] = t

		forward := append(problem.Clause{rI.Not()}, c...)
		s.addClause(forward)

		for _, l := range c {
			s.addClause(problem.Clause{t.Not(), l.Not()})
		}
	}
	reverse := append(problem.Clause{rI}, triggers...)
	s.addClause(reverse)

	return &fixedPointState{solver: s, rI: rI}
}

// edgeLiteral returns a literal in fp's solver whose truth value always
// equals edge's, minting fresh variables from nextVar as needed: a constant
// edge gets a literal pinned by a standing unit clause, and a non-constant
// edge is transplanted via Tseitin conversion with its own forced-true unit
// clause dropped (ToCNF's biconditional-defining clauses already pin the
// root's representative variable to the sub-circuit's value on their own;
// only the final "assert it true" clause needs to go).
func (fp *fixedPointState) edgeLiteral(g *aig.Graph, edge aig.Edge, nextVar *problem.Variable) problem.Literal {
	if edge == aig.True || edge == aig.False {
		v := *nextVar
		*nextVar++
		fp.solver.addClause(problem.Clause{problem.Pos(v)})
		if edge == aig.True {
			return problem.Pos(v)
		}
		return problem.Neg(v)
	}

	_, clauses := g.ToCNF(edge, nextVar)
	defining, unit := clauses[:len(clauses)-1], clauses[len(clauses)-1]
	fp.solver.addClauses(defining)
	return unit[0]
}

// addRoot registers a newly extracted interpolant root and returns its
// representative literal, appending it to the accumulated list used by the
// three checks below.
func (fp *fixedPointState) addRoot(g *aig.Graph, edge aig.Edge, nextVar *problem.Variable) problem.Literal {
	lit := fp.edgeLiteral(g, edge, nextVar)
	fp.roots = append(fp.roots, lit)
	return lit
}

// fixedPointVerdict names which of spec.md §4.4.1's three conditions fired,
// if any.
type fixedPointVerdict uint8

const (
	noFixedPoint fixedPointVerdict = iota
	constantTrueFixedPoint
	constantFalseFixedPoint
	progressFixedPoint
)

// check runs the three fixed-point tests against the roots accumulated so
// far (spec.md §4.4.1). The newest root must already have been appended via
// addRoot before calling check for it.
func (fp *fixedPointState) check(nextVar *problem.Variable) (fixedPointVerdict, error) {
	if len(fp.roots) == 0 {
		return noFixedPoint, nil
	}

	negated := make([]problem.Literal, len(fp.roots))
	for i, r := range fp.roots {
		negated[i] = r.Not()
	}
	if sat := fp.solver.solve(negated...); !sat {
		return constantTrueFixedPoint, nil
	}

	if sat := fp.solver.solveOr(fp.roots, nextVar); !sat {
		return constantFalseFixedPoint, nil
	}

	if len(fp.roots) > 1 {
		newest := fp.roots[len(fp.roots)-1]
		assumptions := append([]problem.Literal{newest}, negated[:len(negated)-1]...)
		if sat := fp.solver.solve(assumptions...); !sat {
			return progressFixedPoint, nil
		}
	}

	return noFixedPoint, nil
}

// certificateFromRoots builds the final UNSAT certificate once a fixed-point
// verdict has fired: constant-TRUE/constant-FALSE use the trivial
// certificates, and Progress uses I(s) together with every accumulated
// root, already in problem-variable space (accGraph's leaves are always
// original problem variables, see bmc.go's accGraph field doc).
func (b *BmcSolver) certificateFromRoots(verdict fixedPointVerdict) (*certificate.Certificate, error) {
	switch verdict {
	case constantTrueFixedPoint:
		return certificate.ConstantTrue(b.accGraph), nil
	case constantFalseFixedPoint:
		return certificate.ConstantFalse(b.accGraph), nil
	case progressFixedPoint:
		return certificate.FromCraig(b.accGraph, b.initC, b.accRoots...), nil
	default:
		return nil, errors.New("ncip: certificateFromRoots called with no fixed-point verdict")
	}
}
