package aig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncip-solver/ncip/problem"
)

func TestAndIsCommutativeAndIdempotent(t *testing.T) {
	g := New()
	a := g.Literal(problem.Pos(0))
	b := g.Literal(problem.Pos(1))

	assert.Equal(t, g.And(a, b), g.And(b, a))
	assert.Equal(t, a, g.And(a, a))
}

func TestAndConstantFolding(t *testing.T) {
	g := New()
	a := g.Literal(problem.Pos(0))

	assert.Equal(t, False, g.And(a, False))
	assert.Equal(t, False, g.And(a, Not(a)))
	assert.Equal(t, True, g.And(True, True))
	assert.Equal(t, a, g.And(True, a))
	assert.Equal(t, a, g.And(a, True))
}

func TestLiteralHashConsing(t *testing.T) {
	g := New()
	a1 := g.Literal(problem.Pos(0))
	a2 := g.Literal(problem.Pos(0))
	na := g.Literal(problem.Neg(0))
	assert.Equal(t, a1, a2)
	assert.Equal(t, Not(a1), na)
}

func TestAndManyEmptyIsTrue(t *testing.T) {
	g := New()
	assert.Equal(t, True, g.AndMany(nil))
}

func TestOrIsDeMorganDual(t *testing.T) {
	g := New()
	a := g.Literal(problem.Pos(0))
	b := g.Literal(problem.Pos(1))
	assert.Equal(t, g.Or(a, b), Not(g.And(Not(a), Not(b))))
}

func TestToCNFConstants(t *testing.T) {
	g := New()
	var next problem.Variable = 10

	typ, clauses := g.ToCNF(True, &next)
	assert.Equal(t, CNFConstant1, typ)
	assert.Empty(t, clauses)

	typ, clauses = g.ToCNF(False, &next)
	assert.Equal(t, CNFConstant0, typ)
	assert.Equal(t, problem.Clauses{{}}, clauses)

	assert.EqualValues(t, 10, next, "constants never allocate a Tseitin variable")
}

func TestToCNFSingleLiteralNeedsNoFreshVariable(t *testing.T) {
	g := New()
	l := problem.Pos(3)
	root := g.Literal(l)
	var next problem.Variable = 10

	typ, clauses := g.ToCNF(root, &next)
	require.Equal(t, CNFNormal, typ)
	require.Len(t, clauses, 1)
	assert.Equal(t, problem.Clause{l}, clauses[0])
	assert.EqualValues(t, 10, next)

	typ, clauses = g.ToCNF(Not(root), &next)
	require.Equal(t, CNFNormal, typ)
	assert.Equal(t, problem.Clause{l.Not()}, clauses[0])
}

// evalAig evaluates the circuit rooted at e directly under the given input
// assignment, used to check Tseitin output against the original AIG by
// comparing this value with the clause set's value under the derived model.
func evalAig(g *Graph, e Edge, vals map[problem.Variable]bool) bool {
	if e == True {
		return true
	}
	if e == False {
		return false
	}
	idx := nodeIndex(e)
	n := g.nodes[idx]
	var v bool
	if n.kind == kindVar {
		v = vals[n.lit.Variable()]
	} else {
		v = evalAig(g, n.l, vals) && evalAig(g, n.r, vals)
	}
	if isInverted(e) {
		return !v
	}
	return v
}

func clausesSatisfied(clauses problem.Clauses, vals map[problem.Variable]bool) bool {
	for _, c := range clauses {
		sat := false
		for _, l := range c {
			v := vals[l.Variable()]
			if l.Negated() {
				v = !v
			}
			if v {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

// unitPropagate is a tiny fixed-point unit-propagation solver: given a
// partial assignment it repeatedly satisfies unit clauses until no new
// variable is forced. Tseitin output is Horn-like enough (every gate's value
// is fully forced by its inputs) that, starting from a full input
// assignment, propagation alone determines every Tseitin variable and
// reaches either a full model or a conflict.
func unitPropagate(clauses problem.Clauses, vals map[problem.Variable]bool) (model map[problem.Variable]bool, ok bool) {
	model = make(map[problem.Variable]bool, len(vals))
	for k, v := range vals {
		model[k] = v
	}
	for {
		changed := false
		for _, c := range clauses {
			unassigned := -1
			satisfied := false
			for i, l := range c {
				v, known := model[l.Variable()]
				if !known {
					if unassigned >= 0 {
						unassigned = -2 // more than one unassigned literal
						break
					}
					unassigned = i
					continue
				}
				if v != l.Negated() {
					satisfied = true
					break
				}
			}
			if satisfied {
				continue
			}
			if unassigned == -1 {
				return nil, false // empty/falsified clause: conflict
			}
			if unassigned >= 0 {
				l := c[unassigned]
				model[l.Variable()] = !l.Negated()
				changed = true
			}
		}
		if !changed {
			return model, true
		}
	}
}

func TestToCNFRoundTripsUnderAllAssignments(t *testing.T) {
	g := New()
	a := g.Literal(problem.Pos(0))
	b := g.Literal(problem.Pos(1))
	c := g.Literal(problem.Pos(2))
	root := g.Or(g.And(a, b), Not(c))

	var next problem.Variable = 3
	typ, clauses := g.ToCNF(root, &next)
	require.Equal(t, CNFNormal, typ)

	for mask := 0; mask < 8; mask++ {
		vals := map[problem.Variable]bool{
			0: mask&1 != 0,
			1: mask&2 != 0,
			2: mask&4 != 0,
		}
		aigVal := evalAig(g, root, vals)

		// The last clause is the root's unit; propagate only the gate
		// definitions, then check the whole clause set against the AIG.
		model, ok := unitPropagate(clauses[:len(clauses)-1], vals)
		require.True(t, ok, "propagation must not conflict on a fixed input assignment, mask=%d", mask)
		assert.Equal(t, aigVal, clausesSatisfied(clauses, model), "mask=%d", mask)
	}
}
