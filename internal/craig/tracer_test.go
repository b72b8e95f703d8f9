package craig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/internal/satcore"
	"github.com/ncip-solver/ncip/problem"
)

// fakeRoles lets tests assign roles directly without a real Solver.
type fakeRoles map[problem.Variable]satcore.Role

func (f fakeRoles) RoleOf(v problem.Variable) satcore.Role { return f[v] }

// Two unit clauses over a single A-local variable: {v} labelled A, {¬v}
// labelled B. The symmetric base of an A clause is FALSE and of a B clause
// is TRUE, so resolving them on an A-local pivot ORs the two: FALSE ∨ TRUE =
// TRUE, the tautology — matching spec.md §8 property 4's flavor (disjoint
// global sets ⇒ interpolant mentions only shared/global variables; here
// there are none, so the interpolant collapses to a constant).
func TestResolventOnALocalPivotMatchesTable(t *testing.T) {
	g := aig.New()
	roles := fakeRoles{0: {Side: satcore.ASide}}
	tr := NewTracer(g, roles)

	tr.OnClause(satcore.ClauseRecord{ID: 1, Kind: satcore.KindOriginal, Side: satcore.ASide, Literals: problem.Clause{problem.Pos(0)}})
	tr.OnClause(satcore.ClauseRecord{ID: 2, Kind: satcore.KindOriginal, Side: satcore.BSide, Literals: problem.Clause{problem.Neg(0)}})
	tr.OnClause(satcore.ClauseRecord{
		ID: 3, Kind: satcore.KindLearned, Literals: nil,
		Antecedents: []satcore.ClauseID{2, 1}, Pivots: []problem.Variable{0},
	})

	e, err := tr.Interpolant(SelectSymmetric)
	require.NoError(t, err)
	assert.Equal(t, aig.True, e)
}

// A global pivot variable exercises the asymmetric rule's global-pivot case,
// which always produces And(I1, I2) regardless of polarity — here both
// antecedents are original A clauses so I1 and I2 are their asymmetric A
// bases (the OR of each clause's global literals), and their conjunction
// And(x0, ¬x0) folds to constant False.
func TestResolventOnGlobalPivotUsesAsymmetricConjunction(t *testing.T) {
	g := aig.New()
	roles := fakeRoles{0: {Side: satcore.ASide, Global: true}, 1: {Side: satcore.ASide}}
	tr := NewTracer(g, roles, Asymmetric)

	tr.OnClause(satcore.ClauseRecord{ID: 1, Kind: satcore.KindOriginal, Side: satcore.ASide, Literals: problem.Clause{problem.Pos(0), problem.Pos(1)}})
	tr.OnClause(satcore.ClauseRecord{ID: 2, Kind: satcore.KindOriginal, Side: satcore.ASide, Literals: problem.Clause{problem.Neg(0)}})
	tr.OnClause(satcore.ClauseRecord{
		ID: 3, Kind: satcore.KindLearned, Literals: problem.Clause{problem.Pos(1)},
		Antecedents: []satcore.ClauseID{2, 1}, Pivots: []problem.Variable{0},
	})

	e, err := tr.Interpolant(SelectAsymmetric)
	require.NoError(t, err)
	// clause1's asymmetric base is the OR of its global literals: just x0.
	// clause2's is the OR of its (single) global literal: ¬x0. The global-
	// pivot asymmetric rule is And(I1, I2) regardless of polarity, so the
	// result is And(x0, ¬x0) — the pivot variable's own contradiction.
	assert.Equal(t, aig.False, e)
}

// A failed-assumption leaf classified Global gets the final-interpolant
// table's Global row, not a side-based original-clause row.
func TestFinalInterpolantUsesRoleTable(t *testing.T) {
	g := aig.New()
	roles := fakeRoles{0: {Global: true}}
	tr := NewTracer(g, roles)

	tr.OnClause(satcore.ClauseRecord{ID: 1, Kind: satcore.KindAssumptionFailure, AssumedVar: 0, Literals: problem.Clause{problem.Neg(0)}})

	e, err := tr.Interpolant(SelectDualAsymmetric)
	require.NoError(t, err)
	assert.Equal(t, aig.False, e)

	e, err = tr.Interpolant(SelectSymmetric)
	require.NoError(t, err)
	assert.Equal(t, aig.True, e)
}

func TestInterpolantErrorsBeforeAnyClause(t *testing.T) {
	tr := NewTracer(aig.New(), fakeRoles{})
	_, err := tr.Interpolant(SelectUnion)
	assert.Error(t, err)
}

func TestDisabledBaseDefaultsToTrue(t *testing.T) {
	g := aig.New()
	roles := fakeRoles{0: {Side: satcore.ASide}}
	tr := NewTracer(g, roles, Symmetric) // only Symmetric enabled

	tr.OnClause(satcore.ClauseRecord{ID: 1, Kind: satcore.KindOriginal, Side: satcore.ASide, Literals: problem.Clause{problem.Pos(0)}})

	e, err := tr.Interpolant(SelectAsymmetric)
	require.NoError(t, err)
	assert.Equal(t, aig.True, e)
}

func TestLabelPropagationDisagreementYieldsL(t *testing.T) {
	g := aig.New()
	roles := fakeRoles{0: {Side: satcore.BSide}}
	tr := NewTracer(g, roles)

	tr.OnClause(satcore.ClauseRecord{ID: 1, Kind: satcore.KindOriginal, Side: satcore.ASide, Literals: problem.Clause{problem.Pos(0)}})
	tr.OnClause(satcore.ClauseRecord{ID: 2, Kind: satcore.KindOriginal, Side: satcore.BSide, Literals: problem.Clause{problem.Neg(0)}})
	tr.OnClause(satcore.ClauseRecord{
		ID: 3, Kind: satcore.KindLearned, Literals: nil,
		Antecedents: []satcore.ClauseID{2, 1}, Pivots: []problem.Variable{0},
	})

	assert.Equal(t, LabelL, tr.records[3].label)
}
