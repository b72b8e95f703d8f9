package aig

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ncip-solver/ncip/problem"
)

func TestShiftMovesLeafTimeframes(t *testing.T) {
	g := New()
	root := g.And(g.Literal(problem.Pos(0).Shift(1)), g.Literal(problem.Neg(1).Shift(1)))

	shifted := g.Shift(root, -1)

	want := g.And(g.Literal(problem.Pos(0)), g.Literal(problem.Neg(1)))
	assert.Equal(t, want, shifted)
}

func TestShiftByZeroIsIdentity(t *testing.T) {
	g := New()
	root := g.Or(g.Literal(problem.Pos(0)), g.Literal(problem.Pos(1)))
	assert.Equal(t, root, g.Shift(root, 0))
}

func TestShiftPreservesConstants(t *testing.T) {
	g := New()
	assert.Equal(t, True, g.Shift(True, 3))
	assert.Equal(t, False, g.Shift(False, -2))
}

func TestLiteralsCollectsLeaves(t *testing.T) {
	g := New()
	root := g.And(g.Literal(problem.Pos(0)), g.Literal(problem.Neg(1)))
	lits := g.Literals(root)
	assert.ElementsMatch(t, []problem.Literal{problem.Pos(0), problem.Pos(1)}, lits)
}
