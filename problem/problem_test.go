package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProblemValid(t *testing.T) {
	p, err := NewProblem(1,
		Clauses{{Pos(0)}},
		Clauses{{Neg(0).Shift(1)}},
		Clauses{{Pos(0)}},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Variables)
}

func TestNewProblemRejectsOutOfRangeVariable(t *testing.T) {
	_, err := NewProblem(1, Clauses{{Pos(5)}}, nil, nil)
	require.Error(t, err)
	var cerr *ConstructionError
	assert.ErrorAs(t, err, &cerr)
}

func TestNewProblemRejectsBadTimeframeInInit(t *testing.T) {
	_, err := NewProblem(1, Clauses{{Pos(0).Shift(1)}}, nil, nil)
	require.Error(t, err)
}

func TestNewProblemRejectsBadTimeframeInTrans(t *testing.T) {
	_, err := NewProblem(1, nil, Clauses{{Pos(0).Shift(2)}}, nil)
	require.Error(t, err)
}

func TestLiteralShiftIsAdditive(t *testing.T) {
	l := Pos(3)
	assert.Equal(t, l, l.Shift(0))
	assert.Equal(t, l.Shift(5), l.Shift(2).Shift(3))
}

func TestLiteralNotIsInvolution(t *testing.T) {
	l := Neg(7).Shift(2)
	assert.Equal(t, l, l.Not().Not())
	assert.NotEqual(t, l, l.Not())
}
