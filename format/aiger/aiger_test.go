package aiger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncip-solver/ncip/problem"
)

// A single toggling latch (next = ¬latch, reset = 0) whose bad output is
// ¬latch: the bad condition already holds at depth 0, mirroring ncip's own
// trivial-unreachable scenario but built from AIGER's node numbering
// (latch literal 2 is problem variable 1, since variable 0 is reserved for
// TrueVar) instead of hand-picked clauses.
const toggleLatchAIG = "aag 1 0 1 0 0 1\n2 3\n3\n"

func TestParseTogglingLatchWithBadAlreadyTrue(t *testing.T) {
	ap, bp, err := Parse(strings.NewReader(toggleLatchAIG))
	require.NoError(t, err)

	require.Len(t, ap.Latches, 1)
	assert.Equal(t, uint64(2), ap.Latches[0])
	assert.Equal(t, problem.Variable(1), ap.LatchVars[0])
	assert.Equal(t, uint64(3), ap.LatchNext[2])
	assert.Equal(t, uint64(0), ap.LatchReset[2])
	assert.Equal(t, problem.Variable(0), ap.TrueVar)

	require.Equal(t, 2, bp.Variables)
	assert.Contains(t, bp.Init, problem.Clause{problem.Pos(0)})
	assert.Contains(t, bp.Init, problem.Clause{problem.Neg(1)})

	assert.Contains(t, bp.Trans, problem.Clause{problem.Neg(1).Shift(1), problem.Neg(1)})
	assert.Contains(t, bp.Trans, problem.Clause{problem.Pos(1).Shift(1), problem.Pos(1)})

	require.Len(t, bp.Target, 2)
	assert.Contains(t, bp.Target, problem.Clause{problem.Pos(0)})
	assert.Contains(t, bp.Target, problem.Clause{problem.Neg(1)})
	assert.Equal(t, problem.Neg(1), ap.BadLiteral)
}

func TestParseRejectsJusticeConstraints(t *testing.T) {
	const src = "aag 0 0 0 0 0 0 0 1 0\n0\n"
	_, _, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "justice/fairness")
}

func TestParseRejectsMissingBadAndOutput(t *testing.T) {
	const src = "aag 0 0 0 0 0\n"
	_, _, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad or output")
}

func TestExportModelReportsLatchAndInputTraces(t *testing.T) {
	ap, _, err := Parse(strings.NewReader(toggleLatchAIG))
	require.NoError(t, err)

	model := &problem.Model{Timeframes: []problem.Timeframe{
		{problem.Positive, problem.Negative},
		{problem.Positive, problem.Negative},
	}}

	var buf strings.Builder
	require.NoError(t, ExportModel(&buf, ap, model))

	lines := strings.Split(buf.String(), "\n")
	require.True(t, len(lines) >= 4)
	assert.Equal(t, "1", lines[0])
	assert.Equal(t, "b0", lines[1])
	assert.Equal(t, "0", lines[2])
	assert.Equal(t, ".", lines[len(lines)-2])
}
