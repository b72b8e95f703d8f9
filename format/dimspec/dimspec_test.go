package dimspec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/problem"
)

const trivialDIMSPEC = `u cnf 1 0
i cnf 1 1
1 0
g cnf 1 1
1 0
t cnf 2 1
-1 -2 0
`

func TestParseTrivialProblem(t *testing.T) {
	dp, bp, err := Parse(strings.NewReader(trivialDIMSPEC))
	require.NoError(t, err)

	assert.Equal(t, 1, dp.Variables)
	require.Len(t, dp.Init, 1)
	require.Len(t, dp.Goal, 1)
	require.Len(t, dp.Trans, 1)
	assert.Empty(t, dp.Universal)

	require.Equal(t, 1, bp.Variables)
	assert.Equal(t, problem.Clause{problem.Pos(0)}, bp.Init[0])
	assert.Equal(t, problem.Clause{problem.Pos(0)}, bp.Target[0])
	assert.Equal(t, problem.Clause{problem.Neg(0), problem.Neg(0).Shift(1)}, bp.Trans[0])
}

func TestParseConjoinsUniversalIntoEverySection(t *testing.T) {
	const src = `u cnf 1 1
1 0
i cnf 1 0
g cnf 1 0
t cnf 2 0
`
	dp, bp, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, dp.Universal, 1)
	require.Len(t, bp.Init, 1)
	require.Len(t, bp.Trans, 1)
	require.Len(t, bp.Target, 1)
	assert.Equal(t, problem.Clause{problem.Pos(0)}, bp.Init[0])
}

func TestParseRejectsOddTransitionVariableCount(t *testing.T) {
	const src = `u cnf 1 0
i cnf 1 0
g cnf 1 0
t cnf 3 0
`
	_, _, err := Parse(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not even")
}

func TestExportProblemWritesFourSections(t *testing.T) {
	dp, _, err := Parse(strings.NewReader(trivialDIMSPEC))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportProblem(&buf, dp))

	out := buf.String()
	assert.Contains(t, out, "u cnf 1 0")
	assert.Contains(t, out, "i cnf 1 1")
	assert.Contains(t, out, "g cnf 1 1")
	assert.Contains(t, out, "t cnf 2 1")
	assert.Contains(t, out, "-1 -2 0")
}

func TestExportModelOmitsDontCareVariables(t *testing.T) {
	model := &problem.Model{Timeframes: []problem.Timeframe{
		{problem.Positive, problem.DontCare, problem.Negative},
	}}
	var buf bytes.Buffer
	require.NoError(t, ExportModel(&buf, model))
	assert.Equal(t, "v0 1 -3 0\n", buf.String())
}

func TestExportCertificateAssertsNegatedInvariantAsGoal(t *testing.T) {
	dp, _, err := Parse(strings.NewReader(trivialDIMSPEC))
	require.NoError(t, err)

	g := aig.New()
	cert := &certificate.Certificate{Type: certificate.Craig, Graph: g, Roots: []aig.Edge{g.Literal(problem.Pos(0))}}

	var buf bytes.Buffer
	require.NoError(t, ExportCertificate(&buf, dp, cert))

	out := buf.String()
	assert.Contains(t, out, "g cnf 1 1")
	assert.Contains(t, out, "-1 0")
}
