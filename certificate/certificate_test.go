package certificate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/problem"
)

func TestInitAIGCollapsesToResetBitForm(t *testing.T) {
	g := aig.New()
	// Two latches: a must reset to 0 (unit clause {¬a}), b to 1 ({b}).
	init := problem.Clauses{{problem.Neg(0)}, {problem.Pos(1)}}

	got := InitAIG(g, init)
	want := g.And(g.Literal(problem.Neg(0)), g.Literal(problem.Pos(1)))
	assert.Equal(t, want, got)
}

func TestFromCraigSatisfiesInitImpliesInvariant(t *testing.T) {
	g := aig.New()
	init := problem.Clauses{{problem.Neg(0)}}
	craigRoot := g.Literal(problem.Pos(1))

	cert := FromCraig(g, init, craigRoot)
	require.Len(t, cert.Roots, 2)
	assert.Equal(t, Craig, cert.Type)

	// I(s) must be exactly one of the disjuncts, so I(s) ⇒ R(s) holds
	// syntactically regardless of what the Craig root says.
	assert.Contains(t, cert.Roots, InitAIG(g, init))
}

func TestConstantCertificates(t *testing.T) {
	g := aig.New()
	assert.Equal(t, aig.True, ConstantTrue(g).Invariant())
	assert.Equal(t, aig.False, ConstantFalse(g).Invariant())
}

func TestToCNFRoundTrips(t *testing.T) {
	g := aig.New()
	init := problem.Clauses{{problem.Neg(0)}}
	cert := FromCraig(g, init, g.Literal(problem.Pos(1)))

	var next problem.Variable = 2
	typ, clauses := cert.ToCNF(&next)
	require.Equal(t, aig.CNFNormal, typ)
	assert.NotEmpty(t, clauses)
}
