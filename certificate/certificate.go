// Package certificate implements the certificate builder (spec component
// C5): it turns the final Craig interpolant AIG produced by internal/craig,
// together with the problem's initial-state predicate, into the exported
// inductive-invariant artefact described by spec.md §4.5 and §3's
// Model/certificate glossary entry.
package certificate

import (
	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/problem"
)

// Type tags what a Certificate actually proves, mirroring
// _examples/original_source/src/bmc-problem.hpp's BmcCertificate::Type enum.
type Type uint8

const (
	None Type = iota
	Init
	Trans
	Target
	InitTrans
	TransTarget
	Craig
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Init:
		return "init"
	case Trans:
		return "trans"
	case Target:
		return "target"
	case InitTrans:
		return "init-trans"
	case TransTarget:
		return "trans-target"
	case Craig:
		return "craig"
	default:
		return "unknown"
	}
}

// Certificate is an AIG with a tag and a set of root edges whose
// OR-combination is the inductive invariant R(s): I(s) ⇒ R(s),
// R(s) ∧ T(s,s') ⇒ R(s'), R(s) ⇒ ¬P(s).
type Certificate struct {
	Type  Type
	Graph *aig.Graph
	Roots []aig.Edge
}

// Invariant returns the single AIG edge for R(s): the OR of every root.
func (c *Certificate) Invariant() aig.Edge {
	return c.Graph.OrMany(c.Roots)
}

// ConstantTrue returns the trivial certificate proving every state
// satisfies R(s): used when the constant-1 fixed-point check fires, or when
// preprocessing reduces P to FALSE outright (nothing is ever reachable so
// every state trivially satisfies "not bad").
func ConstantTrue(g *aig.Graph) *Certificate {
	return &Certificate{Type: Craig, Graph: g, Roots: []aig.Edge{aig.True}}
}

// ConstantFalse returns the trivial certificate proving no state satisfies
// R(s): only valid when I itself is UNSAT (used when preprocessing reduces
// I to FALSE).
func ConstantFalse(g *aig.Graph) *Certificate {
	return &Certificate{Type: Init, Graph: g, Roots: []aig.Edge{aig.False}}
}

// InitAIG builds the AIG sub-circuit for I(s) from the problem's Init
// clauses: the AND, over clauses, of the OR of each clause's literals. For
// the common case of a latch with reset bit r encoded as the unit clause
// {¬latch} (r=0) or {latch} (r=1), this collapses exactly to spec.md
// §4.5's "AND of literals ¬latch⊕r"; the clause-wise construction generalizes
// it to an arbitrary Init CNF (CIP/DIMSPEC problems are not required to
// encode Init as one unit clause per latch the way AIGER does).
func InitAIG(g *aig.Graph, init problem.Clauses) aig.Edge {
	clauseEdges := make([]aig.Edge, len(init))
	for i, c := range init {
		litEdges := make([]aig.Edge, len(c))
		for j, l := range c {
			litEdges[j] = g.Literal(l)
		}
		clauseEdges[i] = g.OrMany(litEdges)
	}
	return g.AndMany(clauseEdges)
}

// FromCraig builds the final certificate from a Craig interpolant root
// (already shifted to timeframe 0) by prepending I(s) as an extra root:
// R(s) = I(s) ∨ craigRoot, satisfying I(s) ⇒ R(s) trivially.
func FromCraig(g *aig.Graph, init problem.Clauses, craigRoots ...aig.Edge) *Certificate {
	roots := append([]aig.Edge{InitAIG(g, init)}, craigRoots...)
	return &Certificate{Type: Craig, Graph: g, Roots: roots}
}

// ToCNF converts the certificate's invariant to CNF via Tseitin conversion,
// for export through a format/* emitter.
func (c *Certificate) ToCNF(nextVar *problem.Variable) (aig.CNFType, problem.Clauses) {
	return c.Graph.ToCNF(c.Invariant(), nextVar)
}

// NegatedInvariantCNF Tseitin-converts ¬R(s) (the negation of Invariant())
// to CNF. This is the shape a format/* certificate exporter needs: asserting
// ¬R(s) true in the exported problem's new Target/goal section is what lets
// a downstream BMC run over the certificate immediately find it UNSAT,
// mirroring _examples/original_source/src/bmc-format-cip.cpp and
// bmc-format-dimspec.cpp's shared certificate-export step of negating the
// property and re-running Tseitin conversion on the result.
func (c *Certificate) NegatedInvariantCNF(nextVar *problem.Variable) (aig.CNFType, problem.Clauses) {
	return c.Graph.ToCNF(aig.Not(c.Invariant()), nextVar)
}
