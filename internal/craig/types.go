// Package craig implements the proof tracer and interpolant engine (spec
// component C3): it observes every clause a satcore.Solver commits and
// maintains, per clause, a partial Craig interpolant in each of four AIG
// bases (symmetric, asymmetric, dual-symmetric, dual-asymmetric), following
// the base-interpolant and resolvent-rule tables of
// _examples/original_source/deps/minicraig/minisat/craig/CraigSolver.h (the
// construction rules themselves; the Go rendering is original since that
// header is almost entirely macro/namespace plumbing). When the solver
// concludes UNSAT, failed assumptions are folded in via a synthetic,
// variable-role-keyed partial interpolant, and the resulting root can be
// read out directly or through one of the four composite selectors.
package craig

import (
	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/internal/satcore"
)

// Base is one of the four Craig interpolant construction rules.
type Base uint8

const (
	Symmetric Base = iota
	Asymmetric
	DualSymmetric
	DualAsymmetric
	numBases
)

func (b Base) String() string {
	switch b {
	case Symmetric:
		return "symmetric"
	case Asymmetric:
		return "asymmetric"
	case DualSymmetric:
		return "dual-symmetric"
	case DualAsymmetric:
		return "dual-asymmetric"
	default:
		return "unknown"
	}
}

// Label is the clause-type tag `{A, B, L}` from spec.md §4.3: an original
// clause carries its side's label, a resolvent carries `L` as soon as its
// two parents disagree.
type Label uint8

const (
	LabelA Label = iota
	LabelB
	LabelL
)

// Selector names one of the eight ways to read out an interpolant: the four
// bases directly, or one of four composites built from all four.
type Selector uint8

const (
	SelectSymmetric Selector = iota
	SelectAsymmetric
	SelectDualSymmetric
	SelectDualAsymmetric
	SelectIntersection
	SelectUnion
	SelectSmallest
	SelectLargest
)

// record is the partial interpolant attached to one clause: the four AIG
// edges (one per base; a disabled base holds aig.True) and the propagated
// label. The clause's own literals are not stored here.
type record struct {
	edges [numBases]aig.Edge
	label Label
}

// pivotClass is the per-variable classification the resolvent rule keys on.
type pivotClass uint8

const (
	classALocal pivotClass = iota
	classBLocal
	classGlobal
)

func classify(r satcore.Role) pivotClass {
	if r.Global {
		return classGlobal
	}
	switch r.Side {
	case satcore.ASide:
		return classALocal
	case satcore.BSide:
		return classBLocal
	default:
		panic("craig: pivot variable has no side or global role assigned")
	}
}
