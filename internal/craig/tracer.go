package craig

import (
	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/internal/satcore"
	"github.com/ncip-solver/ncip/problem"
)

// Tracer implements satcore.ProofTracer, re-created per inner SAT solve
// (its clause identifiers are only meaningful for that solve's Solver, per
// spec.md's lifecycle note in §3).
type Tracer struct {
	graph   *aig.Graph
	roles   satcore.RoleProvider
	enabled [numBases]bool

	records  map[satcore.ClauseID]record
	literals map[satcore.ClauseID]problem.Clause

	last   *record
	lastID satcore.ClauseID
}

// NewTracer returns a Tracer writing into graph, using roles to classify
// variables. With no bases given, all four are enabled; otherwise only the
// named ones are computed and the rest default to aig.True.
func NewTracer(graph *aig.Graph, roles satcore.RoleProvider, bases ...Base) *Tracer {
	t := &Tracer{
		graph:    graph,
		roles:    roles,
		records:  make(map[satcore.ClauseID]record),
		literals: make(map[satcore.ClauseID]problem.Clause),
	}
	if len(bases) == 0 {
		for i := range t.enabled {
			t.enabled[i] = true
		}
	} else {
		for _, b := range bases {
			t.enabled[b] = true
		}
	}
	return t
}

// OnClause implements satcore.ProofTracer.
func (t *Tracer) OnClause(rec satcore.ClauseRecord) {
	var r record
	switch rec.Kind {
	case satcore.KindOriginal:
		r = t.baseInterpolant(rec)
	case satcore.KindAssumptionFailure:
		r = t.finalInterpolant(rec)
	case satcore.KindLearned:
		r = t.resolventInterpolant(rec)
	default:
		panic("craig: unknown clause kind")
	}
	t.records[rec.ID] = r
	t.literals[rec.ID] = rec.Literals
	t.last = &r
	t.lastID = rec.ID
}

func (t *Tracer) baseInterpolant(rec satcore.ClauseRecord) record {
	var label Label
	switch rec.Side {
	case satcore.ASide:
		label = LabelA
	case satcore.BSide:
		label = LabelB
	default:
		panic("craig: original clause has no side label")
	}

	var globalLits []problem.Literal
	for _, l := range rec.Literals {
		if t.roles.RoleOf(l.Variable()).Global {
			globalLits = append(globalLits, l)
		}
	}

	var edges [numBases]aig.Edge
	for b := Base(0); b < numBases; b++ {
		if !t.enabled[b] {
			edges[b] = aig.True
			continue
		}
		edges[b] = t.baseEdge(b, label, globalLits)
	}
	return record{edges: edges, label: label}
}

func (t *Tracer) baseEdge(b Base, label Label, globalLits []problem.Literal) aig.Edge {
	isA := label == LabelA
	switch b {
	case Symmetric:
		if isA {
			return aig.False
		}
		return aig.True
	case Asymmetric:
		if isA {
			return t.orOf(globalLits)
		}
		return aig.True
	case DualSymmetric:
		if isA {
			return aig.True
		}
		return aig.False
	case DualAsymmetric:
		if isA {
			return aig.False
		}
		return t.andOfNegated(globalLits)
	default:
		panic("craig: unknown base")
	}
}

func (t *Tracer) orOf(lits []problem.Literal) aig.Edge {
	edges := make([]aig.Edge, len(lits))
	for i, l := range lits {
		edges[i] = t.graph.Literal(l)
	}
	return t.graph.OrMany(edges)
}

func (t *Tracer) andOfNegated(lits []problem.Literal) aig.Edge {
	edges := make([]aig.Edge, len(lits))
	for i, l := range lits {
		edges[i] = t.graph.Literal(l.Not())
	}
	return t.graph.AndMany(edges)
}

// finalInterpolant computes the synthetic partial interpolant for a failed
// assumption, keyed on the assumed variable's role rather than any side.
func (t *Tracer) finalInterpolant(rec satcore.ClauseRecord) record {
	class := classify(t.roles.RoleOf(rec.AssumedVar))

	var label Label
	switch class {
	case classALocal:
		label = LabelA
	case classBLocal, classGlobal:
		label = LabelB
	}

	values := finalTable[class]
	var edges [numBases]aig.Edge
	for b := Base(0); b < numBases; b++ {
		if !t.enabled[b] {
			edges[b] = aig.True
			continue
		}
		edges[b] = values[b]
	}
	return record{edges: edges, label: label}
}

var finalTable = map[pivotClass][numBases]aig.Edge{
	classALocal: {Symmetric: aig.False, Asymmetric: aig.False, DualSymmetric: aig.True, DualAsymmetric: aig.False},
	classBLocal: {Symmetric: aig.True, Asymmetric: aig.True, DualSymmetric: aig.False, DualAsymmetric: aig.True},
	classGlobal: {Symmetric: aig.True, Asymmetric: aig.True, DualSymmetric: aig.False, DualAsymmetric: aig.False},
}

// resolventInterpolant folds the left-to-right resolution chain
// (Antecedents[0] is the base, each subsequent Antecedents[i] resolves in
// on Pivots[i-1]) into a single partial interpolant per enabled base.
func (t *Tracer) resolventInterpolant(rec satcore.ClauseRecord) record {
	acc, ok := t.records[rec.Antecedents[0]]
	if !ok {
		panic("craig: missing partial interpolant for antecedent")
	}

	for i, piv := range rec.Pivots {
		nextID := rec.Antecedents[i+1]
		next, ok := t.records[nextID]
		if !ok {
			panic("craig: missing partial interpolant for antecedent")
		}
		nextLits, ok := t.literals[nextID]
		if !ok {
			panic("craig: missing literals for antecedent")
		}

		nextPositive := pivotPolarity(nextLits, piv)
		i1, i2 := acc, next
		if nextPositive {
			i1, i2 = next, acc
		}

		class := classify(t.roles.RoleOf(piv))
		pivotLit := t.graph.Literal(problem.Pos(piv))

		var edges [numBases]aig.Edge
		for b := Base(0); b < numBases; b++ {
			if !t.enabled[b] {
				edges[b] = aig.True
				continue
			}
			edges[b] = t.resolve(b, class, i1.edges[b], i2.edges[b], pivotLit)
		}
		newLabel := LabelL
		if acc.label == next.label {
			newLabel = acc.label
		}
		acc = record{edges: edges, label: newLabel}
	}
	return acc
}

func pivotPolarity(lits problem.Clause, v problem.Variable) bool {
	for _, l := range lits {
		if l.Variable() == v {
			return !l.Negated()
		}
	}
	panic("craig: pivot literal not marked in antecedent clause")
}

// resolve applies the resolvent rule table for a single base, given the
// pivot's class and the two antecedents' edges for that base, where i1
// comes from the clause containing the pivot positively and i2 from the
// clause containing it negatively.
func (t *Tracer) resolve(b Base, class pivotClass, i1, i2, pivotLit aig.Edge) aig.Edge {
	g := t.graph
	switch class {
	case classALocal:
		switch b {
		case Symmetric, Asymmetric, DualAsymmetric:
			return g.Or(i1, i2)
		case DualSymmetric:
			return g.And(i1, i2)
		}
	case classBLocal:
		switch b {
		case Symmetric, Asymmetric, DualAsymmetric:
			return g.And(i1, i2)
		case DualSymmetric:
			return g.Or(i1, i2)
		}
	case classGlobal:
		switch b {
		case Symmetric:
			return g.And(g.Or(i1, pivotLit), g.Or(i2, aig.Not(pivotLit)))
		case Asymmetric, DualAsymmetric:
			return g.And(i1, i2)
		case DualSymmetric:
			return g.Or(g.And(i1, aig.Not(pivotLit)), g.And(i2, pivotLit))
		}
	}
	panic("craig: unhandled base/class combination")
}

// Interpolant reads out the root interpolant recorded by the most recently
// observed clause (the whole-proof root on an UNSAT solve), selected per
// sel. It errors if no clause has been observed yet.
func (t *Tracer) Interpolant(sel Selector) (aig.Edge, error) {
	if t.last == nil {
		return 0, errors.New("craig: no interpolant available; the solver has not concluded UNSAT")
	}
	e := t.last.edges
	switch sel {
	case SelectSymmetric:
		return e[Symmetric], nil
	case SelectAsymmetric:
		return e[Asymmetric], nil
	case SelectDualSymmetric:
		return e[DualSymmetric], nil
	case SelectDualAsymmetric:
		return e[DualAsymmetric], nil
	case SelectIntersection:
		// spec.md §4.3's Selector: "Intersection ... asserted iff any base
		// is asserted" — an OR combination, despite the name.
		return t.graph.OrMany(e[:]), nil
	case SelectUnion:
		// "Union ... asserted iff all bases asserted" — an AND combination.
		return t.graph.AndMany(e[:]), nil
	case SelectSmallest:
		return t.pickBySize(e, false), nil
	case SelectLargest:
		return t.pickBySize(e, true), nil
	default:
		return 0, errors.Errorf("craig: unknown selector %d", sel)
	}
}

func (t *Tracer) pickBySize(edges [numBases]aig.Edge, largest bool) aig.Edge {
	best := edges[0]
	bestCount := -1
	for _, e := range edges {
		var scratch problem.Variable
		_, clauses := t.graph.ToCNF(e, &scratch)
		n := len(clauses)
		if bestCount == -1 || (largest && n > bestCount) || (!largest && n < bestCount) {
			bestCount = n
			best = e
		}
	}
	return best
}
