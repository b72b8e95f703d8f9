package ncip

import (
	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip/internal/satcore"
	"github.com/ncip-solver/ncip/problem"
)

// runSanityGates implements spec.md §4.4's optional sanity gates: I0, T0→1,
// P0 and P1 must each be individually satisfiable on their own, since an
// unsatisfiable one almost always means a malformed problem rather than a
// genuine proof opportunity. Gates run in their own throwaway solver (no
// tracer, no interpolation) since nothing here needs a proof.
func (b *BmcSolver) runSanityGates() error {
	gates := []struct {
		name    string
		clauses problem.Clauses
		shift   int32
	}{
		{"I0", b.initC, 0},
		{"T0->1", b.transC, 0},
		{"P0", b.targetC, 0},
		{"P1", b.targetC, 1},
	}
	for _, gate := range gates {
		if err := b.checkSatisfiable(gate.name, gate.clauses, gate.shift); err != nil {
			return err
		}
	}
	return nil
}

func (b *BmcSolver) checkSatisfiable(name string, clauses problem.Clauses, shift int32) error {
	s := satcore.New(nil)
	vm := newVariableMapper(s, b.global)
	for i, c := range clauses {
		mapped := make(problem.Clause, len(c))
		for j, l := range c {
			mapped[j] = vm.lit(l.Shift(shift), satcore.ASide)
		}
		s.AddClause(mapped, satcore.ASide, satcore.ExternalID(i))
	}
	sat, err := s.SolveAssumptions(nil)
	if err != nil {
		return errors.Wrapf(err, "ncip: sanity gate %s", name)
	}
	if !sat {
		return errors.Errorf("ncip: sanity gate %s is unsatisfiable; problem is malformed", name)
	}
	return nil
}
