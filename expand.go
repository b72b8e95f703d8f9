package ncip

import (
	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip/internal/satcore"
	"github.com/ncip-solver/ncip/problem"
)

// expand implements spec.md §4.4.2: having found a SAT witness at depth
// using the preprocessed (simplified) problem, read the protected
// variables' assignments out of that solve, then re-solve the unsimplified
// problem under those assignments as assumptions to recover a concrete
// value for every original variable at every timeframe.
//
// Protected variables are exactly the ones preprocessing was forbidden to
// touch (problem.ProtectedVariables), so their truth value in the
// simplified solve is already a value the unsimplified problem can be made
// to agree with; everything else was free for the preprocessor to eliminate
// or rewrite, so only the unsimplified re-solve's own model is trustworthy
// for it.
func (b *BmcSolver) expand(winning *stepOutcome, depth int) (*problem.Model, error) {
	var assumptions []problem.Literal
	for tf := 0; tf <= depth; tf++ {
		for v := 0; v < b.problem.Variables; v++ {
			variable := problem.Variable(v)
			if !b.protected.Has(variable) {
				continue
			}
			key := problem.Pos(variable).AtTimeframe(int32(tf))
			sid, ok := winning.vm.ids[key]
			if !ok {
				continue
			}
			val := winning.solver.Value(problem.Pos(sid))
			if val == problem.DontCare {
				continue
			}
			lit := key
			if val == problem.Negative {
				lit = lit.Not()
			}
			assumptions = append(assumptions, lit)
		}
	}

	fullSolver, fullVM, _, _ := b.buildStep(b.problem.Init, b.problem.Trans, b.problem.Target, depth, b.global)

	mapped := make([]problem.Literal, len(assumptions))
	for i, l := range assumptions {
		mapped[i] = fullVM.lit(l, satcore.ASide)
	}

	sat, err := fullSolver.SolveAssumptions(mapped)
	if err != nil {
		return nil, err
	}
	if !sat {
		return nil, errors.New("ncip: trace expansion: unsimplified problem rejected the simplified witness")
	}

	model := &problem.Model{Timeframes: make([]problem.Timeframe, depth+1)}
	for tf := 0; tf <= depth; tf++ {
		frame := make(problem.Timeframe, b.problem.Variables)
		for v := 0; v < b.problem.Variables; v++ {
			key := problem.Pos(problem.Variable(v)).AtTimeframe(int32(tf))
			sid, ok := fullVM.ids[key]
			if !ok {
				frame[v] = problem.DontCare
				continue
			}
			frame[v] = fullSolver.Value(problem.Pos(sid))
		}
		model.Timeframes[tf] = frame
	}
	return model, nil
}
