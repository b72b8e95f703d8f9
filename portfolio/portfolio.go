// Package portfolio runs several BmcSolver configurations over the same
// problem concurrently and takes whichever reaches a conclusive verdict
// first, grounded on _examples/original_source/src/bmc-ncip-portfolio.hpp's
// PortfolioBmcSolver (spec.md §1's "supports ... a portfolio composition",
// SPEC_FULL.md §5). Go has no std::async/std::future pairing, so the
// concurrency shape is instead grounded on the teacher's own
// updateSubscriptionStatuses (pkg/controller/operators/catalog/operator.go):
// one goroutine per unit of work, a sync.WaitGroup to join them, and a
// sync.Mutex guarding the shared results slice.
package portfolio

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip"
)

// Solver is the subset of *ncip.BmcSolver's method set a portfolio member
// needs: every *ncip.BmcSolver already satisfies this with no adapter.
type Solver interface {
	Solve() (*ncip.Result, error)
	Interrupt()
	ClearInterrupt()
	IsInterrupted() bool
}

// PortfolioSolver races solvers against each other and returns the first
// conclusive (Sat or Unsat) result, interrupting the rest once one arrives.
// Depth/Craig/memory-limit outcomes are kept only if no conclusive result
// ever arrives; if every solver is interrupted (or none runs), the result
// is itself StatusInterrupted, mirroring the original's finalResult seed.
type PortfolioSolver struct {
	solvers []Solver
}

// New builds a PortfolioSolver over solvers. Panics if solvers is empty:
// a portfolio of zero members is a caller bug, not a runtime outcome.
func New(solvers ...Solver) *PortfolioSolver {
	if len(solvers) == 0 {
		panic("portfolio: New called with no solvers")
	}
	return &PortfolioSolver{solvers: solvers}
}

// Interrupt signals every member solver to stop at its next suspension
// point.
func (p *PortfolioSolver) Interrupt() {
	for _, s := range p.solvers {
		s.Interrupt()
	}
}

// ClearInterrupt resets every member solver's interrupt flag.
func (p *PortfolioSolver) ClearInterrupt() {
	for _, s := range p.solvers {
		s.ClearInterrupt()
	}
}

// IsInterrupted reports whether any member solver has been interrupted.
func (p *PortfolioSolver) IsInterrupted() bool {
	for _, s := range p.solvers {
		if s.IsInterrupted() {
			return true
		}
	}
	return false
}

type outcome struct {
	result *ncip.Result
	err    error
}

// Solve runs every member solver concurrently and returns the portfolio's
// combined verdict. A Sat or Unsat from any member interrupts the rest
// immediately; the final result is resolved only once every member has
// returned, same as the original's std::future::get join.
func (p *PortfolioSolver) Solve() (*ncip.Result, error) {
	p.ClearInterrupt()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []outcome
	)

	for _, s := range p.solvers {
		wg.Add(1)
		go func(s Solver) {
			defer wg.Done()

			result, err := s.Solve()

			mu.Lock()
			results = append(results, outcome{result: result, err: err})
			mu.Unlock()

			if err == nil && (result.Status == ncip.StatusSat || result.Status == ncip.StatusUnsat) {
				p.Interrupt()
			}
		}(s)
	}
	wg.Wait()

	return combine(results)
}

// combine applies the original's update_result priority: the first
// conclusive (Sat/Unsat) result in completion order always wins; otherwise the first resource-limit
// result seen is kept in place of the Interrupted default; Interrupted
// results never override anything.
func combine(results []outcome) (*ncip.Result, error) {
	var errs []error
	final := ncip.ForUserInterrupt(-1)

	for _, o := range results {
		if o.err != nil {
			errs = append(errs, o.err)
			continue
		}
		switch o.result.Status {
		case ncip.StatusSat, ncip.StatusUnsat:
			if final.Status != ncip.StatusSat && final.Status != ncip.StatusUnsat {
				final = o.result
			}
		case ncip.StatusDepthLimitReached, ncip.StatusCraigLimitReached, ncip.StatusMemoryLimitReached:
			if final.Status == ncip.StatusInterrupted {
				final = o.result
			}
		case ncip.StatusInterrupted:
			// Never overrides anything, including another Interrupted.
		}
	}

	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}
	return final, nil
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := "portfolio: multiple solvers failed:"
	for _, e := range errs {
		msg += " " + e.Error() + ";"
	}
	return errors.New(msg)
}
