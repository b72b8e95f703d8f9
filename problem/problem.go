package problem

import "github.com/pkg/errors"

// ConstructionError is returned from NewProblem when the supplied clauses
// violate one of the BMC problem invariants. Construction errors are always
// detected at build time and never surface during solving.
type ConstructionError struct {
	cause error
}

func (e *ConstructionError) Error() string { return e.cause.Error() }
func (e *ConstructionError) Unwrap() error { return e.cause }

func construction(format string, args ...interface{}) error {
	return &ConstructionError{cause: errors.Errorf(format, args...)}
}

// Problem is the CNF triple (I, T, P) together with the number of problem
// variables: the initial-state predicate, the transition relation and the
// target (bad-state) predicate.
//
// Invariants (checked by NewProblem): every literal references a variable
// less than Variables; Init and Target contain only timeframe-0 literals;
// Trans contains only timeframe-0 and timeframe-1 literals.
type Problem struct {
	Variables int
	Init      Clauses
	Trans     Clauses
	Target    Clauses
}

// NewProblem validates and constructs a Problem. It returns a
// *ConstructionError describing the first invariant violation found.
func NewProblem(variables int, init, trans, target Clauses) (*Problem, error) {
	p := &Problem{Variables: variables, Init: init, Trans: trans, Target: target}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate re-checks every invariant NewProblem enforces; useful after a
// Problem has been mutated in place (e.g. by preprocessing) or built up
// field-by-field by a format parser.
func (p *Problem) Validate() error {
	if err := checkSection("init", p.Init, p.Variables, 0, 0); err != nil {
		return err
	}
	if err := checkSection("trans", p.Trans, p.Variables, 0, 1); err != nil {
		return err
	}
	if err := checkSection("target", p.Target, p.Variables, 0, 0); err != nil {
		return err
	}
	return nil
}

func checkSection(name string, cs Clauses, numVars int, minTf, maxTf int32) error {
	for ci, c := range cs {
		for li, l := range c {
			if int(l.Variable()) >= numVars {
				return construction("%s: clause %d literal %d references variable %d >= %d variables",
					name, ci, li, l.Variable(), numVars)
			}
			if l.Timeframe() < minTf || l.Timeframe() > maxTf {
				return construction("%s: clause %d literal %d has timeframe %d, want [%d,%d]",
					name, ci, li, l.Timeframe(), minTf, maxTf)
			}
		}
	}
	return nil
}
