package satcore

import "github.com/ncip-solver/ncip/problem"

// PreprocessLevel selects how aggressively Preprocess simplifies a clause
// set before it is handed to a Solver, mirroring
// _examples/original_source/src/bmc-ncip.hpp's PreprocessLevel (None,
// Simple, Expensive).
type PreprocessLevel uint8

const (
	PreprocessNone PreprocessLevel = iota
	PreprocessSimple
	PreprocessExpensive
)

// Preprocess simplifies clauses, never touching a variable set in frozen:
// frozen variables (globals and any the caller has protected, see
// problem.ProtectedVariables) must keep their exact structural appearance
// since later code (interpolant construction, trace expansion) depends on
// them remaining addressable. PreprocessSimple applies unit propagation and
// pure-literal elimination; PreprocessExpensive additionally runs bounded
// variable elimination, resolving away a non-frozen variable only when doing
// so does not increase the clause count.
func Preprocess(clauses problem.Clauses, numVars int, frozen problem.VariableSet, level PreprocessLevel) problem.Clauses {
	if level == PreprocessNone {
		return clauses
	}
	cur := append(problem.Clauses(nil), clauses...)
	cur = simplifyUnits(cur, frozen)
	cur = simplifyPureLiterals(cur, frozen)
	if level == PreprocessExpensive {
		cur = eliminateVariables(cur, numVars, frozen)
	}
	return cur
}

func isFrozen(frozen problem.VariableSet, v problem.Variable) bool {
	return frozen.Has(v)
}

// simplifyUnits repeatedly finds a unit clause over a non-frozen variable,
// assigns it, and strikes the resulting satisfied clauses / falsified
// literals, to a fixed point.
func simplifyUnits(clauses problem.Clauses, frozen problem.VariableSet) problem.Clauses {
	for {
		var unit *problem.Literal
		for _, c := range clauses {
			if len(c) == 1 && !isFrozen(frozen, c[0].Variable()) {
				l := c[0]
				unit = &l
				break
			}
		}
		if unit == nil {
			return clauses
		}
		clauses = applyUnit(clauses, *unit)
	}
}

func applyUnit(clauses problem.Clauses, unit problem.Literal) problem.Clauses {
	out := make(problem.Clauses, 0, len(clauses))
	for _, c := range clauses {
		satisfied := false
		next := make(problem.Clause, 0, len(c))
		for _, l := range c {
			if l == unit {
				satisfied = true
				break
			}
			if l == unit.Not() {
				continue
			}
			next = append(next, l)
		}
		if satisfied {
			continue
		}
		out = append(out, next)
	}
	return out
}

// simplifyPureLiterals drops every clause containing a non-frozen variable
// that occurs with only one polarity across the whole set.
func simplifyPureLiterals(clauses problem.Clauses, frozen problem.VariableSet) problem.Clauses {
	posSeen := map[problem.Variable]bool{}
	negSeen := map[problem.Variable]bool{}
	for _, c := range clauses {
		for _, l := range c {
			if l.Negated() {
				negSeen[l.Variable()] = true
			} else {
				posSeen[l.Variable()] = true
			}
		}
	}
	pure := map[problem.Variable]bool{}
	for v := range posSeen {
		if !negSeen[v] && !isFrozen(frozen, v) {
			pure[v] = true
		}
	}
	for v := range negSeen {
		if !posSeen[v] && !isFrozen(frozen, v) {
			pure[v] = true
		}
	}
	if len(pure) == 0 {
		return clauses
	}
	out := make(problem.Clauses, 0, len(clauses))
	for _, c := range clauses {
		keep := true
		for _, l := range c {
			if pure[l.Variable()] {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}

// eliminateVariables runs bounded variable elimination: for each non-frozen
// variable, replace its occurrences with the resolvents of every
// positive/negative clause pair, but only when doing so does not increase
// the clause count (dropping tautological resolvents along the way).
func eliminateVariables(clauses problem.Clauses, numVars int, frozen problem.VariableSet) problem.Clauses {
	cur := clauses
	for v := problem.Variable(0); int(v) < numVars; v++ {
		if isFrozen(frozen, v) {
			continue
		}
		var pos, neg, rest problem.Clauses
		for _, c := range cur {
			p, n := false, false
			for _, l := range c {
				if l.Variable() != v {
					continue
				}
				if l.Negated() {
					n = true
				} else {
					p = true
				}
			}
			switch {
			case p:
				pos = append(pos, c)
			case n:
				neg = append(neg, c)
			default:
				rest = append(rest, c)
			}
		}
		if len(pos) == 0 || len(neg) == 0 {
			continue
		}
		var resolvents problem.Clauses
		tooBig := false
		for _, pc := range pos {
			for _, nc := range neg {
				r, tautology := resolve(pc, nc, v)
				if tautology {
					continue
				}
				resolvents = append(resolvents, r)
				if len(resolvents) > len(pos)+len(neg) {
					tooBig = true
					break
				}
			}
			if tooBig {
				break
			}
		}
		if tooBig {
			continue
		}
		next := make(problem.Clauses, 0, len(rest)+len(resolvents))
		next = append(next, rest...)
		next = append(next, resolvents...)
		cur = next
	}
	return cur
}

// resolve combines pc (containing +v) and nc (containing -v) on v, reporting
// tautology if the resolvent contains both polarities of some other
// variable.
func resolve(pc, nc problem.Clause, v problem.Variable) (problem.Clause, bool) {
	seen := map[problem.Literal]bool{}
	var out problem.Clause
	add := func(l problem.Literal) bool {
		if l.Variable() == v {
			return true
		}
		if seen[l.Not()] {
			return false
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
		return true
	}
	for _, l := range pc {
		if !add(l) {
			return nil, true
		}
	}
	for _, l := range nc {
		if !add(l) {
			return nil, true
		}
	}
	return out, false
}
