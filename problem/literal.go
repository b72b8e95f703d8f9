// Package problem defines the data model that the rest of this module is
// built on: literals, clauses and the CNF triple (I, T, P) that a BmcSolver
// decides reachability for.
package problem

import "fmt"

// Variable is a dense, zero-based identifier for a problem variable.
// Variables are allocated densely starting from 0 and are never renumbered.
type Variable uint32

// Literal is a variable reference carrying a polarity and a timeframe. Two
// literals over the same variable and polarity but different timeframes are
// distinct values; Shift moves a literal between timeframes without
// otherwise changing it.
//
// Shift is additive: shifting by 0 is the identity, and shifting by a then
// by b is the same as shifting by a+b in one step.
type Literal struct {
	variable  Variable
	negated   bool
	timeframe int32
}

// Lit constructs a literal over variable v at timeframe 0.
func Lit(v Variable, negated bool) Literal {
	return Literal{variable: v, negated: negated}
}

// Pos constructs the positive literal of v at timeframe 0.
func Pos(v Variable) Literal { return Lit(v, false) }

// Neg constructs the negative literal of v at timeframe 0.
func Neg(v Variable) Literal { return Lit(v, true) }

func (l Literal) Variable() Variable { return l.variable }
func (l Literal) Negated() bool      { return l.negated }
func (l Literal) Timeframe() int32   { return l.timeframe }

// Not returns the negation of l. Not is its own inverse.
func (l Literal) Not() Literal {
	l.negated = !l.negated
	return l
}

// Positive returns l with its polarity forced positive.
func (l Literal) Positive() Literal {
	l.negated = false
	return l
}

// Negative returns l with its polarity forced negative.
func (l Literal) Negative() Literal {
	l.negated = true
	return l
}

// Shift adds k to l's timeframe, leaving variable and polarity unchanged.
func (l Literal) Shift(k int32) Literal {
	l.timeframe += k
	return l
}

// AtTimeframe0 returns l with its timeframe reset to 0.
func (l Literal) AtTimeframe0() Literal {
	l.timeframe = 0
	return l
}

// AtTimeframe returns l moved to the given absolute timeframe.
func (l Literal) AtTimeframe(tf int32) Literal {
	l.timeframe = tf
	return l
}

func (l Literal) String() string {
	sign := ""
	if l.negated {
		sign = "-"
	}
	return fmt.Sprintf("%s%d@%d", sign, l.variable, l.timeframe)
}

// Clause is an unordered set of literals; it is represented as a slice for
// simplicity, with order preserved for determinism but not semantically
// significant.
type Clause []Literal

// Clauses is an ordered sequence of clauses; order only matters where clause
// identifiers derived from that order are used to key proof-tracer state.
type Clauses []Clause

// Variables returns the set of distinct variables referenced anywhere in cs.
func (cs Clauses) Variables() map[Variable]struct{} {
	out := make(map[Variable]struct{})
	for _, c := range cs {
		for _, l := range c {
			out[l.Variable()] = struct{}{}
		}
	}
	return out
}

// MaxVariable returns the highest-numbered variable referenced in cs, and
// false if cs references no variables.
func (cs Clauses) MaxVariable() (Variable, bool) {
	var max Variable
	found := false
	for _, c := range cs {
		for _, l := range c {
			if !found || l.Variable() > max {
				max = l.Variable()
				found = true
			}
		}
	}
	return max, found
}
