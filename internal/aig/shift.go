package aig

import "github.com/ncip-solver/ncip/problem"

// Shift rebuilds the sub-graph rooted at root with every leaf literal's
// timeframe shifted by k, re-hash-consing AND nodes as it goes, and returns
// the new root edge. This is what lets the BMC engine take a Craig
// interpolant computed over timeframe-1 (global, state) variables and turn
// it into a candidate initial-state predicate at timeframe 0 (spec.md
// §4.4 step 2d, "Append R_i (shifted back by one timeframe)"): unlike
// ToCNF, Shift allocates no fresh variables, so a plain memoized recursion
// over the DAG is enough — no explicit stack is needed to guarantee
// bottom-up ordering.
func (g *Graph) Shift(root Edge, k int32) Edge {
	memo := make(map[Edge]Edge)
	var walk func(e Edge) Edge
	walk = func(e Edge) Edge {
		if e == True || e == False {
			return e
		}
		pos := e
		inverted := isInverted(e)
		if inverted {
			pos = Not(e)
		}
		if v, ok := memo[pos]; ok {
			if inverted {
				return Not(v)
			}
			return v
		}
		n := g.nodes[nodeIndex(pos)]
		var result Edge
		switch n.kind {
		case kindVar:
			result = g.Literal(n.lit.Shift(k))
		case kindAnd:
			result = g.And(walk(n.l), walk(n.r))
		default:
			result = True
		}
		memo[pos] = result
		if inverted {
			return Not(result)
		}
		return result
	}
	return walk(root)
}

// Literals returns the set of distinct BMC literals (at positive polarity,
// i.e. variable+timeframe identity regardless of the edge's own sign)
// referenced by leaf nodes reachable from root.
func (g *Graph) Literals(root Edge) []problem.Literal {
	seen := map[int]bool{}
	var out []problem.Literal
	var walk func(e Edge)
	walk = func(e Edge) {
		if e == True || e == False {
			return
		}
		idx := nodeIndex(e)
		if seen[idx] {
			return
		}
		seen[idx] = true
		n := g.nodes[idx]
		switch n.kind {
		case kindVar:
			out = append(out, n.lit)
		case kindAnd:
			walk(n.l)
			walk(n.r)
		}
	}
	walk(root)
	return out
}
