package aig

import "github.com/ncip-solver/ncip/problem"

// Rebuild copies the sub-graph rooted at root from src into g, relabeling
// every leaf literal through remap, and returns the new root edge in g. This
// is how a Craig interpolant computed in one BMC step's throwaway Graph (its
// leaves are that step's own solver-variable ids) gets transplanted into the
// engine's long-lived accumulation Graph, keyed by the original problem's
// variable identity instead (see ncip's bmc.go, extractRoot).
func (g *Graph) Rebuild(src *Graph, root Edge, remap func(problem.Literal) problem.Literal) Edge {
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
		n := src.nodes[nodeIndex(pos)]
		var result Edge
		switch n.kind {
		case kindVar:
			result = g.Literal(remap(n.lit))
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
