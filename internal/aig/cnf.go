package aig

import "github.com/ncip-solver/ncip/problem"

// CNFType classifies the result of a Tseitin conversion.
type CNFType uint8

const (
	// CNFNone is the zero value; it is never returned by ToCNF.
	CNFNone CNFType = iota
	// CNFConstant0 means the root is constant-FALSE; the clause set is the
	// single empty clause.
	CNFConstant0
	// CNFConstant1 means the root is constant-TRUE; the clause set is empty.
	CNFConstant1
	// CNFNormal means the clause set's last clause is a unit clause
	// carrying the root's Tseitin (or leaf) variable.
	CNFNormal
)

// ToCNF converts the sub-graph rooted at root to an equisatisfiable CNF via
// Tseitin transformation, traversing the DAG with an explicit stack (no
// recursion). Every AND node allocates one fresh variable taken from (and
// incrementing) *nextVar; leaf nodes reuse their stored literal's variable
// directly, so a root that is a single (possibly inverted) literal needs no
// fresh variable at all. Tseitin variables are contiguous above the value
// *nextVar held on entry.
func (g *Graph) ToCNF(root Edge, nextVar *problem.Variable) (CNFType, problem.Clauses) {
	if root == True {
		return CNFConstant1, nil
	}
	if root == False {
		return CNFConstant0, problem.Clauses{{}}
	}

	idx := nodeIndex(root)
	if g.nodes[idx].kind == kindVar {
		lit := g.nodes[idx].lit
		if isInverted(root) {
			lit = lit.Not()
		}
		return CNFNormal, problem.Clauses{{lit}}
	}

	varOf := make(map[int]problem.Variable)
	var clauses problem.Clauses

	stack := []int{idx}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		n := g.nodes[cur]

		if n.kind == kindVar {
			if _, ok := varOf[cur]; !ok {
				varOf[cur] = n.lit.Variable()
			}
			stack = stack[:len(stack)-1]
			continue
		}

		if _, done := varOf[cur]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		li, ri := nodeIndex(n.l), nodeIndex(n.r)
		if _, ok := varOf[li]; !ok {
			stack = append(stack, li)
			continue
		}
		if _, ok := varOf[ri]; !ok {
			stack = append(stack, ri)
			continue
		}

		t := *nextVar
		*nextVar++
		varOf[cur] = t

		ll := literalFor(n.l, varOf)
		rl := literalFor(n.r, varOf)
		tl := problem.Pos(t)
		clauses = append(clauses,
			problem.Clause{tl.Not(), ll},
			problem.Clause{tl.Not(), rl},
			problem.Clause{tl, ll.Not(), rl.Not()},
		)
		stack = stack[:len(stack)-1]
	}

	rootLit := literalFor(root, varOf)
	clauses = append(clauses, problem.Clause{rootLit})
	return CNFNormal, clauses
}

func literalFor(e Edge, varOf map[int]problem.Variable) problem.Literal {
	return problem.Lit(varOf[nodeIndex(e)], isInverted(e))
}
