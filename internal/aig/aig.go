// Package aig implements a hash-consed And-Inverter Graph with constant
// folding, used to represent interpolants during Craig interpolant
// construction and to emit interpolation-based certificates.
//
// Graph is grounded on the node-arena style of MiniCraig's Aig
// (_examples/original_source/deps/minicraig/minisat/mtl/Aig.{h,cc}): an
// index-addressable node arena plus two hash-cons tables, rather than a
// pointer-based node graph (see DESIGN.md, "Source patterns requiring
// re-architecture (a)").
package aig

import "github.com/ncip-solver/ncip/problem"

// Edge references a node with an inversion bit packed into the low bit:
// Edge(idx<<1) is the positive reference to node idx, Edge(idx<<1)|1 is its
// negation. Node 0 is an implicit constant: edge 0 is constant-TRUE and
// edge 1 is constant-FALSE.
type Edge uint32

const (
	True  Edge = 0
	False Edge = 1
)

// Not returns the negation of e.
func Not(e Edge) Edge { return e ^ 1 }

// IsConstant reports whether e denotes True or False.
func IsConstant(e Edge) bool { return e == True || e == False }

func nodeIndex(e Edge) int   { return int(e >> 1) }
func isInverted(e Edge) bool { return e&1 != 0 }
func edgeOf(idx int, inverted bool) Edge {
	e := Edge(idx) << 1
	if inverted {
		e |= 1
	}
	return e
}

type kind uint8

const (
	kindConst kind = iota
	kindVar
	kindAnd
)

type node struct {
	kind kind
	lit  problem.Literal // valid for kindVar; always stored at positive polarity
	l, r Edge            // valid for kindAnd
}

// Graph is a hash-consed AIG. The zero value is not usable; use New.
type Graph struct {
	nodes    []node
	litIndex map[problem.Literal]Edge
	andIndex map[[2]Edge]Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    []node{{kind: kindConst}},
		litIndex: make(map[problem.Literal]Edge),
		andIndex: make(map[[2]Edge]Edge),
	}
}

// ConstTrue returns the constant-TRUE edge.
func (g *Graph) ConstTrue() Edge { return True }

// ConstFalse returns the constant-FALSE edge.
func (g *Graph) ConstFalse() Edge { return False }

// Literal returns the edge for a BMC literal, creating a leaf node on the
// first reference to its variable.
func (g *Graph) Literal(l problem.Literal) Edge {
	key := l.Positive()
	if e, ok := g.litIndex[key]; ok {
		if l.Negated() {
			return Not(e)
		}
		return e
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, node{kind: kindVar, lit: key})
	e := edgeOf(idx, false)
	g.litIndex[key] = e
	if l.Negated() {
		return Not(e)
	}
	return e
}

// And returns the edge for e1 AND e2, applying constant folding before
// consulting (and possibly populating) the hash-consing table.
func (g *Graph) And(e1, e2 Edge) Edge {
	switch {
	case e1 == False || e2 == False:
		return False
	case e1 == Not(e2):
		return False
	case e1 == True && e2 == True:
		return True
	case e1 == True || e1 == e2:
		return e2
	case e2 == True:
		return e1
	}

	a, b := e1, e2
	if b < a {
		a, b = b, a
	}
	key := [2]Edge{a, b}
	if e, ok := g.andIndex[key]; ok {
		return e
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, node{kind: kindAnd, l: a, r: b})
	e := edgeOf(idx, false)
	g.andIndex[key] = e
	return e
}

// AndMany reduces edges by pairwise AND in a balanced-tree pattern, halving
// per round, returning True for an empty list.
func (g *Graph) AndMany(edges []Edge) Edge {
	if len(edges) == 0 {
		return True
	}
	cur := append([]Edge(nil), edges...)
	for len(cur) > 1 {
		next := make([]Edge, 0, (len(cur)+1)/2)
		i := 0
		for ; i+1 < len(cur); i += 2 {
			next = append(next, g.And(cur[i], cur[i+1]))
		}
		if i < len(cur) {
			next = append(next, cur[i])
		}
		cur = next
	}
	return cur[0]
}

// Or returns the edge for e1 OR e2, the De Morgan dual of And.
func (g *Graph) Or(e1, e2 Edge) Edge {
	return Not(g.And(Not(e1), Not(e2)))
}

// OrMany is the De Morgan dual of AndMany.
func (g *Graph) OrMany(edges []Edge) Edge {
	inv := make([]Edge, len(edges))
	for i, e := range edges {
		inv[i] = Not(e)
	}
	return Not(g.AndMany(inv))
}
