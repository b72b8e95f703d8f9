// Package aiger implements the ASCII AIGER And-Inverter Graph format
// (spec.md §6): inputs, latches (with reset bits), AND gates, and the
// optional 1.9 extensions for outputs, bad-state outputs and invariant
// constraints.
//
// The original engine (_examples/original_source/src/bmc-io-aig.cpp)
// delegates wire-format parsing entirely to the external aiger.h C library
// and only implements the AigProblemBuilder that turns the parsed graph into
// a BmcProblem; no Go library in the example pack offers an AIGER codec, so
// the ASCII grammar itself is hand-rolled here (see DESIGN.md). The
// structural-to-CNF conversion below, however, is grounded on this engine's
// own internal/aig.Graph and its ToCNF — the same building blocks
// fixedpoint.go's edgeLiteral already composes — rather than replicating the
// original's far more involved AigProblemBuilder::Build, which exists only
// to work around a variable model this engine doesn't have (see
// DESIGN.md's "AIGER conversion" entry).
package aiger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/problem"
)

// Problem is the structural AIG an AIGER file describes: node literals are
// kept in AIGER's own numbering (2*index, +1 for negation) so ExportModel
// can report assignments the way aigsim does.
type Problem struct {
	Inputs      []uint64
	InputVars   []problem.Variable
	Latches     []uint64
	LatchVars   []problem.Variable
	LatchNext   map[uint64]uint64
	LatchReset  map[uint64]uint64
	Outputs     []uint64
	Bads        []uint64
	Constraints []uint64
	Comments    []string

	// TrueVar is the reserved problem variable this conversion pins true in
	// every section (Init, Trans's timeframe-0 half, and Target) so that a
	// structurally-constant AND-gate result reads correctly at every frame
	// a BmcSolver ever builds: Trans's own per-frame shifting only ever
	// covers the frames between 0 and the current depth, never the
	// frontier frame itself, which only Target sees.
	TrueVar problem.Variable

	// BadLiteral is the single representative literal Target's
	// Tseitin conversion produced for "OR of every bad/output literal",
	// recorded so ExportModel can report whether the combined bad
	// condition held at the final timeframe. Individual AND-gate nodes
	// referenced directly by a bad/output literal don't get their own
	// stable problem.Variable under this conversion (see the package doc),
	// so unlike aigsim, ExportModel can't attribute satisfaction to one
	// specific bad index among several.
	BadLiteral problem.Literal
}

type latchDef struct {
	lit, next, reset uint64
}

type andDef struct {
	lhs, rhs0, rhs1 uint64
}

func toEdge(edgeOf map[uint64]aig.Edge, lit uint64) (aig.Edge, error) {
	switch lit {
	case 0:
		// AIGER's literal 0 is constant FALSE, the opposite of
		// internal/aig.Graph's own edge-0-is-True convention.
		return aig.False, nil
	case 1:
		return aig.True, nil
	}
	idx := lit >> 1
	e, ok := edgeOf[idx]
	if !ok {
		return 0, errors.Errorf("aiger: literal %d references an undefined node", lit)
	}
	if lit&1 != 0 {
		return aig.Not(e), nil
	}
	return e, nil
}

// definingAndLiteral returns edge's Tseitin-defining clauses (never
// asserting edge true on its own) plus a literal whose value always equals
// edge's, the same shape fixedpoint.go's edgeLiteral uses: a constant edge
// gets a literal pinned by trueVar instead of a fresh unit clause, since
// trueVar is already forced true in every section this conversion writes to.
func definingAndLiteral(g *aig.Graph, edge aig.Edge, trueVar problem.Variable, nextVar *problem.Variable) (problem.Clauses, problem.Literal) {
	if edge == aig.True {
		return nil, problem.Pos(trueVar)
	}
	if edge == aig.False {
		return nil, problem.Neg(trueVar)
	}
	_, clauses := g.ToCNF(edge, nextVar)
	last := len(clauses) - 1
	return clauses[:last], clauses[last][0]
}

// Parse reads an ASCII ("aag") AIGER file.
//
// Justice and fairness (liveness) sections are rejected outright: this
// engine only ever checks safety properties via bounded unrolling, so there
// is no operation that could consume them — a deliberate scope limit, not an
// oversight.
func Parse(r io.Reader) (*Problem, *problem.Problem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	if !scanner.Scan() {
		return nil, nil, errors.New("aiger: empty input")
	}
	header := strings.Fields(scanner.Text())
	if len(header) < 6 || header[0] != "aag" {
		return nil, nil, errors.Errorf("aiger: expected an \"aag M I L O A\" header, got %q", strings.Join(header, " "))
	}
	fields := make([]int, len(header)-1)
	for i, f := range header[1:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "aiger: header field %q", f)
		}
		fields[i] = n
	}
	numI, numL, numO, numA := fields[1], fields[2], fields[3], fields[4]
	var numB, numC, numJ, numF int
	if len(fields) > 5 {
		numB = fields[5]
	}
	if len(fields) > 6 {
		numC = fields[6]
	}
	if len(fields) > 7 {
		numJ = fields[7]
	}
	if len(fields) > 8 {
		numF = fields[8]
	}
	if numJ > 0 || numF > 0 {
		return nil, nil, errors.New("aiger: justice/fairness (liveness) constraints are not supported")
	}

	readLines := func(n int) ([]string, error) {
		out := make([]string, 0, n)
		for len(out) < n {
			if !scanner.Scan() {
				return nil, errors.New("aiger: unexpected end of input")
			}
			out = append(out, scanner.Text())
		}
		return out, nil
	}

	inputLines, err := readLines(numI)
	if err != nil {
		return nil, nil, err
	}
	latchLines, err := readLines(numL)
	if err != nil {
		return nil, nil, err
	}
	outputLines, err := readLines(numO)
	if err != nil {
		return nil, nil, err
	}
	badLines, err := readLines(numB)
	if err != nil {
		return nil, nil, err
	}
	constraintLines, err := readLines(numC)
	if err != nil {
		return nil, nil, err
	}
	andLines, err := readLines(numA)
	if err != nil {
		return nil, nil, err
	}

	p := &Problem{LatchNext: make(map[uint64]uint64), LatchReset: make(map[uint64]uint64)}
	g := aig.New()
	edgeOf := make(map[uint64]aig.Edge)
	varOf := make(map[uint64]problem.Variable)

	var nextVar problem.Variable
	trueVar := nextVar
	nextVar++

	parseLit := func(s, context string) (uint64, error) {
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "aiger: %s literal %q", context, s)
		}
		return n, nil
	}

	for _, line := range inputLines {
		lit, err := parseLit(line, "input")
		if err != nil {
			return nil, nil, err
		}
		v := nextVar
		nextVar++
		edgeOf[lit>>1] = g.Literal(problem.Pos(v))
		varOf[lit>>1] = v
		p.Inputs = append(p.Inputs, lit)
		p.InputVars = append(p.InputVars, v)
	}

	var latchDefs []latchDef
	for _, line := range latchLines {
		f := strings.Fields(line)
		if len(f) != 2 && len(f) != 3 {
			return nil, nil, errors.Errorf("aiger: malformed latch line %q", line)
		}
		lit, err := parseLit(f[0], "latch")
		if err != nil {
			return nil, nil, err
		}
		next, err := parseLit(f[1], "latch next-state")
		if err != nil {
			return nil, nil, err
		}
		var reset uint64
		if len(f) == 3 {
			reset, err = parseLit(f[2], "latch reset")
			if err != nil {
				return nil, nil, err
			}
		}
		v := nextVar
		nextVar++
		edgeOf[lit>>1] = g.Literal(problem.Pos(v))
		varOf[lit>>1] = v
		latchDefs = append(latchDefs, latchDef{lit: lit, next: next, reset: reset})
		p.Latches = append(p.Latches, lit)
		p.LatchVars = append(p.LatchVars, v)
		p.LatchNext[lit] = next
		p.LatchReset[lit] = reset
	}

	for _, line := range outputLines {
		lit, err := parseLit(line, "output")
		if err != nil {
			return nil, nil, err
		}
		p.Outputs = append(p.Outputs, lit)
	}
	for _, line := range badLines {
		lit, err := parseLit(line, "bad")
		if err != nil {
			return nil, nil, err
		}
		p.Bads = append(p.Bads, lit)
	}
	for _, line := range constraintLines {
		lit, err := parseLit(line, "constraint")
		if err != nil {
			return nil, nil, err
		}
		p.Constraints = append(p.Constraints, lit)
	}

	var andDefs []andDef
	for _, line := range andLines {
		f := strings.Fields(line)
		if len(f) != 3 {
			return nil, nil, errors.Errorf("aiger: malformed AND line %q", line)
		}
		lhs, err := parseLit(f[0], "and lhs")
		if err != nil {
			return nil, nil, err
		}
		rhs0, err := parseLit(f[1], "and rhs0")
		if err != nil {
			return nil, nil, err
		}
		rhs1, err := parseLit(f[2], "and rhs1")
		if err != nil {
			return nil, nil, err
		}
		andDefs = append(andDefs, andDef{lhs: lhs, rhs0: rhs0, rhs1: rhs1})
	}
	for _, a := range andDefs {
		l, err := toEdge(edgeOf, a.rhs0)
		if err != nil {
			return nil, nil, err
		}
		r, err := toEdge(edgeOf, a.rhs1)
		if err != nil {
			return nil, nil, err
		}
		edgeOf[a.lhs>>1] = g.And(l, r)
	}

	p.readComments(scanner)

	init := problem.Clauses{{problem.Pos(trueVar)}}
	trans := problem.Clauses{{problem.Pos(trueVar)}}
	// Trans's trueVar unit only ever reaches frames 0..k-1 of a depth-k
	// unrolling (it rides the same per-frame shifting every other Trans
	// clause does); Target is the only section activated at the frontier
	// frame k itself, so it needs its own copy to keep trueVar provably
	// true there too.
	target := problem.Clauses{{problem.Pos(trueVar)}}

	for _, ld := range latchDefs {
		nextEdge, err := toEdge(edgeOf, ld.next)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "aiger: latch %d next-state", ld.lit)
		}
		defining, nextLit := definingAndLiteral(g, nextEdge, trueVar, &nextVar)
		trans = append(trans, defining...)

		latchLit := problem.Pos(varOf[ld.lit>>1])
		trans = append(trans,
			problem.Clause{latchLit.Not().Shift(1), nextLit},
			problem.Clause{latchLit.Shift(1), nextLit.Not()},
		)

		switch {
		case ld.reset == 0:
			init = append(init, problem.Clause{latchLit.Not()})
		case ld.reset == 1:
			init = append(init, problem.Clause{latchLit})
		case ld.reset>>1 == ld.lit>>1:
			// AIGER 1.9's "reset to self" convention: the latch's
			// initial value is left non-deterministic.
		default:
			return nil, nil, errors.Errorf("aiger: latch %d has an unsupported non-constant reset literal %d", ld.lit, ld.reset)
		}
	}

	for _, lit := range p.Constraints {
		e, err := toEdge(edgeOf, lit)
		if err != nil {
			return nil, nil, err
		}
		defining, l := definingAndLiteral(g, e, trueVar, &nextVar)
		init = append(init, defining...)
		init = append(init, problem.Clause{l})
		trans = append(trans, defining...)
		trans = append(trans, problem.Clause{l})
	}

	badLits := p.Bads
	if len(badLits) == 0 {
		badLits = p.Outputs
	}
	if len(badLits) == 0 {
		return nil, nil, errors.New("aiger: no bad or output literals to build a target predicate from")
	}
	edges := make([]aig.Edge, len(badLits))
	for i, lit := range badLits {
		e, err := toEdge(edgeOf, lit)
		if err != nil {
			return nil, nil, err
		}
		edges[i] = e
	}
	badOr := g.OrMany(edges)
	defining, badLit := definingAndLiteral(g, badOr, trueVar, &nextVar)
	target = append(target, defining...)
	target = append(target, problem.Clause{badLit})

	p.TrueVar = trueVar
	p.BadLiteral = badLit

	bp, err := problem.NewProblem(int(nextVar), init, trans, target)
	if err != nil {
		return nil, nil, errors.Wrap(err, "aiger: invalid problem")
	}
	return p, bp, nil
}

// readComments consumes the optional symbol table and "c"-prefixed free-form
// comment block; symbol table lines (e.g. "i0 reset") are skipped, since
// this conversion has no use for human-readable node names.
func (p *Problem) readComments(scanner *bufio.Scanner) {
	for scanner.Scan() {
		line := scanner.Text()
		if line == "c" {
			for scanner.Scan() {
				p.Comments = append(p.Comments, scanner.Text())
			}
			return
		}
	}
}

// ExportModel writes the model in aigsim's plain-text format: whether the
// combined bad literal holds at the last timeframe, the initial latch
// values, then one line of
// input values per timeframe. This, unlike ExportProblem/ExportCertificate,
// doesn't need the structural AIG at all, only the Inputs/Latches/Bads
// literal lists recorded during Parse — see DESIGN.md for why the inverse
// direction (serializing a problem.Problem or certificate back into AIGER's
// own node format) is not implemented.
func ExportModel(w io.Writer, p *Problem, model *problem.Model) error {
	bw := bufio.NewWriter(w)

	toAigsim := func(a problem.Assignment) string {
		switch a {
		case problem.Positive:
			return "1"
		case problem.Negative:
			return "0"
		default:
			return "x"
		}
	}

	// aigsim reports which individual bad/output index is satisfied at
	// which depth; this conversion only keeps one combined representative
	// literal for "any bad/output", so it reports "b0" when that literal
	// holds at the model's last timeframe (see BadLiteral's doc).
	fmt.Fprintln(bw, "1")
	if len(model.Timeframes) > 0 {
		lastDepth := int32(len(model.Timeframes) - 1)
		if model.Assignment(p.BadLiteral.AtTimeframe(lastDepth)) == problem.Positive {
			fmt.Fprint(bw, "b0")
		}
	}
	fmt.Fprintln(bw)

	if len(model.Timeframes) > 0 {
		for _, v := range p.LatchVars {
			fmt.Fprint(bw, toAigsim(model.Timeframes[0][v]))
		}
	}
	fmt.Fprintln(bw)

	for depth := range model.Timeframes {
		for _, v := range p.InputVars {
			fmt.Fprint(bw, toAigsim(model.Timeframes[depth][v]))
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw, ".")

	return bw.Flush()
}
