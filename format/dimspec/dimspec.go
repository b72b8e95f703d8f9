// Package dimspec implements the DIMACS-style DIMSPEC transition-system
// format (spec.md §6): four "<kind> cnf <vars> <clauses>" sections (u, i, g,
// t for universal, initial, goal, transition) whose literal numbering is
// plain DIMACS except the transition section, whose variable space is
// doubled (1..N current state, N+1..2N next state).
//
// Grounded on _examples/original_source/src/bmc-format-dimspec.{hpp,cpp} and
// bmc-io-dimspec.cpp.
package dimspec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/problem"
)

// Problem wraps a problem.Problem with the Universal clause section: those
// clauses are logically conjoined into Init, Trans and Goal before the
// engine ever sees them, but kept separate here so ExportCertificate can
// reproduce them the way the original format does.
type Problem struct {
	Variables int
	Init      problem.Clauses
	Trans     problem.Clauses
	Goal      problem.Clauses
	Universal problem.Clauses
}

func parseClauseLine(line string, variables int) (problem.Clause, error) {
	var clause problem.Clause
	for _, tok := range strings.Fields(line) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errors.Wrapf(err, "dimspec: literal %q", tok)
		}
		if n == 0 {
			break
		}
		abs := n
		if abs < 0 {
			abs = -abs
		}
		v := (abs - 1) % variables
		tf := (abs - 1) / variables
		clause = append(clause, problem.Lit(problem.Variable(v), n < 0).AtTimeframe(int32(tf)))
	}
	return clause, nil
}

// Parse reads a DIMSPEC problem, conjoining the Universal section into
// Init, Trans and Goal to produce the plain problem.Problem the engine
// consumes.
func Parse(r io.Reader) (*Problem, *problem.Problem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	p := &Problem{}
	declared := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, nil, errors.Errorf("dimspec: malformed section header %q", line)
		}
		kind := fields[0]
		if fields[1] != "cnf" {
			return nil, nil, errors.Errorf("dimspec: expected \"cnf\" in header %q", line)
		}
		numVars, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "dimspec: variable count in %q", line)
		}
		numClauses, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "dimspec: clause count in %q", line)
		}

		if kind == "t" {
			if numVars%2 != 0 {
				return nil, nil, errors.Errorf("dimspec: transition section variable count %d is not even", numVars)
			}
			numVars /= 2
		}
		if declared && numVars != p.Variables {
			return nil, nil, errors.Errorf("dimspec: section %q declares %d variables, expected %d", kind, numVars, p.Variables)
		}
		p.Variables = numVars
		declared = true

		var dest *problem.Clauses
		switch kind {
		case "u":
			dest = &p.Universal
		case "i":
			dest = &p.Init
		case "g":
			dest = &p.Goal
		case "t":
			dest = &p.Trans
		default:
			return nil, nil, errors.Errorf("dimspec: unknown section kind %q", kind)
		}

		for read := 0; read < numClauses; {
			if !scanner.Scan() {
				return nil, nil, errors.Errorf("dimspec: section %q truncated, expected %d clauses", kind, numClauses)
			}
			cl := strings.TrimSpace(scanner.Text())
			if cl == "" || strings.HasPrefix(cl, "c") {
				continue
			}
			clause, err := parseClauseLine(cl, p.Variables)
			if err != nil {
				return nil, nil, err
			}
			*dest = append(*dest, clause)
			read++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "dimspec: reading input")
	}

	init := append(append(problem.Clauses(nil), p.Init...), p.Universal...)
	trans := append(append(problem.Clauses(nil), p.Trans...), p.Universal...)
	goal := append(append(problem.Clauses(nil), p.Goal...), p.Universal...)

	bp, err := problem.NewProblem(p.Variables, init, trans, goal)
	if err != nil {
		return nil, nil, errors.Wrap(err, "dimspec: invalid problem")
	}
	return p, bp, nil
}

func literalID(l problem.Literal, variables int) int {
	n := int(l.Variable()) + int(l.Timeframe())*variables + 1
	if l.Negated() {
		n = -n
	}
	return n
}

func writeSection(bw *bufio.Writer, kind string, variables int, cs problem.Clauses) {
	fmt.Fprintf(bw, "%s cnf %d %d\n", kind, variables, len(cs))
	for _, c := range cs {
		for _, l := range c {
			fmt.Fprintf(bw, "%d ", literalID(l, variables))
		}
		fmt.Fprintln(bw, "0")
	}
}

// ExportProblem writes p back out in DIMSPEC's four-section form.
func ExportProblem(w io.Writer, p *Problem) error {
	bw := bufio.NewWriter(w)
	writeSection(bw, "u", p.Variables, p.Universal)
	writeSection(bw, "i", p.Variables, p.Init)
	writeSection(bw, "g", p.Variables, p.Goal)
	writeSection(bw, "t", 2*p.Variables, p.Trans)
	return bw.Flush()
}

// ExportModel writes one DIMACS-style "v<depth> <literals> 0" line per
// timeframe, omitting DontCare variables entirely.
func ExportModel(w io.Writer, model *problem.Model) error {
	bw := bufio.NewWriter(w)
	for depth, tf := range model.Timeframes {
		fmt.Fprintf(bw, "v%d", depth)
		for v, a := range tf {
			switch a {
			case problem.Positive:
				fmt.Fprintf(bw, " %d", v+1)
			case problem.Negative:
				fmt.Fprintf(bw, " -%d", v+1)
			}
		}
		fmt.Fprintln(bw, " 0")
	}
	return bw.Flush()
}

// ExportCertificate mirrors bmc-format-dimspec.cpp's
// DimspecCertificateBuilder: the negation of cert's invariant is
// Tseitin-converted into the new GOAL section, with the Universal section
// (already folded into Init/Trans/Goal at Parse time, and preserved
// unconditionally true for every state) carried through unchanged.
func ExportCertificate(w io.Writer, p *Problem, cert *certificate.Certificate) error {
	nextVar := problem.Variable(p.Variables)
	_, goal := cert.NegatedInvariantCNF(&nextVar)

	out := &Problem{
		Variables: int(nextVar),
		Init:      p.Init,
		Trans:     p.Trans,
		Goal:      goal,
		Universal: p.Universal,
	}
	return ExportProblem(w, out)
}
