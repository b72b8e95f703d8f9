// Package cip implements the textual CIP transition-system format (spec.md
// §6): a DECL section declaring variable roles followed by INIT/TRANS/TARGET
// clause sections whose literals carry an explicit timeframe, written
// "[id:timeframe]" with a leading "-" for negation.
//
// Grounded on _examples/original_source/src/bmc-io-cip.{hpp,cpp} and
// bmc-format-cip.{hpp,cpp}.
package cip

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/problem"
)

// VariableType classifies a declared CIP variable, mirroring
// bmc-format-cip.hpp's CipVariableType.
type VariableType uint8

const (
	Input VariableType = iota
	Output
	Latch
	Tseitin
)

func (t VariableType) declKeyword() string {
	switch t {
	case Input:
		return "INPUT_VAR"
	case Output:
		return "OUTPUT_VAR"
	case Latch:
		return "LATCH_VAR"
	default:
		return "AND_VAR"
	}
}

// Problem wraps a problem.Problem with the variable-role metadata the DECL
// section carries but problem.Problem itself has no room for.
type Problem struct {
	Variables []VariableType
	Init      problem.Clauses
	Trans     problem.Clauses
	Target    problem.Clauses
}

var literalPattern = regexp.MustCompile(`-?[0-9]+:[0-9]+`)

func parseClause(line string) (problem.Clause, error) {
	inner := strings.TrimSpace(line)
	if !strings.HasPrefix(inner, "(") || !strings.HasSuffix(inner, ")") {
		return nil, errors.Errorf("cip: expected a parenthesized clause, got %q", line)
	}
	inner = inner[1 : len(inner)-1]

	var clause problem.Clause
	for _, tok := range literalPattern.FindAllString(inner, -1) {
		parts := strings.SplitN(tok, ":", 2)
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, errors.Wrapf(err, "cip: literal %q", tok)
		}
		tf, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, errors.Wrapf(err, "cip: literal %q", tok)
		}
		v := id
		if v < 0 {
			v = -v
		}
		clause = append(clause, problem.Lit(problem.Variable(v-1), id < 0).AtTimeframe(int32(tf)))
	}
	return clause, nil
}

// Parse reads a CIP problem, returning both the CIP-level representation
// (needed to round-trip variable roles on export) and the plain
// problem.Problem the engine consumes.
func Parse(r io.Reader) (*Problem, *problem.Problem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	p := &Problem{}

	readSection := func(assign func(problem.Clause)) error {
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				return nil
			}
			clause, err := parseClause(line)
			if err != nil {
				return err
			}
			assign(clause)
		}
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "OFFSET:"), strings.HasPrefix(line, "USE_PROPERTY:"),
			strings.HasPrefix(line, "SIMPLIFY_INTERPOLANTS:"), strings.HasPrefix(line, "TIMEOUT:"),
			strings.HasPrefix(line, "MAXDEPTH:"):
			// Solver tuning directives the original format embeds inline;
			// nothing here consumes them, the caller's Configuration does.
			continue
		case strings.HasPrefix(line, "DECL"):
			for scanner.Scan() {
				decl := strings.TrimSpace(scanner.Text())
				if decl == "" {
					break
				}
				fields := strings.Fields(decl)
				if len(fields) != 2 {
					return nil, nil, errors.Errorf("cip: malformed DECL line %q", decl)
				}
				index, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, nil, errors.Wrapf(err, "cip: DECL index %q", decl)
				}
				if index != len(p.Variables)+1 {
					return nil, nil, errors.Errorf("cip: DECL index %d is out of sequence (expected %d)", index, len(p.Variables)+1)
				}
				var vt VariableType
				switch fields[0] {
				case "AND_VAR", "AUX_VAR":
					vt = Tseitin
				case "LATCH_VAR":
					vt = Latch
				case "INPUT_VAR":
					vt = Input
				case "OUTPUT_VAR":
					vt = Output
				default:
					return nil, nil, errors.Errorf("cip: unknown variable kind %q", fields[0])
				}
				p.Variables = append(p.Variables, vt)
			}
		case strings.HasPrefix(line, "INIT"):
			if err := readSection(func(c problem.Clause) { p.Init = append(p.Init, c) }); err != nil {
				return nil, nil, err
			}
		case strings.HasPrefix(line, "TRANS"):
			if err := readSection(func(c problem.Clause) { p.Trans = append(p.Trans, c) }); err != nil {
				return nil, nil, err
			}
		case strings.HasPrefix(line, "TARGET"):
			if err := readSection(func(c problem.Clause) { p.Target = append(p.Target, c) }); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, errors.Errorf("cip: unrecognized section header %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "cip: reading input")
	}

	if err := p.checkTseitinScoping(); err != nil {
		return nil, nil, err
	}

	bp, err := problem.NewProblem(len(p.Variables), p.Init, p.Trans, p.Target)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cip: invalid problem")
	}
	return p, bp, nil
}

// checkTseitinScoping enforces bmc-format-cip.cpp's rule that a Tseitin
// (AND_VAR) variable is a throwaway encoding detail local to a single
// section: it must never be referenced from more than one of INIT, TRANS
// and TARGET.
func (p *Problem) checkTseitinScoping() error {
	seen := make([]uint8, len(p.Variables))
	const (
		inInit = 1 << iota
		inTrans
		inTarget
	)
	mark := func(cs problem.Clauses, bit uint8, name string) error {
		for _, c := range cs {
			for _, l := range c {
				v := int(l.Variable())
				if v < 0 || v >= len(p.Variables) {
					return errors.Errorf("cip: %s references undeclared variable %d", name, v+1)
				}
				seen[v] |= bit
			}
		}
		return nil
	}
	if err := mark(p.Init, inInit, "INIT"); err != nil {
		return err
	}
	if err := mark(p.Trans, inTrans, "TRANS"); err != nil {
		return err
	}
	if err := mark(p.Target, inTarget, "TARGET"); err != nil {
		return err
	}
	for v, vt := range p.Variables {
		if vt != Tseitin {
			continue
		}
		bits := seen[v]
		if bits&(bits-1) != 0 {
			return errors.Errorf("cip: AND_VAR %d crosses a section boundary", v+1)
		}
	}

	for _, c := range p.Trans {
		for _, l := range c {
			if l.Timeframe() == 1 && p.Variables[l.Variable()] != Latch {
				return errors.Errorf("cip: TRANS literal for variable %d at timeframe 1 is not a LATCH_VAR", l.Variable()+1)
			}
		}
	}
	return nil
}

func writeClause(w *bufio.Writer, c problem.Clause) {
	fmt.Fprint(w, "(")
	for i, l := range c {
		if i != 0 {
			fmt.Fprint(w, ", ")
		}
		id := int(l.Variable()) + 1
		if l.Negated() {
			id = -id
		}
		fmt.Fprintf(w, "[%d:%d]", id, l.Timeframe())
	}
	fmt.Fprintln(w, ")")
}

// ExportProblem writes p back out in CIP's textual form.
func ExportProblem(w io.Writer, p *Problem) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "DECL")
	for i, vt := range p.Variables {
		fmt.Fprintf(bw, "%s %d\n", vt.declKeyword(), i+1)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "INIT")
	for _, c := range p.Init {
		writeClause(bw, c)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "TRANS")
	for _, c := range p.Trans {
		writeClause(bw, c)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "TARGET")
	for _, c := range p.Target {
		writeClause(bw, c)
	}
	return bw.Flush()
}

// ExportModel writes one "depth = assignment" line per timeframe, each
// assignment a string of "1"/"0"/"x" indexed by variable.
func ExportModel(w io.Writer, model *problem.Model) error {
	bw := bufio.NewWriter(w)
	for depth, tf := range model.Timeframes {
		fmt.Fprintf(bw, "%d = ", depth)
		for _, a := range tf {
			fmt.Fprint(bw, a.String())
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// ExportCertificate re-derives a CIP problem whose TARGET now forces ¬R(s)
// true, R(s) being cert's invariant, mirroring bmc-format-cip.cpp's
// CipCertificateBuilder. Every originally declared variable is reinterpreted
// as a Latch, since the invariant may mention any of them regardless of
// which section they were originally confined to; any Tseitin variables the
// conversion mints above the original count are declared AND_VAR.
func ExportCertificate(w io.Writer, p *Problem, cert *certificate.Certificate) error {
	variables := make([]VariableType, len(p.Variables))
	for i := range variables {
		variables[i] = Latch
	}

	nextVar := problem.Variable(len(p.Variables))
	_, target := cert.NegatedInvariantCNF(&nextVar)
	for len(variables) < int(nextVar) {
		variables = append(variables, Tseitin)
	}

	out := &Problem{
		Variables: variables,
		Init:      p.Init,
		Trans:     p.Trans,
		Target:    target,
	}
	return ExportProblem(w, out)
}
