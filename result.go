package ncip

import (
	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/problem"
)

// Status is the outcome of a Solve call, spec.md §4.4's "failure semantics"
// plus the two reachability outcomes.
type Status uint8

const (
	StatusSat Status = iota
	StatusUnsat
	StatusDepthLimitReached
	StatusCraigLimitReached
	StatusMemoryLimitReached
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "SAT"
	case StatusUnsat:
		return "UNSAT"
	case StatusDepthLimitReached:
		return "DepthLimitReached"
	case StatusCraigLimitReached:
		return "CraigLimitReached"
	case StatusMemoryLimitReached:
		return "MemoryLimitReached"
	case StatusInterrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}

// ExitCode implements spec.md §6's CLI exit code table.
func (s Status) ExitCode() int {
	switch s {
	case StatusSat:
		return 10
	case StatusUnsat:
		return 20
	case StatusDepthLimitReached, StatusCraigLimitReached, StatusMemoryLimitReached:
		return 30
	case StatusInterrupted:
		return 40
	default:
		return 1
	}
}

// Result is what Solve always returns instead of an error for any solve-time
// outcome (solve-time status is never an error, per SPEC_FULL.md §1).
type Result struct {
	Status      Status
	Depth       int
	Model       *problem.Model
	Certificate *certificate.Certificate
}

func ForModel(model *problem.Model, depth int) *Result {
	return &Result{Status: StatusSat, Depth: depth, Model: model}
}

func ForCertificate(cert *certificate.Certificate, depth int) *Result {
	return &Result{Status: StatusUnsat, Depth: depth, Certificate: cert}
}

func ForDepthLimit(depth int) *Result {
	return &Result{Status: StatusDepthLimitReached, Depth: depth}
}

func ForCraigLimit(depth int) *Result {
	return &Result{Status: StatusCraigLimitReached, Depth: depth}
}

func ForUserInterrupt(depth int) *Result {
	return &Result{Status: StatusInterrupted, Depth: depth}
}

func ForMemoryLimit(depth int) *Result {
	return &Result{Status: StatusMemoryLimitReached, Depth: depth}
}
