package main

import (
	"fmt"
	"io"

	"github.com/ncip-solver/ncip"
	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/problem"
)

// resultFileData holds everything writeResultFile needs to render spec.md
// §6's "Result file" text: status/exit/depth/runtime header lines, one
// Option: line per recognised CLI flag, then either a Model: or a
// Certificate: section holding the format-specific export of whichever
// artefact the run produced.
type resultFileData struct {
	result         *ncip.Result
	runtimeSeconds float64
	options        []string

	writeModel       func(io.Writer, *problem.Model) error
	writeCertificate func(io.Writer, *certificate.Certificate) error
}

func writeResultFile(w io.Writer, d resultFileData) error {
	fmt.Fprintf(w, "Result: %s\n", d.result.Status.String())
	fmt.Fprintf(w, "Exit: %d\n", d.result.Status.ExitCode())
	fmt.Fprintf(w, "Depth: %d\n", d.result.Depth)
	fmt.Fprintf(w, "Runtime: %.3f seconds\n", d.runtimeSeconds)
	for _, o := range d.options {
		fmt.Fprintf(w, "Option: %s\n", o)
	}

	switch {
	case d.result.Model != nil:
		fmt.Fprintln(w, "Model:")
		return d.writeModel(w, d.result.Model)
	case d.result.Certificate != nil:
		fmt.Fprintln(w, "Certificate:")
		if d.writeCertificate == nil {
			fmt.Fprintln(w, "(certificate export is not supported for this --format)")
			return nil
		}
		return d.writeCertificate(w, d.result.Certificate)
	default:
		return nil
	}
}
