package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip"
	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/problem"
)

// fileExporter implements ncip.Exporter by writing each artefact to the
// path given by the matching --export-* flag (empty path means "don't
// write this one"). writeProblem/writeCertificate are nil when the chosen
// transition-system format has no exporter for that artefact (format/aiger
// deliberately has neither — see its package doc) and the CLI reports that
// instead of silently dropping the artefact.
type fileExporter struct {
	problemPath     string
	resultPath      string
	modelPath       string
	certificatePath string

	writeProblem     func(io.Writer) error
	writeModel       func(io.Writer, *problem.Model) error
	writeCertificate func(io.Writer, *certificate.Certificate) error
}

func createAndWrite(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "ncip: opening %s for export", path)
	}
	defer f.Close()
	return write(f)
}

func (e *fileExporter) Problem(*problem.Problem) error {
	if e.problemPath == "" {
		return nil
	}
	if e.writeProblem == nil {
		return errors.Errorf("ncip: --export-problem is not supported for this --format")
	}
	return createAndWrite(e.problemPath, e.writeProblem)
}

func (e *fileExporter) Result(r *ncip.Result) error {
	if e.resultPath == "" {
		return nil
	}
	return createAndWrite(e.resultPath, func(w io.Writer) error {
		_, err := io.WriteString(w, "Result: "+r.Status.String()+"\n")
		return err
	})
}

func (e *fileExporter) Model(m *problem.Model) error {
	if e.modelPath == "" {
		return nil
	}
	return createAndWrite(e.modelPath, func(w io.Writer) error {
		return e.writeModel(w, m)
	})
}

func (e *fileExporter) Certificate(c *certificate.Certificate) error {
	if e.certificatePath == "" {
		return nil
	}
	if e.writeCertificate == nil {
		return errors.Errorf("ncip: --export-certificate is not supported for this --format")
	}
	return createAndWrite(e.certificatePath, func(w io.Writer) error {
		return e.writeCertificate(w, c)
	})
}
