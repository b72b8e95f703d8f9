package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ncip-solver/ncip"
	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/format/aiger"
	"github.com/ncip-solver/ncip/format/cip"
	"github.com/ncip-solver/ncip/format/dimspec"
	"github.com/ncip-solver/ncip/problem"
)

// cliOptions mirrors every flag spec.md §6 recognises; flags.go parses the
// string values, run builds an ncip.Configuration and an exporter from them.
type cliOptions struct {
	format string

	maxDepth int

	interpolant         string
	craigInterpolation  string
	fixedPointCheck     string
	sanityCheckProblem  string
	totalTrans          string
	preprocessInit      string
	preprocessTrans     string
	preprocessTarget    string
	preprocessCraig     string

	exportProblem     string
	exportResult      string
	exportModel       string
	exportCertificate string

	log string
}

func registerFlags(fs *pflag.FlagSet, o *cliOptions) {
	fs.StringVar(&o.format, "format", "cip", "input format: cip, aiger, dimspec")
	fs.IntVar(&o.maxDepth, "max-depth", 1000, "unrolling cap")
	fs.StringVar(&o.interpolant, "interpolant", "symmetric", "interpolant selector")
	fs.StringVar(&o.craigInterpolation, "craig-interpolation", "yes", "enable inner loop (yes/no)")
	fs.StringVar(&o.fixedPointCheck, "fixed-point-check", "yes", "enable fixed-point check (yes/no)")
	fs.StringVar(&o.sanityCheckProblem, "sanity-check-problem", "no", "enable sanity gates (yes/no)")
	fs.StringVar(&o.totalTrans, "total-trans", "no", "force full transition relation between frontier frames (yes/no)")
	fs.StringVar(&o.preprocessInit, "preprocess-init", "quick", "no, quick or expensive")
	fs.StringVar(&o.preprocessTrans, "preprocess-trans", "quick", "no, quick or expensive")
	fs.StringVar(&o.preprocessTarget, "preprocess-target", "quick", "no, quick or expensive")
	fs.StringVar(&o.preprocessCraig, "preprocess-craig", "quick", "no, quick or expensive")
	fs.StringVar(&o.exportProblem, "export-problem", "", "dump the parsed problem to this path")
	fs.StringVar(&o.exportResult, "export-result", "", "dump the result summary to this path")
	fs.StringVar(&o.exportModel, "export-model", "", "dump the witness model to this path")
	fs.StringVar(&o.exportCertificate, "export-certificate", "", "dump the UNSAT certificate to this path")
	fs.StringVar(&o.log, "log", "minimal", "diagnostic verbosity")
}

// optionLines renders every recognised flag as one Option: line, in
// registration order, for the Result file's audit trail.
func optionLines(fs *pflag.FlagSet) []string {
	var lines []string
	fs.VisitAll(func(f *pflag.Flag) {
		lines = append(lines, fmt.Sprintf("--%s=%s", f.Name, f.Value.String()))
	})
	return lines
}

// parsedFormat bundles a transition-system format's Parse result with the
// export closures run needs; a nil writeProblem/writeCertificate means that
// format has no exporter for that artefact.
type parsedFormat struct {
	bp *problem.Problem

	writeProblem     func(io.Writer) error
	writeModel       func(io.Writer, *problem.Model) error
	writeCertificate func(io.Writer, *certificate.Certificate) error
}

func parseInput(format string, r io.Reader) (*parsedFormat, error) {
	switch format {
	case "cip":
		dp, bp, err := cip.Parse(r)
		if err != nil {
			return nil, err
		}
		return &parsedFormat{
			bp:               bp,
			writeProblem:     func(w io.Writer) error { return cip.ExportProblem(w, dp) },
			writeModel:       cip.ExportModel,
			writeCertificate: func(w io.Writer, c *certificate.Certificate) error { return cip.ExportCertificate(w, dp, c) },
		}, nil

	case "dimspec":
		dp, bp, err := dimspec.Parse(r)
		if err != nil {
			return nil, err
		}
		return &parsedFormat{
			bp:               bp,
			writeProblem:     func(w io.Writer) error { return dimspec.ExportProblem(w, dp) },
			writeModel:       dimspec.ExportModel,
			writeCertificate: func(w io.Writer, c *certificate.Certificate) error { return dimspec.ExportCertificate(w, dp, c) },
		}, nil

	case "aiger":
		ap, bp, err := aiger.Parse(r)
		if err != nil {
			return nil, err
		}
		return &parsedFormat{
			bp: bp,
			writeModel: func(w io.Writer, m *problem.Model) error {
				return aiger.ExportModel(w, ap, m)
			},
		}, nil

	default:
		return nil, errors.Errorf("ncip: unrecognised --format %q", format)
	}
}

func buildConfiguration(o *cliOptions, exporter ncip.Exporter) (*ncip.Configuration, error) {
	selector, err := parseSelector(o.interpolant)
	if err != nil {
		return nil, err
	}
	craigOn, err := parseBool("--craig-interpolation", o.craigInterpolation)
	if err != nil {
		return nil, err
	}
	fixedPointOn, err := parseBool("--fixed-point-check", o.fixedPointCheck)
	if err != nil {
		return nil, err
	}
	sanityOn, err := parseBool("--sanity-check-problem", o.sanityCheckProblem)
	if err != nil {
		return nil, err
	}
	totalTransOn, err := parseBool("--total-trans", o.totalTrans)
	if err != nil {
		return nil, err
	}
	preInit, err := parsePreprocessLevel("--preprocess-init", o.preprocessInit)
	if err != nil {
		return nil, err
	}
	preTrans, err := parsePreprocessLevel("--preprocess-trans", o.preprocessTrans)
	if err != nil {
		return nil, err
	}
	preTarget, err := parsePreprocessLevel("--preprocess-target", o.preprocessTarget)
	if err != nil {
		return nil, err
	}
	preCraig, err := parsePreprocessLevel("--preprocess-craig", o.preprocessCraig)
	if err != nil {
		return nil, err
	}
	logLevel, err := parseLogLevel(o.log)
	if err != nil {
		return nil, err
	}

	return ncip.NewConfiguration(
		ncip.WithMaxDepth(o.maxDepth),
		ncip.WithInterpolantSelector(selector),
		ncip.WithCraigInterpolation(craigOn),
		ncip.WithFixedPointCheck(fixedPointOn),
		ncip.WithSanityChecks(sanityOn),
		ncip.WithTotalTransitionRelation(totalTransOn),
		ncip.WithPreprocessLevels(preInit, preTrans, preTarget, preCraig),
		ncip.WithLogLevel(logLevel),
		ncip.WithExporter(exporter),
	)
}

// run implements the whole CLI: parse the input in the chosen format, solve
// it, and write spec.md §6's Result file to output (stdout if empty).
func run(o *cliOptions, fs *pflag.FlagSet, inputPath, outputPath string) (int, error) {
	format, err := parseFormat(o.format)
	if err != nil {
		return 0, err
	}

	input := os.Stdin
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return 0, errors.Wrapf(err, "ncip: opening input %s", inputPath)
		}
		defer f.Close()
		input = f
	}

	pf, err := parseInput(format, input)
	if err != nil {
		return 0, err
	}

	exporter := &fileExporter{
		problemPath:      o.exportProblem,
		resultPath:       o.exportResult,
		modelPath:        o.exportModel,
		certificatePath:  o.exportCertificate,
		writeProblem:     pf.writeProblem,
		writeModel:       pf.writeModel,
		writeCertificate: pf.writeCertificate,
	}

	cfg, err := buildConfiguration(o, exporter)
	if err != nil {
		return 0, err
	}

	solver, err := ncip.New(pf.bp, cfg)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	result, err := solver.Solve()
	if err != nil {
		return 0, err
	}
	runtime := time.Since(start).Seconds()

	output := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return 0, errors.Wrapf(err, "ncip: opening output %s", outputPath)
		}
		defer f.Close()
		output = f
	}

	if err := writeResultFile(output, resultFileData{
		result:           result,
		runtimeSeconds:   runtime,
		options:          optionLines(fs),
		writeModel:       pf.writeModel,
		writeCertificate: pf.writeCertificate,
	}); err != nil {
		return 0, err
	}

	return result.Status.ExitCode(), nil
}
