package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A single-latch CIP problem whose target already holds at depth 0: the
// engine finds a witness model immediately (StatusSat, exit code 10).
const trivialSatCIP = `DECL
LATCH_VAR 1

INIT
([1:0])

TRANS
([-1:0], [-1:1])

TARGET
([1:0])
`

func newTestOptions() (*cliOptions, *pflag.FlagSet) {
	var o cliOptions
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerFlags(fs, &o)
	return &o, fs
}

func TestRunEndToEndSatCIPProblem(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "problem.cip")
	require.NoError(t, os.WriteFile(inputPath, []byte(trivialSatCIP), 0o644))
	outputPath := filepath.Join(dir, "result.txt")

	o, fs := newTestOptions()
	o.format = "cip"

	exitCode, err := run(o, fs, inputPath, outputPath)
	require.NoError(t, err)
	assert.Equal(t, 10, exitCode)

	out, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "Result: SAT\n"))
	assert.Contains(t, string(out), "Exit: 10\n")
	assert.Contains(t, string(out), "Model:\n")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "problem.cip")
	require.NoError(t, os.WriteFile(inputPath, []byte(trivialSatCIP), 0o644))

	o, fs := newTestOptions()
	o.format = "bogus"

	_, err := run(o, fs, inputPath, "")
	require.Error(t, err)
}

func TestRunExportsProblemAndModel(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "problem.cip")
	require.NoError(t, os.WriteFile(inputPath, []byte(trivialSatCIP), 0o644))
	outputPath := filepath.Join(dir, "result.txt")
	problemPath := filepath.Join(dir, "problem.export")
	modelPath := filepath.Join(dir, "model.export")

	o, fs := newTestOptions()
	o.format = "cip"
	o.exportProblem = problemPath
	o.exportModel = modelPath

	exitCode, err := run(o, fs, inputPath, outputPath)
	require.NoError(t, err)
	assert.Equal(t, 10, exitCode)

	_, err = os.Stat(problemPath)
	require.NoError(t, err)
	_, err = os.Stat(modelPath)
	require.NoError(t, err)
}
