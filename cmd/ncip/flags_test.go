package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncip-solver/ncip"
	"github.com/ncip-solver/ncip/internal/craig"
	"github.com/ncip-solver/ncip/internal/satcore"
)

func TestParseFormatRejectsUnknown(t *testing.T) {
	_, err := parseFormat("bogus")
	require.Error(t, err)
}

func TestParseFormatAcceptsAllThree(t *testing.T) {
	for _, f := range []string{"cip", "aiger", "dimspec"} {
		got, err := parseFormat(f)
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestParseSelectorCoversAllEight(t *testing.T) {
	cases := map[string]craig.Selector{
		"symmetric":       craig.SelectSymmetric,
		"asymmetric":      craig.SelectAsymmetric,
		"dual-symmetric":  craig.SelectDualSymmetric,
		"dual-asymmetric": craig.SelectDualAsymmetric,
		"intersection":    craig.SelectIntersection,
		"union":           craig.SelectUnion,
		"smallest":        craig.SelectSmallest,
		"largest":         craig.SelectLargest,
	}
	for name, want := range cases {
		got, err := parseSelector(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := parseSelector("bogus")
	require.Error(t, err)
}

func TestParseBool(t *testing.T) {
	yes, err := parseBool("--flag", "yes")
	require.NoError(t, err)
	assert.True(t, yes)

	no, err := parseBool("--flag", "no")
	require.NoError(t, err)
	assert.False(t, no)

	_, err = parseBool("--flag", "maybe")
	require.Error(t, err)
}

func TestParsePreprocessLevel(t *testing.T) {
	cases := map[string]satcore.PreprocessLevel{
		"no":        satcore.PreprocessNone,
		"quick":     satcore.PreprocessSimple,
		"expensive": satcore.PreprocessExpensive,
	}
	for name, want := range cases {
		got, err := parsePreprocessLevel("--preprocess-init", name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := parsePreprocessLevel("--preprocess-init", "bogus")
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	got, err := parseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, ncip.LogDebug, got)

	_, err = parseLogLevel("bogus")
	require.Error(t, err)
}
