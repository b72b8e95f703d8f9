package main

import (
	"github.com/pkg/errors"

	"github.com/ncip-solver/ncip"
	"github.com/ncip-solver/ncip/internal/craig"
	"github.com/ncip-solver/ncip/internal/satcore"
)

func parseFormat(s string) (string, error) {
	switch s {
	case "cip", "aiger", "dimspec":
		return s, nil
	default:
		return "", errors.Errorf("ncip: unrecognised --format %q (want cip, aiger or dimspec)", s)
	}
}

func parseSelector(s string) (craig.Selector, error) {
	switch s {
	case "symmetric":
		return craig.SelectSymmetric, nil
	case "asymmetric":
		return craig.SelectAsymmetric, nil
	case "dual-symmetric":
		return craig.SelectDualSymmetric, nil
	case "dual-asymmetric":
		return craig.SelectDualAsymmetric, nil
	case "intersection":
		return craig.SelectIntersection, nil
	case "union":
		return craig.SelectUnion, nil
	case "smallest":
		return craig.SelectSmallest, nil
	case "largest":
		return craig.SelectLargest, nil
	default:
		return 0, errors.Errorf("ncip: unrecognised --interpolant %q", s)
	}
}

func parseBool(flag, s string) (bool, error) {
	switch s {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, errors.Errorf("ncip: %s wants yes or no, got %q", flag, s)
	}
}

func parsePreprocessLevel(flag, s string) (satcore.PreprocessLevel, error) {
	switch s {
	case "no":
		return satcore.PreprocessNone, nil
	case "quick":
		return satcore.PreprocessSimple, nil
	case "expensive":
		return satcore.PreprocessExpensive, nil
	default:
		return 0, errors.Errorf("ncip: %s wants no, quick or expensive, got %q", flag, s)
	}
}

func parseLogLevel(s string) (ncip.LogLevel, error) {
	switch s {
	case "none":
		return ncip.LogNone, nil
	case "competition":
		return ncip.LogCompetition, nil
	case "minimal":
		return ncip.LogMinimal, nil
	case "info":
		return ncip.LogInfo, nil
	case "debug":
		return ncip.LogDebug, nil
	case "trace":
		return ncip.LogTrace, nil
	case "extended-trace":
		return ncip.LogExtendedTrace, nil
	case "full-trace":
		return ncip.LogFullTrace, nil
	default:
		return 0, errors.Errorf("ncip: unrecognised --log %q", s)
	}
}
