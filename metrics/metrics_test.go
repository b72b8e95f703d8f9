package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncip-solver/ncip"
	"github.com/ncip-solver/ncip/certificate"
	"github.com/ncip-solver/ncip/internal/aig"
	"github.com/ncip-solver/ncip/problem"
)

type spyExporter struct {
	problems     int
	results      []*ncip.Result
	certificates []*certificate.Certificate
}

func (s *spyExporter) Problem(*problem.Problem) error { s.problems++; return nil }
func (s *spyExporter) Result(r *ncip.Result) error     { s.results = append(s.results, r); return nil }
func (s *spyExporter) Model(*problem.Model) error      { return nil }
func (s *spyExporter) Certificate(c *certificate.Certificate) error {
	s.certificates = append(s.certificates, c)
	return nil
}

func TestWrapDelegatesToInner(t *testing.T) {
	spy := &spyExporter{}
	e := Wrap(spy)

	require.NoError(t, e.Problem(&problem.Problem{}))
	require.NoError(t, e.Result(ncip.ForDepthLimit(3)))
	assert.Equal(t, 1, spy.problems)
	require.Len(t, spy.results, 1)
	assert.Equal(t, 3, spy.results[0].Depth)
}

func TestWrapDefaultsToNullExporterWhenInnerIsNil(t *testing.T) {
	e := Wrap(nil)
	require.NoError(t, e.Problem(&problem.Problem{}))
	require.NoError(t, e.Result(ncip.ForDepthLimit(0)))
	require.NoError(t, e.Model(&problem.Model{}))
}

func TestCertificateUpdatesCraigRootGauge(t *testing.T) {
	spy := &spyExporter{}
	e := Wrap(spy)

	g := aig.New()
	cert := certificate.FromCraig(g, nil, g.Literal(problem.Pos(0)))

	require.NoError(t, e.Certificate(cert))
	require.Len(t, spy.certificates, 1)
	assert.Same(t, cert, spy.certificates[0])

	var metric dto.Metric
	require.NoError(t, craigRootCount.Write(&metric))
	assert.Equal(t, float64(len(cert.Roots)), metric.GetGauge().GetValue())
}
