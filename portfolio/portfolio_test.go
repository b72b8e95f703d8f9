package portfolio

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncip-solver/ncip"
)

// fakeSolver returns result after optionally waiting for a release channel,
// recording whether it observed an interrupt before returning.
type fakeSolver struct {
	result     *ncip.Result
	err        error
	block      chan struct{}
	interrupts atomic.Int32
	interrupt  atomic.Bool
}

func (f *fakeSolver) Solve() (*ncip.Result, error) {
	if f.block != nil {
		<-f.block
	}
	return f.result, f.err
}

func (f *fakeSolver) Interrupt()        { f.interrupt.Store(true); f.interrupts.Add(1) }
func (f *fakeSolver) ClearInterrupt()   { f.interrupt.Store(false) }
func (f *fakeSolver) IsInterrupted() bool { return f.interrupt.Load() }

func TestSolveReturnsFastConclusiveResultAndInterruptsOthers(t *testing.T) {
	fast := &fakeSolver{result: ncip.ForModel(nil, 3)}
	slow := &fakeSolver{result: ncip.ForDepthLimit(10), block: make(chan struct{})}

	p := New(fast, slow)

	done := make(chan struct{})
	var result *ncip.Result
	var err error
	go func() {
		result, err = p.Solve()
		close(done)
	}()

	require.Eventually(t, func() bool { return slow.interrupt.Load() }, time.Second, time.Millisecond)
	close(slow.block)
	<-done

	require.NoError(t, err)
	assert.Equal(t, ncip.StatusSat, result.Status)
}

func TestCombinePrefersConclusiveOverLimitOverInterrupted(t *testing.T) {
	results := []outcome{
		{result: ncip.ForUserInterrupt(1)},
		{result: ncip.ForDepthLimit(2)},
		{result: ncip.ForCertificate(nil, 3)},
	}
	final, err := combine(results)
	require.NoError(t, err)
	assert.Equal(t, ncip.StatusUnsat, final.Status)
}

func TestCombineKeepsLimitResultWhenNothingConclusive(t *testing.T) {
	results := []outcome{
		{result: ncip.ForUserInterrupt(1)},
		{result: ncip.ForCraigLimit(4)},
	}
	final, err := combine(results)
	require.NoError(t, err)
	assert.Equal(t, ncip.StatusCraigLimitReached, final.Status)
}

func TestCombineDefaultsToInterruptedWhenAllInterrupted(t *testing.T) {
	results := []outcome{
		{result: ncip.ForUserInterrupt(1)},
		{result: ncip.ForUserInterrupt(2)},
	}
	final, err := combine(results)
	require.NoError(t, err)
	assert.Equal(t, ncip.StatusInterrupted, final.Status)
}

func TestCombineAggregatesErrors(t *testing.T) {
	results := []outcome{
		{err: assert.AnError},
		{result: ncip.ForDepthLimit(1)},
	}
	_, err := combine(results)
	require.Error(t, err)
}

func TestNewPanicsOnEmptyPortfolio(t *testing.T) {
	assert.Panics(t, func() { New() })
}
