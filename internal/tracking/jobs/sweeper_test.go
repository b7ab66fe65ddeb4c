package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go-shortview/internal/tracking/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) SweepAll(ctx context.Context) (int, error) {
	r.calls.Add(1)
	return 1, r.err
}

func TestSweeper_RunsOnInterval(t *testing.T) {
	runner := &countingRunner{}
	s := jobs.NewSweeper(runner, 5*time.Millisecond, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	calls := runner.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, runner.calls.Load(), "no sweeps after Stop")
}

func TestSweeper_StartTwice(t *testing.T) {
	s := jobs.NewSweeper(&countingRunner{}, time.Hour, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.ErrorIs(t, s.Start(context.Background()), jobs.ErrAlreadyStarted)
}

func TestSweeper_StopsOnContextCancel(t *testing.T) {
	s := jobs.NewSweeper(&countingRunner{}, time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()
	s.Stop()
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	s := jobs.NewSweeper(&countingRunner{}, 0, zap.NewNop())
	s.Stop()
}

func TestSweeper_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	runner := &countingRunner{err: errors.New("database is locked")}
	s := jobs.NewSweeper(runner, 5*time.Millisecond, zap.New(core))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return logs.FilterMessage("sweep failed").Len() > 0 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Greater(t, runner.calls.Load(), int32(0))
}
