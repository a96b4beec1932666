package stim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/stim.go/pkg/bus/bustest"
	"github.com/robotalks/stim.go/pkg/command"
	fx "github.com/robotalks/stim.go/pkg/framework"
	"github.com/robotalks/stim.go/pkg/profile"
	"github.com/robotalks/stim.go/pkg/sequence"
)

func newTestLoop(rec *bustest.Recorder, policy Policy) *Loop {
	p := profile.RHS32()
	return &Loop{Bus: rec, Cycle: p.Cycle, Safe: p.Safe, Policy: policy}
}

func cancelAfter(cancel context.CancelFunc, n int) func(int) {
	return func(calls int) {
		if calls == n {
			cancel()
		}
	}
}

func TestLoopStopEmitsSafeState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &bustest.Recorder{OnTransfer: cancelAfter(cancel, 8)}
	l := newTestLoop(rec, PolicyStrict)
	require.Equal(t, context.Canceled, l.Run(ctx))

	expect := sequence.Concat(l.Cycle, l.Cycle[:2], l.Safe)
	require.Equal(t, []command.Word(expect), rec.Words())
	stats := l.Stats()
	require.Equal(t, StateStopped, stats.State)
	require.Equal(t, uint64(1), stats.Cycles)
	require.Equal(t, uint64(8), stats.Transfers)
	require.Zero(t, stats.Failures)
}

func TestLoopStrictAbort(t *testing.T) {
	rec := &bustest.Recorder{Fail: bustest.FailAt(9)}
	l := newTestLoop(rec, PolicyStrict)
	err := l.Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, bustest.ErrInjected)
	var ce *CycleError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, uint64(1), ce.Cycle)
	require.Equal(t, 3, ce.Step)
	require.Equal(t, l.Cycle[3], ce.Word)

	words := rec.Words()
	require.Len(t, words, 11)
	require.Equal(t, l.Safe[0], words[10])

	stats := l.Stats()
	require.Equal(t, StateFaulted, stats.State)
	require.Equal(t, uint64(1), stats.Failures)
	require.NotEmpty(t, stats.LastError)
}

func TestLoopStrictSafeStateFails(t *testing.T) {
	rec := &bustest.Recorder{Fail: bustest.FailFrom(2)}
	l := newTestLoop(rec, PolicyStrict)
	err := l.Run(context.Background())
	var agg *fx.AggregatedError
	require.True(t, errors.As(err, &agg))
	require.Len(t, agg.Errors, 2)
	require.Equal(t, 4, rec.Calls())
	require.Equal(t, StateFaulted, l.Stats().State)
}

func TestLoopBestEffortContinues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &bustest.Recorder{
		Fail:       bustest.FailAt(1, 2, 7),
		OnTransfer: cancelAfter(cancel, 18),
	}
	l := newTestLoop(rec, PolicyBestEffort)
	require.Equal(t, context.Canceled, l.Run(ctx))

	expect := sequence.Concat(l.Cycle, l.Cycle, l.Cycle, l.Safe)
	require.Equal(t, []command.Word(expect), rec.Words())
	stats := l.Stats()
	require.Equal(t, uint64(3), stats.Cycles)
	require.Equal(t, uint64(3), stats.Failures)
	require.Equal(t, StateStopped, stats.State)
	require.Equal(t, "best-effort", stats.Policy.String())
}

func TestLoopPacedStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &bustest.Recorder{}
	l := newTestLoop(rec, PolicyStrict)
	l.Interval = time.Hour
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	require.Eventually(t, func() bool { return l.Stats().Cycles == 1 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	require.Equal(t, len(l.Cycle)+len(l.Safe), rec.Calls())
}

func TestLoopEmptyCycle(t *testing.T) {
	l := &Loop{Bus: &bustest.Recorder{}}
	require.Equal(t, ErrEmptyCycle, l.Run(context.Background()))
}

func TestConfigNewLoop(t *testing.T) {
	conf := &Config{Profile: "dac24", Policy: "best-effort", Rate: 100}
	p, err := conf.LoadProfile()
	require.NoError(t, err)
	l, err := conf.NewLoop(&bustest.Recorder{}, p)
	require.NoError(t, err)
	require.Equal(t, PolicyBestEffort, l.Policy)
	require.Equal(t, 10*time.Millisecond, l.Interval)
	require.Equal(t, p.Cycle, l.Cycle)

	conf.Policy = "sometimes"
	_, err = conf.NewLoop(&bustest.Recorder{}, p)
	require.Error(t, err)

	conf.Policy, conf.Rate = "strict", -1
	_, err = conf.NewLoop(&bustest.Recorder{}, p)
	require.Error(t, err)
}
