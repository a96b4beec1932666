package stim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/stim.go/pkg/bus"
	"github.com/robotalks/stim.go/pkg/command"
	fx "github.com/robotalks/stim.go/pkg/framework"
	"github.com/robotalks/stim.go/pkg/sequence"
)

// ErrEmptyCycle indicates a loop without cycle commands.
var ErrEmptyCycle = errors.New("empty stimulation cycle")

// best-effort failures are logged once per this many.
const failureLogEvery = 1000

// CycleError reports the transfer that aborted a strict loop.
type CycleError struct {
	Cycle uint64
	Step  int
	Word  command.Word
	Err   error
}

// Error implements error.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle %d step %d (%s): %v", e.Cycle, e.Step, e.Word, e.Err)
}

// Unwrap returns the underlying error.
func (e *CycleError) Unwrap() error {
	return e.Err
}

// Stats is a snapshot of loop counters.
type Stats struct {
	State     State
	Policy    Policy
	Cycles    uint64
	Transfers uint64
	Failures  uint64
	LastError string
}

// Loop is the stimulation task body. Each iteration transfers the Cycle
// words in order. There is no delay between iterations unless Interval is
// set, so the stimulation rate is bound by the bus transfer latency.
//
// Loop must be the only user of Bus while running.
type Loop struct {
	Bus    bus.Transferer
	Cycle  sequence.Script
	Safe   sequence.Script
	Policy Policy
	// Interval paces iterations to a target rate. Zero disables pacing.
	Interval time.Duration

	state     atomic.Int32
	cycles    atomic.Uint64
	transfers atomic.Uint64
	failures  atomic.Uint64

	errLock sync.Mutex
	lastErr error
}

// Name implements framework.Named.
func (l *Loop) Name() string {
	return "stim"
}

// Run implements framework.Runnable. The context is checked between
// transfers. When it is canceled the Safe script is transferred and
// context.Canceled returned. In strict mode a transfer failure also
// transfers the Safe script and returns a *CycleError.
func (l *Loop) Run(ctx context.Context) error {
	if len(l.Cycle) == 0 {
		return ErrEmptyCycle
	}
	l.setState(StateRunning)
	glog.Infof("stimulation started: %d commands/cycle, policy=%s, interval=%v", len(l.Cycle), l.Policy, l.Interval)

	var pace <-chan time.Time
	if l.Interval > 0 {
		ticker := time.NewTicker(l.Interval)
		defer ticker.Stop()
		pace = ticker.C
	}
	done := ctx.Done()
	for cycle := uint64(0); ; cycle++ {
		for step, w := range l.Cycle {
			select {
			case <-done:
				return l.shutdown(ctx.Err())
			default:
			}
			l.transfers.Add(1)
			err := l.Bus.Transfer(w)
			if err == nil {
				continue
			}
			failures := l.failures.Add(1)
			l.setLastError(err)
			if l.Policy == PolicyStrict {
				return l.abort(&CycleError{Cycle: cycle, Step: step, Word: w, Err: err})
			}
			if failures%failureLogEvery == 1 {
				glog.Warningf("cycle %d step %d: %v (%d failures so far)", cycle, step, err, failures)
			}
		}
		l.cycles.Add(1)
		if pace != nil {
			select {
			case <-done:
				return l.shutdown(ctx.Err())
			case <-pace:
			}
		}
	}
}

// Stats returns a snapshot of the counters. It never touches the bus and
// is safe to call from other goroutines.
func (l *Loop) Stats() Stats {
	s := Stats{
		State:     State(l.state.Load()),
		Policy:    l.Policy,
		Cycles:    l.cycles.Load(),
		Transfers: l.transfers.Load(),
		Failures:  l.failures.Load(),
	}
	l.errLock.Lock()
	if l.lastErr != nil {
		s.LastError = l.lastErr.Error()
	}
	l.errLock.Unlock()
	return s
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
}

func (l *Loop) setLastError(err error) {
	l.errLock.Lock()
	l.lastErr = err
	l.errLock.Unlock()
}

func (l *Loop) safeState() error {
	if err := l.Safe.Run(context.Background(), l.Bus); err != nil {
		glog.Errorf("safe state failed: %v", err)
		return fmt.Errorf("safe state: %w", err)
	}
	glog.Infof("outputs in safe state")
	return nil
}

func (l *Loop) shutdown(reason error) error {
	glog.Infof("stimulation stopping: %v", reason)
	if err := l.safeState(); err != nil {
		l.setLastError(err)
		l.setState(StateFaulted)
		return err
	}
	l.setState(StateStopped)
	return reason
}

func (l *Loop) abort(cause *CycleError) error {
	glog.Errorf("stimulation aborted: %v", cause)
	l.setState(StateFaulted)
	var errs fx.AggregatedError
	return errs.Add(cause, l.safeState()).Aggregate()
}
