package framework

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Wait when a second stop signal arrives
// before all tasks stopped.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

type taskResult struct {
	name string
	err  error
}

// Runner starts tasks sharing one context. When any task returns an error
// other than context.Canceled, the shared context is canceled so the other
// tasks stop as well.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	count  int

	resultCh chan taskResult
	exitCh   chan struct{}
	exitOnce sync.Once
}

// NewRunner creates a runner with a background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner derived from ctx.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{
		resultCh: make(chan taskResult),
		exitCh:   make(chan struct{}),
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	return r
}

// Context returns the context shared by the tasks.
func (r *Runner) Context() context.Context {
	return r.ctx
}

// HandleSignals stops the tasks on SIGINT or SIGTERM. A second signal
// makes Wait return ErrForcedExit without waiting further.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			glog.Infof("%v: stop requested", sig)
			r.cancel()
		case <-r.exitCh:
			signal.Stop(sigCh)
			return
		}
		select {
		case <-sigCh:
			glog.Error("stop requested again, force exit")
			r.exit()
		case <-r.exitCh:
		}
		signal.Stop(sigCh)
	}()
	return r
}

// Go starts tasks.
func (r *Runner) Go(tasks ...Runnable) *Runner {
	for _, task := range tasks {
		name := strconv.Itoa(r.count)
		if named, ok := task.(Named); ok {
			name = named.Name()
		}
		r.count++
		glog.V(1).Infof("task[%s] starting", name)
		go func(task Runnable, name string) {
			err := task.Run(r.ctx)
			glog.V(1).Infof("task[%s] stopped: %v", name, err)
			r.resultCh <- taskResult{name: name, err: err}
		}(task, name)
	}
	return r
}

// Stop cancels the shared context.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits until all tasks stop and aggregates their errors.
// context.Canceled is not reported as an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for remain := r.count; remain > 0; remain-- {
		select {
		case <-r.exitCh:
			return ErrForcedExit
		case res := <-r.resultCh:
			if res.err != nil && res.err != context.Canceled {
				glog.Errorf("task[%s] failed: %v", res.name, res.err)
				errs.Add(res.err)
				r.cancel()
			}
		}
	}
	r.count = 0
	r.cancel()
	r.exit()
	return errs.Aggregate()
}

func (r *Runner) exit() {
	r.exitOnce.Do(func() { close(r.exitCh) })
}
