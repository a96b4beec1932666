// Package sequence runs ordered command scripts against the bus.
package sequence

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/stim.go/pkg/bus"
	"github.com/robotalks/stim.go/pkg/command"
)

// Script is an ordered list of command words. Later words may depend on
// device state set by earlier ones, so order is preserved exactly.
type Script []command.Word

// Concat joins scripts in order into a new script.
func Concat(scripts ...Script) Script {
	var n int
	for _, s := range scripts {
		n += len(s)
	}
	out := make(Script, 0, n)
	for _, s := range scripts {
		out = append(out, s...)
	}
	return out
}

// StepError reports the step at which a script stopped.
type StepError struct {
	Step int
	Word command.Word
	Err  error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Word, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Run transfers every word in order, one transfer per word, and stops at
// the first failure. A partially applied script leaves the device in an
// undefined state; callers must not start stimulation after an error.
// The context is checked between steps.
func (s Script) Run(ctx context.Context, t bus.Transferer) error {
	for n, w := range s {
		select {
		case <-ctx.Done():
			return &StepError{Step: n, Word: w, Err: ctx.Err()}
		default:
		}
		if err := t.Transfer(w); err != nil {
			return &StepError{Step: n, Word: w, Err: err}
		}
		if glog.V(2) {
			glog.Infof("step %d/%d: %s", n+1, len(s), w)
		}
	}
	return nil
}

// Strings returns the hex form of each word.
func (s Script) Strings() []string {
	strs := make([]string, len(s))
	for n, w := range s {
		strs[n] = w.String()
	}
	return strs
}

// Raw builds a script from packed values of the same width.
func Raw(width command.Width, values ...uint32) Script {
	s := make(Script, len(values))
	for n, v := range values {
		s[n] = command.Raw(width, v)
	}
	return s
}
