// Package bustest provides a recording bus for tests.
package bustest

import (
	"errors"
	"sync"

	"github.com/robotalks/stim.go/pkg/command"
)

// ErrInjected is the default error returned by injected failures.
var ErrInjected = errors.New("injected transfer failure")

// FailFunc decides whether call n (0-based) fails.
type FailFunc func(n int, w command.Word) error

// FailAt fails the calls with the given 0-based indices.
func FailAt(calls ...int) FailFunc {
	return func(n int, w command.Word) error {
		for _, c := range calls {
			if c == n {
				return ErrInjected
			}
		}
		return nil
	}
}

// FailFrom fails every call starting at index n.
func FailFrom(from int) FailFunc {
	return func(n int, w command.Word) error {
		if n >= from {
			return ErrInjected
		}
		return nil
	}
}

// Recorder implements bus.Transferer and bus.Port and records every
// attempted transfer in order.
type Recorder struct {
	Fail FailFunc
	// OnTransfer is called after each transfer with the number of calls
	// so far.
	OnTransfer func(calls int)

	lock  sync.Mutex
	words []command.Word
	raw   [][]byte
}

// Transfer implements bus.Transferer.
func (r *Recorder) Transfer(w command.Word) error {
	r.lock.Lock()
	n := len(r.words)
	r.words = append(r.words, w)
	r.raw = append(r.raw, w.Bytes())
	r.lock.Unlock()
	var err error
	if r.Fail != nil {
		err = r.Fail(n, w)
	}
	if r.OnTransfer != nil {
		r.OnTransfer(n + 1)
	}
	return err
}

// Tx implements bus.Port by decoding 3 or 4 byte frames.
func (r *Recorder) Tx(w, rx []byte) error {
	var val uint32
	for _, b := range w {
		val = val<<8 | uint32(b)
	}
	copy(rx, w)
	return r.Transfer(command.Raw(command.Width(len(w)), val))
}

// Close implements bus.Port.
func (r *Recorder) Close() error {
	return nil
}

// Calls returns the number of transfers attempted.
func (r *Recorder) Calls() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.words)
}

// Words returns a copy of all attempted words.
func (r *Recorder) Words() []command.Word {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]command.Word(nil), r.words...)
}

// Bytes returns the raw bytes of every attempted transfer.
func (r *Recorder) Bytes() [][]byte {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([][]byte(nil), r.raw...)
}

// Reset clears recorded transfers.
func (r *Recorder) Reset() {
	r.lock.Lock()
	r.words, r.raw = nil, nil
	r.lock.Unlock()
}
