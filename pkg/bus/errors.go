package bus

import (
	"errors"
	"fmt"

	"github.com/robotalks/stim.go/pkg/command"
)

var (
	// ErrClosed indicates the session is already closed.
	ErrClosed = errors.New("bus session closed")
	// ErrUnknownDriver indicates no driver registered with the name.
	ErrUnknownDriver = errors.New("unknown bus driver")
	// ErrWidthMismatch indicates a word width not matching the session.
	ErrWidthMismatch = errors.New("command word width mismatch")
)

// Stage identifies where opening a bus failed.
type Stage int

// Open stages.
const (
	StageOpen Stage = iota
	StageConfigure
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	if s == StageConfigure {
		return "configure"
	}
	return "open"
}

// OpenError is returned when the bus device is unavailable or rejects the
// configuration. It is always fatal.
type OpenError struct {
	Stage  Stage
	Device string
	Err    error
}

// Error implements error.
func (e *OpenError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Device, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpenError) Unwrap() error {
	return e.Err
}

// TransferError wraps a failed transfer of a command word.
type TransferError struct {
	Word command.Word
	Err  error
}

// Error implements error.
func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s: %v", e.Word, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransferError) Unwrap() error {
	return e.Err
}

// DriverError reports an unregistered driver name.
type DriverError struct {
	Name string
}

// Error implements error.
func (e *DriverError) Error() string {
	return fmt.Sprintf("%v %q", ErrUnknownDriver, e.Name)
}

// Unwrap returns ErrUnknownDriver.
func (e *DriverError) Unwrap() error {
	return ErrUnknownDriver
}
