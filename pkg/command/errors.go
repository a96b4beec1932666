package command

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWidth indicates a word width other than 3 or 4 bytes.
	ErrInvalidWidth = errors.New("invalid word width")
	// ErrAddressRange indicates a register address outside the address field.
	ErrAddressRange = errors.New("register address out of range")
)

// RangeError reports the address rejected by CheckAddress.
type RangeError struct {
	Width   Width
	Address uint32
}

// Error implements error.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %#x exceeds %d address bits", ErrAddressRange, e.Address, e.Width.AddressBits())
}

// Unwrap returns ErrAddressRange.
func (e *RangeError) Unwrap() error {
	return ErrAddressRange
}
