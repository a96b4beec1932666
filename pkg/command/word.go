package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Width is the number of bytes in a command word.
type Width int

// Supported word widths.
const (
	// Width24 is the 3-byte variant: [addr_mid, addr_low, payload].
	Width24 Width = 3
	// Width32 is the 4-byte variant: [addr_high, addr_mid, addr_low, payload].
	Width32 Width = 4
)

// PayloadBits is the width of the payload field for all variants.
const PayloadBits = 8

// IsValid checks if the width is one of the supported variants.
func (w Width) IsValid() bool {
	return w == Width24 || w == Width32
}

// AddressBits is the width of the register address field.
func (w Width) AddressBits() uint {
	return uint(w)*8 - PayloadBits
}

// AddressMask masks an address to the width of the address field.
func (w Width) AddressMask() uint32 {
	return 1<<w.AddressBits() - 1
}

// String implements fmt.Stringer.
func (w Width) String() string {
	return strconv.Itoa(int(w)*8) + "-bit"
}

// Word is a fixed-width command word. The zero value is not a valid word.
type Word struct {
	width Width
	value uint32
}

// Raw creates a word from a packed value. Bits above the width are
// discarded. Unsupported widths are treated as Width32.
func Raw(width Width, value uint32) Word {
	if !width.IsValid() {
		width = Width32
	}
	if width == Width24 {
		value &= 0xffffff
	}
	return Word{width: width, value: value}
}

// EncodeRegister packs address and payload into a word of the given width.
// Both fields are masked to their widths before packing, so higher-order
// bits of the inputs are silently discarded. This mirrors the hardware
// register width and is not an error.
func EncodeRegister(width Width, address uint32, payload uint32) Word {
	if !width.IsValid() {
		width = Width32
	}
	address &= width.AddressMask()
	payload &= 1<<PayloadBits - 1
	return Raw(width, address<<PayloadBits|payload)
}

// CheckAddress reports ErrAddressRange if address does not fit the address
// field of width. The encoder never calls it; it is for callers which
// prefer rejecting input over masking it.
func CheckAddress(width Width, address uint32) error {
	if !width.IsValid() {
		return ErrInvalidWidth
	}
	if address&^width.AddressMask() != 0 {
		return &RangeError{Width: width, Address: address}
	}
	return nil
}

// ParseWord parses a hex string (with or without 0x prefix, "_" allowed as
// separator) as a word of the given width. Unlike EncodeRegister, values
// wider than the word are rejected.
func ParseWord(width Width, s string) (Word, error) {
	if !width.IsValid() {
		return Word{}, ErrInvalidWidth
	}
	str := strings.Replace(strings.TrimSpace(s), "_", "", -1)
	str = strings.TrimPrefix(strings.TrimPrefix(str, "0x"), "0X")
	val, err := strconv.ParseUint(str, 16, 32)
	if err != nil {
		return Word{}, fmt.Errorf("invalid word %q: %v", s, err)
	}
	if err := CheckAddress(width, uint32(val)>>PayloadBits); err != nil {
		return Word{}, err
	}
	return Raw(width, uint32(val)), nil
}

// Width returns the width of the word.
func (c Word) Width() Width {
	return c.width
}

// Uint32 returns the packed value.
func (c Word) Uint32() uint32 {
	return c.value
}

// Address extracts the register address field.
func (c Word) Address() uint32 {
	return c.value >> PayloadBits
}

// Payload extracts the payload field.
func (c Word) Payload() uint8 {
	return uint8(c.value)
}

// Bytes returns encoded bytes for sending, most significant byte first.
func (c Word) Bytes() []byte {
	b := make([]byte, c.width)
	c.Put(b)
	return b
}

// Put encodes the word into b, which must be at least Width bytes long.
// It returns the number of bytes written.
func (c Word) Put(b []byte) int {
	n := int(c.width)
	for i := 0; i < n; i++ {
		b[i] = byte(c.value >> uint(8*(n-1-i)))
	}
	return n
}

// WriteTo writes encoded bytes.
func (c Word) WriteTo(w io.Writer) (int64, error) {
	var buf [4]byte
	n, err := w.Write(buf[:c.Put(buf[:])])
	return int64(n), err
}

// String implements fmt.Stringer.
func (c Word) String() string {
	if c.width == Width24 {
		return fmt.Sprintf("%06x", c.value)
	}
	return fmt.Sprintf("%08x", c.value)
}
