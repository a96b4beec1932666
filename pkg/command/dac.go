package command

// 3-byte DAC registers.
const (
	// RegDACSpan selects the output range. It must be written twice.
	RegDACSpan uint32 = 0x8f00
	// RegDACBoth writes the code to both outputs; B is the inverse of A.
	RegDACBoth uint32 = 0x9f
)

// Span is the DAC output range selector.
type Span uint8

// Output ranges.
const (
	Span5V  Span = 2
	Span10V Span = 3
	Span2V5 Span = 4
)

// DACSpan selects the output range.
func DACSpan(span Span) Word {
	return EncodeRegister(Width24, RegDACSpan, uint32(span))
}

// DACWrite sets both outputs to a 16-bit code.
func DACWrite(code uint16) Word {
	return EncodeRegister(Width24, RegDACBoth<<8|uint32(code>>8), uint32(code))
}

// DACCode converts an output voltage in the ±10 V span to a DAC code,
// using the bench calibration of the board. The fractional part is
// truncated toward zero.
func DACCode(volts float64) uint16 {
	code := int((volts-8.751)*(1<<16-10)/20 - 4095)
	return uint16(code)
}

// DACVolts sets both outputs to a voltage in the ±10 V span.
func DACVolts(volts float64) Word {
	return DACWrite(DACCode(volts))
}
