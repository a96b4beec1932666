package command

import "fmt"

// Command byte opcodes and flags, placed in the high byte of a 4-byte word.
const (
	CmdWrite byte = 0x80
	CmdRead  byte = 0xc0
	CmdClear byte = 0x6a

	// FlagUpdate latches the written value into the active register.
	FlagUpdate byte = 0x20
	// FlagCompliance clears the compliance monitor.
	FlagCompliance byte = 0x10
)

// Registers used by stimulation commands.
const (
	RegStimOn       uint8 = 42
	RegStimPolarity uint8 = 44

	// RegCathodicBase is the first cathodic (negative) magnitude register.
	RegCathodicBase uint8 = 64
	// RegAnodicBase is the first anodic (positive) magnitude register.
	RegAnodicBase uint8 = 96
)

// ControlByte is OR'd above the magnitude in electrode magnitude writes.
const ControlByte byte = 0x80

// NumElectrodes is the number of electrodes addressable per polarity.
// Electrode indices are masked to this range so the anodic and cathodic
// register ranges never overlap.
const NumElectrodes = 16

// Polarity selects the magnitude register range.
type Polarity int

// Polarities.
const (
	Cathodic Polarity = iota
	Anodic
)

// Base returns the first magnitude register of the polarity.
func (p Polarity) Base() uint8 {
	if p == Cathodic {
		return RegCathodicBase
	}
	return RegAnodicBase
}

// String implements fmt.Stringer.
func (p Polarity) String() string {
	if p == Cathodic {
		return "cathodic"
	}
	return "anodic"
}

// ParsePolarity parses polarity names as used in profiles and the console.
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "anodic", "a", "+", "1":
		return Anodic, nil
	case "cathodic", "c", "-", "0":
		return Cathodic, nil
	}
	return Cathodic, fmt.Errorf("invalid polarity %q", s)
}

// Intent is a request to set the magnitude of an electrode.
type Intent struct {
	Electrode int
	Polarity  Polarity
	Magnitude int
}

// Encode translates the intent into a command word.
func (i Intent) Encode() Word {
	return EncodeElectrode(i.Polarity, i.Electrode, i.Magnitude)
}

// String implements fmt.Stringer.
func (i Intent) String() string {
	return fmt.Sprintf("%s[%d]=%d", i.Polarity, i.Electrode, uint8(i.Magnitude))
}

// EncodeElectrode encodes a magnitude write for an electrode.
// The electrode index is masked to NumElectrodes and the magnitude is
// reduced modulo 256; both are intended truncations, not errors.
func EncodeElectrode(p Polarity, electrode int, magnitude int) Word {
	reg := p.Base() + uint8(electrode&(NumElectrodes-1))
	addr := uint32(CmdWrite|FlagUpdate)<<16 | uint32(reg)<<8 | uint32(ControlByte)
	return EncodeRegister(Width32, addr, uint32(uint8(magnitude)))
}

// RegisterWrite encodes a 16-bit register write as a 4-byte word:
// [cmd, reg, data_hi, data_lo].
func RegisterWrite(cmd byte, reg uint8, data uint16) Word {
	addr := uint32(cmd)<<16 | uint32(reg)<<8 | uint32(data>>8)
	return EncodeRegister(Width32, addr, uint32(data))
}

// StimOn sets the stimulation-enable bit mask, one bit per electrode.
func StimOn(mask uint16) Word {
	return RegisterWrite(CmdWrite|FlagUpdate, RegStimOn, mask)
}

// StimPolarity sets the per-electrode polarity bit mask.
func StimPolarity(mask uint16) Word {
	return RegisterWrite(CmdWrite|FlagUpdate, RegStimPolarity, mask)
}

// StimOff disables stimulation on all electrodes.
func StimOff() Word {
	return StimOn(0)
}

// ElectrodeMask builds a bit mask from electrode indices.
func ElectrodeMask(electrodes ...int) uint16 {
	var mask uint16
	for _, e := range electrodes {
		mask |= 1 << uint(e&(NumElectrodes-1))
	}
	return mask
}

// EnableElectrodes enables stimulation on exactly the given electrodes.
func EnableElectrodes(electrodes ...int) Word {
	return StimOn(ElectrodeMask(electrodes...))
}
