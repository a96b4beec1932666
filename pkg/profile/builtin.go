package profile

import (
	"github.com/robotalks/stim.go/pkg/command"
	"github.com/robotalks/stim.go/pkg/sequence"
)

// RHS32 is the 4-byte stimulator front end. The setup powers up the
// bias and stimulation registers, clears the outputs and then enables
// them; electrode 0 gets full anodic and cathodic magnitudes. The cycle
// is one biphasic pulse on electrode 0.
func RHS32() *Profile {
	return &Profile{
		Name:  "rhs32",
		Width: command.Width32,
		Setup: sequence.Raw(command.Width32,
			0xe0ff0000,
			0x80200000,
			0x80210000,
			0x8026ffff,
			0x6a000000,

			0x800000c7,
			0x8001051a,
			0x80020000,
			0x80030080,
			0x80040016,
			0x80050017,
			0x800600a8,
			0x8007000a,
			0x8008ffff,
			0xa00a0000,
			0xa00cffff,
			0x802200e2,
			0x802300aa,
			0x80240080,
			0x80254f00,
			0xd0280000,

			0x8020aaaa,
			0x802100ff,
			0xe0ff0000,
		),
		Magnitudes: []command.Intent{
			{Electrode: 0, Polarity: command.Anodic, Magnitude: 0xff},
			{Electrode: 0, Polarity: command.Cathodic, Magnitude: 0xff},
		},
		Cycle: sequence.Script{
			command.StimPolarity(0),
			command.EnableElectrodes(0),
			command.StimOff(),
			command.StimPolarity(command.ElectrodeMask(0)),
			command.EnableElectrodes(0),
			command.StimOff(),
		},
		Safe: sequence.Script{command.StimOff()},
	}
}

// DAC24 is the 3-byte variant. The setup selects the ±10 V span, which
// the DAC only latches after two writes. The cycle is a biphasic ±5 V
// pulse returning to 0 V; 0 V is the safe output.
func DAC24() *Profile {
	return &Profile{
		Name:  "dac24",
		Width: command.Width24,
		Setup: sequence.Script{
			command.Raw(command.Width24, 0x006300),
			command.DACSpan(command.Span10V),
			command.DACSpan(command.Span10V),
		},
		Cycle: sequence.Script{
			command.DACVolts(5),
			command.DACVolts(-5),
			command.DACVolts(0),
		},
		Safe: sequence.Script{command.DACVolts(0)},
	}
}
