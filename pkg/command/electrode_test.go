package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeElectrode(t *testing.T) {
	testCases := []struct {
		name   string
		intent Intent
		expect []byte
	}{
		{"anodic full", Intent{Electrode: 0, Polarity: Anodic, Magnitude: 0xff}, []byte{0xa0, 0x60, 0x80, 0xff}},
		{"cathodic full", Intent{Electrode: 0, Polarity: Cathodic, Magnitude: 0xff}, []byte{0xa0, 0x40, 0x80, 0xff}},
		{"anodic electrode 3", Intent{Electrode: 3, Polarity: Anodic, Magnitude: 10}, []byte{0xa0, 0x63, 0x80, 0x0a}},
		{"cathodic electrode 15", Intent{Electrode: 15, Polarity: Cathodic, Magnitude: 0}, []byte{0xa0, 0x4f, 0x80, 0x00}},
		{"magnitude wraps", Intent{Electrode: 1, Polarity: Anodic, Magnitude: 300}, []byte{0xa0, 0x61, 0x80, 44}},
		{"negative magnitude wraps", Intent{Electrode: 1, Polarity: Anodic, Magnitude: -1}, []byte{0xa0, 0x61, 0x80, 0xff}},
		{"electrode masked", Intent{Electrode: 17, Polarity: Cathodic, Magnitude: 1}, []byte{0xa0, 0x41, 0x80, 0x01}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := tc.intent.Encode()
			require.Equal(t, Width32, w.Width())
			require.Equal(t, tc.expect, w.Bytes())
		})
	}
}

func TestMagnitudeModulo(t *testing.T) {
	for m := -512; m < 1024; m++ {
		w := EncodeElectrode(Anodic, 2, m)
		require.Equal(t, EncodeElectrode(Anodic, 2, ((m%256)+256)%256), w, "magnitude %d", m)
	}
}

func TestPolarityRangesDisjoint(t *testing.T) {
	anodic := make(map[uint32]bool)
	for e := 0; e < NumElectrodes; e++ {
		anodic[EncodeElectrode(Anodic, e, 0).Address()] = true
	}
	for e := 0; e < 64; e++ {
		addr := EncodeElectrode(Cathodic, e, 0).Address()
		require.False(t, anodic[addr], "electrode %d: cathodic address %#x overlaps anodic range", e, addr)
	}
}

func TestStimRegisters(t *testing.T) {
	require.Equal(t, uint32(0xa02a0000), StimOff().Uint32())
	require.Equal(t, uint32(0xa02a0001), StimOn(1).Uint32())
	require.Equal(t, uint32(0xa02c0001), StimPolarity(1).Uint32())
	require.Equal(t, uint32(0xa02a0105), EnableElectrodes(0, 2, 8).Uint32())
	require.Equal(t, uint32(0x8026ffff), RegisterWrite(CmdWrite, 0x26, 0xffff).Uint32())
}

func TestParsePolarity(t *testing.T) {
	for _, s := range []string{"anodic", "a", "+", "1"} {
		p, err := ParsePolarity(s)
		require.NoError(t, err)
		require.Equal(t, Anodic, p)
	}
	for _, s := range []string{"cathodic", "c", "-", "0"} {
		p, err := ParsePolarity(s)
		require.NoError(t, err)
		require.Equal(t, Cathodic, p)
	}
	_, err := ParsePolarity("bipolar")
	require.Error(t, err)
}
