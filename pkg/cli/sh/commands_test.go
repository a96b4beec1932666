package sh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/stim.go/pkg/command"
)

func TestParseIntent(t *testing.T) {
	intent, err := parseIntent([]string{"anodic", "0", "0xff"})
	require.NoError(t, err)
	require.Equal(t, command.Intent{Electrode: 0, Polarity: command.Anodic, Magnitude: 0xff}, intent)
	require.Equal(t, "A0 60 80 FF", formatBytes(intent.Encode().Bytes()))

	intent, err = parseIntent([]string{"c", "3", "300"})
	require.NoError(t, err)
	require.Equal(t, "A0 43 80 2C", formatBytes(intent.Encode().Bytes()))

	for _, args := range [][]string{
		{"anodic", "0"},
		{"up", "0", "1"},
		{"anodic", "x", "1"},
		{"anodic", "0", "y"},
	} {
		_, err := parseIntent(args)
		require.Error(t, err, "%v", args)
	}
}

func TestParseElectrodes(t *testing.T) {
	electrodes, err := parseElectrodes([]string{"0", "2", "15"})
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 15}, electrodes)
	_, err = parseElectrodes([]string{"1", "two"})
	require.Error(t, err)
}
