package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/stim.go/pkg/bus/bustest"
	"github.com/robotalks/stim.go/pkg/command"
)

func TestRunInOrder(t *testing.T) {
	script := Raw(command.Width32, 0xe0ff0000, 0x80200000, 0x80210000, 0x8026ffff, 0x6a000000)
	rec := &bustest.Recorder{}
	require.NoError(t, script.Run(context.Background(), rec))
	require.Equal(t, []command.Word(script), rec.Words())
	require.Equal(t, [][]byte{
		{0xe0, 0xff, 0x00, 0x00},
		{0x80, 0x20, 0x00, 0x00},
		{0x80, 0x21, 0x00, 0x00},
		{0x80, 0x26, 0xff, 0xff},
		{0x6a, 0x00, 0x00, 0x00},
	}, rec.Bytes())
}

func TestRunFailFast(t *testing.T) {
	script := Raw(command.Width32, 1, 2, 3, 4, 5, 6)
	for i := range script {
		rec := &bustest.Recorder{Fail: bustest.FailAt(i)}
		err := script.Run(context.Background(), rec)
		require.Error(t, err)
		var se *StepError
		require.True(t, errors.As(err, &se))
		require.Equal(t, i, se.Step)
		require.Equal(t, script[i], se.Word)
		require.ErrorIs(t, err, bustest.ErrInjected)
		require.Equal(t, i+1, rec.Calls(), "no transfer after failed step %d", i)
		require.Equal(t, []command.Word(script[:i+1]), rec.Words())
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	script := Raw(command.Width24, 0x006300, 0x006301, 0x006302)
	rec := &bustest.Recorder{OnTransfer: func(calls int) {
		if calls == 1 {
			cancel()
		}
	}}
	err := script.Run(ctx, rec)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, rec.Calls())
}

func TestConcat(t *testing.T) {
	a := Raw(command.Width32, 1, 2)
	b := Raw(command.Width32, 3)
	s := Concat(a, nil, b)
	require.Equal(t, []string{"00000001", "00000002", "00000003"}, s.Strings())
	s[0] = command.Raw(command.Width32, 9)
	require.Equal(t, uint32(1), a[0].Uint32())
}
