package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/stim.go/pkg/command"
)

type mockPort struct {
	mock.Mock
}

func (m *mockPort) Tx(w, r []byte) error {
	return m.Called(w, r).Error(0)
}

func (m *mockPort) Close() error {
	return m.Called().Error(0)
}

func openMock(t *testing.T, port *mockPort) *Session {
	s, err := Open(Config{Device: "mock", Mode: 4 | 2, SpeedHz: 1000}, OpenFunc(func(conf Config) (Port, error) {
		require.Equal(t, 2, conf.Mode)
		require.Equal(t, 8, conf.BitsPerWord)
		require.Equal(t, int64(1000), conf.SpeedHz)
		return port, nil
	}))
	require.NoError(t, err)
	return s
}

func TestSessionTransfer(t *testing.T) {
	port := &mockPort{}
	s := openMock(t, port)
	port.On("Tx", []byte{0xa0, 0x60, 0x80, 0xff}, mock.Anything).Return(nil).Once()
	port.On("Tx", []byte{0x00, 0x63, 0x00}, mock.Anything).Return(nil).Once()
	require.NoError(t, s.Transfer(command.EncodeElectrode(command.Anodic, 0, 0xff)))
	require.NoError(t, s.Transfer(command.Raw(command.Width24, 0x006300)))
	port.AssertExpectations(t)
}

func TestSessionTransferError(t *testing.T) {
	port := &mockPort{}
	s := openMock(t, port)
	failure := errors.New("ioctl failed")
	port.On("Tx", mock.Anything, mock.Anything).Return(failure)
	err := s.Transfer(command.StimOff())
	require.Error(t, err)
	require.ErrorIs(t, err, failure)
	var te *TransferError
	require.True(t, errors.As(err, &te))
	require.Equal(t, command.StimOff(), te.Word)
}

func TestSessionWidth(t *testing.T) {
	port := &mockPort{}
	s := openMock(t, port)
	s.Width = command.Width32
	err := s.Transfer(command.Raw(command.Width24, 0x006300))
	require.ErrorIs(t, err, ErrWidthMismatch)
	port.AssertNotCalled(t, "Tx", mock.Anything, mock.Anything)
}

func TestSessionClose(t *testing.T) {
	port := &mockPort{}
	s := openMock(t, port)
	port.On("Close").Return(nil).Once()
	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Close(), ErrClosed)
	require.ErrorIs(t, s.Transfer(command.StimOff()), ErrClosed)
	port.AssertExpectations(t)
}

func TestOpenErrors(t *testing.T) {
	failure := errors.New("no such device")
	_, err := Open(Config{Device: "/dev/none"}, OpenFunc(func(Config) (Port, error) {
		return nil, failure
	}))
	var oe *OpenError
	require.True(t, errors.As(err, &oe))
	require.Equal(t, StageOpen, oe.Stage)
	require.Equal(t, "/dev/none", oe.Device)
	require.ErrorIs(t, err, failure)

	_, err = Open(Config{Device: "/dev/none"}, OpenFunc(func(conf Config) (Port, error) {
		return nil, &OpenError{Stage: StageConfigure, Device: conf.Device, Err: failure}
	}))
	require.True(t, errors.As(err, &oe))
	require.Equal(t, StageConfigure, oe.Stage)
}

func TestDrivers(t *testing.T) {
	require.Subset(t, Drivers(), []string{"loopback", "spidev", "spidriver"})
	_, err := DriverFor("nope")
	require.ErrorIs(t, err, ErrUnknownDriver)

	conf := Config{Driver: "loopback", Device: "test"}
	s, err := conf.Open()
	require.NoError(t, err)
	rx, err := s.Exchange(command.StimOn(3))
	require.NoError(t, err)
	require.Equal(t, []byte{0xa0, 0x2a, 0x00, 0x03}, rx)
	require.NoError(t, s.Close())
}
