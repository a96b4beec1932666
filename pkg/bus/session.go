package bus

import (
	"github.com/golang/glog"

	"github.com/robotalks/stim.go/pkg/command"
)

// Session owns the opened bus for the lifetime of the process.
//
// Session is not safe for concurrent use. Exactly one task transfers on
// the bus; a second user must go through Locked.
type Session struct {
	// Width, if set, rejects words of any other width.
	Width command.Width

	conf Config
	port Port

	tx [4]byte
	rx [4]byte
}

// Open opens and configures the bus.
func Open(conf Config, opener Opener) (*Session, error) {
	conf = conf.Normalized()
	port, err := opener.Open(conf)
	if err != nil {
		if _, ok := err.(*OpenError); !ok {
			err = &OpenError{Stage: StageOpen, Device: conf.Device, Err: err}
		}
		return nil, err
	}
	glog.Infof("bus %s opened: driver=%s mode=%d bits=%d speed=%dHz",
		conf.Device, conf.Driver, conf.Mode, conf.BitsPerWord, conf.SpeedHz)
	return &Session{conf: conf, port: port}, nil
}

// Config returns the configuration the session was opened with.
func (s *Session) Config() Config {
	return s.conf
}

// Transfer implements Transferer. MISO bytes are discarded.
func (s *Session) Transfer(w command.Word) error {
	_, err := s.exchange(w)
	return err
}

// Exchange transfers a word and returns a copy of the bytes clocked in.
func (s *Session) Exchange(w command.Word) ([]byte, error) {
	rx, err := s.exchange(w)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), rx...), nil
}

func (s *Session) exchange(w command.Word) ([]byte, error) {
	if s.port == nil {
		return nil, &TransferError{Word: w, Err: ErrClosed}
	}
	if s.Width != 0 && w.Width() != s.Width {
		return nil, &TransferError{Word: w, Err: ErrWidthMismatch}
	}
	n := w.Put(s.tx[:])
	if glog.V(4) {
		glog.Infof("TX %s", w)
	}
	if err := s.port.Tx(s.tx[:n], s.rx[:n]); err != nil {
		return nil, &TransferError{Word: w, Err: err}
	}
	return s.rx[:n], nil
}

// Close implements io.Closer.
func (s *Session) Close() error {
	if s.port == nil {
		return ErrClosed
	}
	port := s.port
	s.port = nil
	glog.Infof("bus %s closed", s.conf.Device)
	return port.Close()
}
