package bus

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// SPIDriver adapter commands.
const (
	spidriverSelect   byte = 's'
	spidriverUnselect byte = 'u'
	spidriverEcho     byte = 'e'
	spidriverXfer     byte = 0x80

	spidriverMaxXfer = 64
	spidriverBaud    = 460800
)

var errSPIDriverEcho = errors.New("spidriver: echo mismatch")

// spidriverPort speaks the Excamera SPIDriver serial protocol. The adapter
// runs a fixed clock in mode 0, so speed is ignored and other modes are
// rejected.
type spidriverPort struct {
	rw  io.ReadWriteCloser
	buf []byte
}

func openSPIDriver(conf Config) (Port, error) {
	if conf.Mode != 0 {
		return nil, &OpenError{Stage: StageConfigure, Device: conf.Device, Err: fmt.Errorf("mode %d not supported", conf.Mode)}
	}
	s, err := serial.OpenPort(&serial.Config{
		Name:        conf.Device,
		Baud:        spidriverBaud,
		ReadTimeout: time.Second,
	})
	if err != nil {
		return nil, &OpenError{Stage: StageOpen, Device: conf.Device, Err: err}
	}
	p := newSPIDriverPort(s)
	if err := p.ping(); err != nil {
		s.Close()
		return nil, &OpenError{Stage: StageConfigure, Device: conf.Device, Err: err}
	}
	glog.V(1).Infof("spidriver %s: clock speed fixed by adapter, %dHz ignored", conf.Device, conf.SpeedHz)
	return p, nil
}

func newSPIDriverPort(rw io.ReadWriteCloser) *spidriverPort {
	return &spidriverPort{rw: rw, buf: make([]byte, 0, spidriverMaxXfer+3)}
}

func (p *spidriverPort) ping() error {
	const probe byte = 0x5a
	if _, err := p.rw.Write([]byte{spidriverEcho, probe}); err != nil {
		return err
	}
	var b [1]byte
	if _, err := io.ReadFull(p.rw, b[:]); err != nil {
		return err
	}
	if b[0] != probe {
		return errSPIDriverEcho
	}
	return nil
}

// Tx implements Port. The transfer is framed by a single chip-select.
func (p *spidriverPort) Tx(w, r []byte) error {
	if r != nil && len(r) != len(w) {
		return fmt.Errorf("spidriver: rx length %d != tx length %d", len(r), len(w))
	}
	if len(w) == 0 {
		return nil
	}
	if len(w) > spidriverMaxXfer {
		return fmt.Errorf("spidriver: transfer of %d bytes exceeds %d", len(w), spidriverMaxXfer)
	}
	b := append(p.buf[:0], spidriverSelect, spidriverXfer|byte(len(w)-1))
	b = append(b, w...)
	b = append(b, spidriverUnselect)
	if _, err := p.rw.Write(b); err != nil {
		return err
	}
	if r == nil {
		r = b[2 : 2+len(w)]
	}
	_, err := io.ReadFull(p.rw, r)
	return err
}

// Close implements Port.
func (p *spidriverPort) Close() error {
	return p.rw.Close()
}

func init() {
	RegisterDriver("spidriver", OpenFunc(openSPIDriver))
}
