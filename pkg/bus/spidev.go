package bus

import (
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// spidevPort drives a Linux spidev node through periph.
type spidevPort struct {
	port spi.PortCloser
	conn spi.Conn
}

func openSPIDev(conf Config) (Port, error) {
	if _, err := host.Init(); err != nil {
		return nil, &OpenError{Stage: StageOpen, Device: conf.Device, Err: err}
	}
	p, err := spireg.Open(conf.Device)
	if err != nil {
		return nil, &OpenError{Stage: StageOpen, Device: conf.Device, Err: err}
	}
	c, err := p.Connect(physic.Frequency(conf.SpeedHz)*physic.Hertz, spi.Mode(conf.Mode), conf.BitsPerWord)
	if err != nil {
		p.Close()
		return nil, &OpenError{Stage: StageConfigure, Device: conf.Device, Err: err}
	}
	return &spidevPort{port: p, conn: c}, nil
}

// Tx implements Port.
func (p *spidevPort) Tx(w, r []byte) error {
	return p.conn.Tx(w, r)
}

// Close implements Port.
func (p *spidevPort) Close() error {
	return p.port.Close()
}

func init() {
	RegisterDriver("spidev", OpenFunc(openSPIDev))
}
