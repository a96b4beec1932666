package bus

import "github.com/golang/glog"

// loopbackPort echoes MOSI to MISO. It lets the whole stack run without
// hardware attached.
type loopbackPort struct {
	device string
}

// Tx implements Port.
func (p *loopbackPort) Tx(w, r []byte) error {
	copy(r, w)
	if glog.V(5) {
		glog.Infof("loopback %s: % x", p.device, w)
	}
	return nil
}

// Close implements Port.
func (p *loopbackPort) Close() error {
	return nil
}

func init() {
	RegisterDriver("loopback", OpenFunc(func(conf Config) (Port, error) {
		return &loopbackPort{device: conf.Device}, nil
	}))
}
