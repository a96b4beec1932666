package bus

import (
	"io"
	"sort"
	"sync"

	"github.com/robotalks/stim.go/pkg/command"
)

// Port is an opened and configured bus device.
type Port interface {
	// Tx performs one blocking full-duplex transfer. r may be nil or must
	// be as long as w.
	Tx(w, r []byte) error

	io.Closer
}

// Opener opens and configures a Port.
type Opener interface {
	Open(Config) (Port, error)
}

// OpenFunc is the func form of Opener.
type OpenFunc func(Config) (Port, error)

// Open implements Opener.
func (f OpenFunc) Open(conf Config) (Port, error) {
	return f(conf)
}

// Transferer transfers command words. It is what the sequencer and the
// stimulation loop consume.
type Transferer interface {
	Transfer(command.Word) error
}

var (
	openers     = make(map[string]Opener)
	openersLock sync.RWMutex
)

// RegisterDriver makes an Opener available by driver name.
// It is expected to be called from init.
func RegisterDriver(name string, opener Opener) {
	openersLock.Lock()
	openers[name] = opener
	openersLock.Unlock()
}

// DriverFor looks up a registered Opener.
func DriverFor(name string) (Opener, error) {
	openersLock.RLock()
	defer openersLock.RUnlock()
	if opener, ok := openers[name]; ok {
		return opener, nil
	}
	return nil, &DriverError{Name: name}
}

// Drivers lists registered driver names.
func Drivers() []string {
	openersLock.RLock()
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	openersLock.RUnlock()
	sort.Strings(names)
	return names
}
