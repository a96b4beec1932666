package bus

import (
	"sync"

	"github.com/robotalks/stim.go/pkg/command"
)

type locked struct {
	t    Transferer
	lock sync.Mutex
}

// Locked serializes transfers on t. It is only needed when more than one
// goroutine transfers on the same bus.
func Locked(t Transferer) Transferer {
	return &locked{t: t}
}

// Transfer implements Transferer.
func (l *locked) Transfer(w command.Word) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.t.Transfer(w)
}
