package telemetry

import (
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// streamBacklog is the number of payloads buffered per client before
// the slowest client starts dropping.
const streamBacklog = 16

// Stream relays status payloads to websocket clients.
type Stream struct {
	lock    sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// NewStream creates an empty Stream.
func NewStream() *Stream {
	return &Stream{clients: make(map[*websocket.Conn]chan []byte)}
}

// Handler serves a client until it disconnects. Each payload is sent as
// one binary message.
func (s *Stream) Handler() websocket.Handler {
	return func(conn *websocket.Conn) {
		ch := make(chan []byte, streamBacklog)
		s.lock.Lock()
		s.clients[conn] = ch
		s.lock.Unlock()
		defer s.remove(conn)

		glog.V(1).Infof("stream: client %s connected", conn.Request().RemoteAddr)
		closed := make(chan struct{})
		go func() {
			// drain client input to detect disconnects
			var discard []byte
			for websocket.Message.Receive(conn, &discard) == nil {
			}
			close(closed)
		}()
		for {
			select {
			case payload := <-ch:
				if err := websocket.Message.Send(conn, payload); err != nil {
					glog.V(1).Infof("stream: %v", err)
					return
				}
			case <-closed:
				return
			}
		}
	}
}

// Broadcast queues payload to every client. A client whose backlog is
// full misses the payload.
func (s *Stream) Broadcast(payload []byte) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	for conn, ch := range s.clients {
		select {
		case ch <- payload:
		default:
			glog.Warningf("stream: client %s lagging, dropped", conn.Request().RemoteAddr)
		}
	}
}

// Clients returns the number of connected clients.
func (s *Stream) Clients() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.clients)
}

func (s *Stream) remove(conn *websocket.Conn) {
	s.lock.Lock()
	delete(s.clients, conn)
	s.lock.Unlock()
	conn.Close()
}
