package server

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/protocol"
)

// sendBuffer is the number of queued outbound messages per connection.
const sendBuffer = 256

// client is one registered socket's outbound queue.
type client struct {
	id   string
	send chan []byte
}

// Hub tracks open game sockets and fans events out to them. Sends never
// block: a connection whose queue is full misses the message.
type Hub struct {
	log *zap.SugaredLogger

	mu    sync.RWMutex
	conns map[string]*client
}

// NewHub creates an empty Hub.
func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{log: log, conns: make(map[string]*client)}
}

func (h *Hub) register(id string) *client {
	c := &client{id: id, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.conns[id] = c
	h.mu.Unlock()

	return c
}

// unregister removes the connection and closes its queue, which ends its
// writer.
func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.conns[id]; ok {
		delete(h.conns, id)
		close(c.send)
	}
}

// Len returns the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Send queues e for one connection. Unknown connections are ignored.
func (h *Hub) Send(connID string, e protocol.Event) {
	msg, err := e.Marshal()
	if err != nil {
		h.log.Errorw("encode event", "event", e.Name, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.conns[connID]; ok {
		h.enqueue(c, e.Name, msg)
	}
}

// SendAll queues e for every connection.
func (h *Hub) SendAll(e protocol.Event) {
	msg, err := e.Marshal()
	if err != nil {
		h.log.Errorw("encode event", "event", e.Name, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.conns {
		h.enqueue(c, e.Name, msg)
	}
}

func (h *Hub) enqueue(c *client, name string, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.log.Warnw("send queue full, dropping event", "conn", c.id, "event", name)
	}
}
