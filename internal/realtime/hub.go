// Package realtime maintains the registry of live WebSocket clients and
// fans change events out to them. Delivery is best-effort: no retry, no
// acknowledgment, no backpressure. Clients are expected to re-fetch
// authoritative state on reconnect rather than rely solely on the stream.
package realtime

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dockside/truck-management/internal/api/metrics"
	"github.com/dockside/truck-management/internal/core/domain"
)

const writeTimeout = 5 * time.Second

// Conn is the slice of a websocket connection the hub needs. Satisfied by
// *gorilla/websocket.Conn.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v any) error
	Close() error
}

// Hub tracks active connections and broadcasts events to all of them.
// Membership lives only in process memory and is rebuilt on restart.
type Hub struct {
	mu     sync.Mutex
	conns  map[Conn]struct{}
	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:  make(map[Conn]struct{}),
		logger: logger,
	}
}

// Register adds a newly-handshaken connection to the active set.
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()

	metrics.WebsocketConnections.Set(float64(n))
	h.logger.Debug().Int("connections", n).Msg("websocket client registered")
}

// Deregister removes a connection if present. Removing an absent
// connection is a no-op.
func (h *Hub) Deregister(c Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	n := len(h.conns)
	h.mu.Unlock()

	metrics.WebsocketConnections.Set(float64(n))
	h.logger.Debug().Int("connections", n).Msg("websocket client deregistered")
}

// Len returns the current number of registered connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast delivers event to every registered connection. A connection
// that fails or times out is treated as dead: it is closed and removed,
// and delivery continues to the rest. Failures never surface to the
// caller. Delivery order across connections is unspecified; a connection
// added mid-broadcast may or may not receive the event.
func (h *Hub) Broadcast(event domain.ChangeEvent) {
	h.mu.Lock()
	snapshot := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	var dead []Conn
	for _, c := range snapshot {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteJSON(event); err != nil {
			h.logger.Debug().Err(err).Str("event", event.Type).Msg("dropping dead websocket client")
			dead = append(dead, c)
		}
	}

	for _, c := range dead {
		h.Deregister(c)
		_ = c.Close()
	}

	metrics.EventsBroadcastTotal.WithLabelValues(event.Type).Inc()
	if len(dead) > 0 {
		metrics.BroadcastDropsTotal.Add(float64(len(dead)))
	}
}
