package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Publisher is the narrow surface the claim and sync paths depend on, so
// tests can capture events without a websocket stack.
type Publisher interface {
	BroadcastUserDataUpdated(identity string)
}

// Event is the only wire payload the hub emits. Presentation layers refresh
// on it instead of polling; there is no payload contract beyond identity.
type Event struct {
	Type     string `json:"type"`
	Identity string `json:"identity"`
}

type client struct {
	identity string
	send     chan []byte
}

// Hub fans "user data updated" events out to every websocket subscribed to
// the matching identity.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// BroadcastUserDataUpdated notifies every live subscriber for identity.
// Slow consumers are dropped rather than blocking the caller.
func (h *Hub) BroadcastUserDataUpdated(identity string) {
	data, err := json.Marshal(Event{Type: "user_data_updated", Identity: identity})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.identity != identity {
			continue
		}
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
}

// Serve attaches an upgraded websocket connection for identity and pumps
// events to it until the peer goes away.
func (h *Hub) Serve(conn *websocket.Conn, identity string) {
	c := &client{identity: identity, send: make(chan []byte, 16)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go h.readPump(conn, c)
	h.writePump(conn, c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards inbound frames; the events socket is one-way. It exists
// to notice the peer closing and to answer pings.
func (h *Hub) readPump(conn *websocket.Conn, c *client) {
	defer func() {
		h.remove(c)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("events: read error: %v", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}
