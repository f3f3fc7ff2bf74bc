package notification

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// connection is one staff console socket. An empty locations set
// receives every venue.
type connection struct {
	staffID   int64
	conn      *websocket.Conn
	send      chan []byte
	locations map[int64]bool
}

func (c *connection) wants(locationID int64) bool {
	return len(c.locations) == 0 || c.locations[locationID]
}

// Hub pushes booking events to connected staff consoles.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]bool
}

func NewHub() *Hub {
	return &Hub{connections: make(map[*connection]bool)}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[c] {
		delete(h.connections, c)
		close(c.send)
	}
}

// ConnectionCount reports the number of live sockets.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Publish broadcasts m to every socket watching its location. Slow
// clients are skipped.
func (h *Hub) Publish(_ context.Context, m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if !c.wants(m.LocationID) {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

// ServeWS registers conn and runs its read and write loops. It blocks
// until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, staffID int64, locations []int64) {
	c := &connection{
		staffID:   staffID,
		conn:      conn,
		send:      make(chan []byte, 256),
		locations: make(map[int64]bool),
	}
	for _, id := range locations {
		c.locations[id] = true
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd struct {
			Type       string `json:"type"`
			LocationID int64  `json:"location_id"`
		}
		if err := json.Unmarshal(msg, &cmd); err != nil || cmd.LocationID <= 0 {
			continue
		}

		switch cmd.Type {
		case "subscribe":
			h.mu.Lock()
			c.locations[cmd.LocationID] = true
			h.mu.Unlock()
			log.Printf("ws_subscribe staff_id=%d location_id=%d", c.staffID, cmd.LocationID)
		case "unsubscribe":
			h.mu.Lock()
			delete(c.locations, cmd.LocationID)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
