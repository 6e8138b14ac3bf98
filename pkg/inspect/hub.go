package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// helloMessage is the first message every client receives.
type helloMessage struct {
	Type   string `json:"type"`
	Client string `json:"client"`
}

// writeWait bounds a single write so a stalled client cannot block the
// navigation that emitted the event.
var writeWait = 10 * time.Second

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams JSON messages to connected WebSocket clients.
type Hub struct {
	clients  map[string]*client
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // inspector is a local debugging tool
			},
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the request and keeps the client registered
// until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	hello, _ := json.Marshal(helloMessage{Type: "hello", Client: c.id})

	// Holding the client lock keeps broadcasts behind the hello.
	c.mu.Lock()
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, hello)
	c.mu.Unlock()
	if err != nil {
		h.remove(c)
		return
	}
	h.logger.Debug("inspector client connected", "client", c.id)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
	h.logger.Debug("inspector client disconnected", "client", c.id)
}

// Broadcast sends msg as JSON to every client. Clients that cannot be
// written to are dropped.
func (h *Hub) Broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("inspector message encode failed", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	c.conn.Close()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
}
