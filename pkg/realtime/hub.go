package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// ErrNotConnected is returned when the user has no live session on this instance.
var ErrNotConnected = errors.New("user not connected")

// ConnectionObserver is notified when the number of live connections changes.
type ConnectionObserver func(delta int)

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub tracks live WebSocket connections per user.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	logger   *zap.Logger
	observer ConnectionObserver
}

// NewHub constructs an empty hub.
func NewHub(logger *zap.Logger, observer ConnectionObserver) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = func(int) {}
	}
	return &Hub{clients: make(map[string]map[*client]struct{}), logger: logger, observer: observer}
}

// NewUpgrader returns an upgrader restricted to the given origins. An empty list allows any origin.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// Serve registers conn for userID and blocks until the connection closes.
// Inbound frames are discarded; the channel is server-to-client only.
func (h *Hub) Serve(userID string, conn *websocket.Conn) {
	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(c)
	defer h.remove(c)

	go h.writePump(c)
	h.readPump(c)
}

// Publish delivers event to every local session of userID.
func (h *Hub) Publish(_ context.Context, userID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.deliver(userID, payload)
}

func (h *Hub) deliver(userID string, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sessions := h.clients[userID]
	if len(sessions) == 0 {
		return ErrNotConnected
	}
	for c := range sessions {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("realtime send buffer full, dropping event", zap.String("user_id", userID))
		}
	}
	return nil
}

// Connected reports whether userID has at least one local session.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Close terminates every live connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sessions := range h.clients {
		for c := range sessions {
			_ = c.conn.Close()
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	sessions, ok := h.clients[c.userID]
	if !ok {
		sessions = make(map[*client]struct{})
		h.clients[c.userID] = sessions
	}
	sessions[c] = struct{}{}
	h.mu.Unlock()
	h.observer(1)
	h.logger.Debug("realtime client connected", zap.String("user_id", c.userID))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if sessions, ok := h.clients[c.userID]; ok {
		delete(sessions, c)
		if len(sessions) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.close()
	h.observer(-1)
	h.logger.Debug("realtime client disconnected", zap.String("user_id", c.userID))
}

func (h *Hub) readPump(c *client) {
	defer c.conn.Close() //nolint:errcheck
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
