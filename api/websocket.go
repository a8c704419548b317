package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/seenimoa/envirorank/internal/infra"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only data; CORS governs the JSON API
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ViewRequest is the payload of a client "view" message.
type ViewRequest struct {
	Metric    string   `json:"metric"`
	Districts []string `json:"districts"`
	Where     string   `json:"where"`
}

// WSHub tracks connected WebSocket clients.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	done       chan struct{}
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	ID       string
	hub      *WSHub
	send     chan any
	quit     chan struct{}
	quitOnce sync.Once
	limiter  *rate.Limiter
}

// close stops the client's write pump. Safe to call more than once.
func (c *WSClient) close() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		done:       make(chan struct{}),
	}
}

// Run starts the hub event loop. It returns when ctx is cancelled, closing
// every connected client.
func (h *WSHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			return
		}
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub. A stopped hub closes the client.
func (h *WSHub) Register(client *WSClient) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

// ============================================================
// Connection handling
// ============================================================

// handleWebSocket upgrades the connection and serves view requests on it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &WSClient{
		ID:      uuid.NewString(),
		hub:     s.wsHub,
		send:    make(chan any, 16),
		quit:    make(chan struct{}),
		limiter: infra.PerSecond(s.cfg.API.WSRatePerSec),
	}
	s.wsHub.Register(client)
	slog.Debug("websocket connected", "session", client.ID)

	go wsWritePump(conn, client)
	go wsReadPump(conn, client, s)
}

// wsReadPump reads client messages and queues the replies.
func wsReadPump(conn *websocket.Conn, client *WSClient, s *Server) {
	defer func() {
		client.hub.Unregister(client)
		conn.Close()
		slog.Debug("websocket closed", "session", client.ID)
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "session", client.ID, "err", err)
			}
			return
		}

		reply := s.handleWSMessage(client, message)
		select {
		case client.send <- reply:
		case <-client.quit:
			return
		default:
			slog.Warn("websocket send buffer full", "session", client.ID)
		}
	}
}

// handleWSMessage turns one client message into its reply.
func (s *Server) handleWSMessage(client *WSClient, message []byte) any {
	if !client.limiter.Allow() {
		return wsError("rate limit exceeded")
	}

	var msg WSMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return wsError("invalid message")
	}

	switch msg.Type {
	case "ping":
		return wsReply{Type: "pong", Session: client.ID}
	case "view":
		var req ViewRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				return wsError("invalid view request")
			}
		}
		view, err := s.dash.View(req.Metric, req.Districts, req.Where)
		if err != nil {
			if isClientError(err) {
				s.metrics.RecordRejected(err)
			} else {
				slog.Error("websocket view failed", "session", client.ID, "err", err)
			}
			return wsError(err.Error())
		}
		s.metrics.RecordView("ws")
		return wsReply{Type: "view", Session: client.ID, Data: view}
	default:
		return wsError("unknown message type " + msg.Type)
	}
}

// wsReply is a server → client message.
type wsReply struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func wsError(msg string) wsReply {
	return wsReply{Type: "error", Data: map[string]string{"error": msg}}
}

// wsWritePump writes queued replies and keeps the connection alive.
func wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}

		case <-client.quit:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
