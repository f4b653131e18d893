package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Dashboard events.
const (
	EventDeviceData  = "device-data"    // every ingested sample
	EventAlert       = "geofence-alert" // every raised alert
	EventSendCommand = "send-command"   // inbound operator command
)

// Message is the websocket frame envelope.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// CommandFunc handles an inbound operator command from a client.
type CommandFunc func(deviceID, command string)

// Client is one connected dashboard.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to all connected dashboard clients. Delivery is
// fire-and-forget: sends are buffered per client and a client that
// cannot keep up is dropped rather than allowed to block ingestion.
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	onCommand CommandFunc
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetCommandHandler installs the callback for inbound send-command
// events. Must be called before clients connect.
func (h *Hub) SetCommandHandler(fn CommandFunc) {
	h.onCommand = fn
}

// Run owns the client set. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Dashboard client connected", zap.Int("total_clients", h.ClientCount()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Dashboard client disconnected", zap.Int("total_clients", h.ClientCount()))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop the connection.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent sends an event to every connected client.
func (h *Hub) BroadcastEvent(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		// Broadcast queue full; live updates are best effort.
		h.logger.Warn("Broadcast queue full, dropping event", zap.String("event", event))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// Unregister removes the client from the hub.
func (c *Client) Unregister() {
	c.hub.unregister <- c
}

// ReadPump consumes inbound frames until the connection drops,
// dispatching send-command events to the hub's command handler.
func (c *Client) ReadPump() {
	defer func() {
		c.Unregister()
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg struct {
			Event string `json:"event"`
			Data  struct {
				DeviceID string `json:"deviceId"`
				Command  string `json:"command"`
			} `json:"data"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.logger.Warn("Ignoring malformed client message", zap.Error(err))
			continue
		}

		if msg.Event == EventSendCommand && c.hub.onCommand != nil {
			c.hub.onCommand(msg.Data.DeviceID, msg.Data.Command)
		}
	}
}

// WritePump drains the send buffer to the connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
