package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/homedash-core/internal/automation"
	"github.com/nerrad567/homedash-core/internal/device"
	"github.com/nerrad567/homedash-core/internal/infrastructure/config"
	"github.com/nerrad567/homedash-core/internal/infrastructure/logging"
)

// WebSocket message types.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"

	// WSTypeDeviceUpdate carries a pushed device change from the client.
	WSTypeDeviceUpdate = "device.update"
)

// WSChannelAll subscribes a client to every channel.
const WSChannelAll = "*"

const (
	wsSendBufferSize = 256
	wsWriteWait      = 10 * time.Second

	defaultWSPingInterval = 30 * time.Second
	defaultWSPongTimeout  = 10 * time.Second
	defaultWSMessageSize  = 8192
)

// WSMessage is the envelope of every WebSocket frame.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// WSSubscribePayload is the payload for subscribe/unsubscribe messages.
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
}

// inbound is a client frame with its payload left undecoded until the
// handler knows its shape.
type inbound struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func (m inbound) decode(v any) error {
	if len(m.Payload) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(m.Payload, v)
}

// PushHandler applies a device.update message.
type PushHandler func(u automation.Update) (device.Device, error)

// wsTiming holds the keepalive settings of a connection.
type wsTiming struct {
	ping      time.Duration
	pongWait  time.Duration
	readLimit int64
}

func timingFrom(cfg config.WebSocketConfig) wsTiming {
	t := wsTiming{
		ping:      time.Duration(cfg.PingInterval) * time.Second,
		pongWait:  time.Duration(cfg.PongTimeout) * time.Second,
		readLimit: int64(cfg.MaxMessageSize),
	}
	if t.ping <= 0 {
		t.ping = defaultWSPingInterval
	}
	if t.pongWait <= 0 {
		t.pongWait = defaultWSPongTimeout
	}
	if t.readLimit <= 0 {
		t.readLimit = defaultWSMessageSize
	}
	return t
}

// Hub tracks connected dashboards and fans events out to the clients
// subscribed to each channel.
type Hub struct {
	timing wsTiming
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[*WSClient]struct{}
	push    PushHandler
	closed  bool
}

// NewHub creates a new WebSocket hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		timing:  timingFrom(cfg),
		logger:  logger,
		clients: make(map[*WSClient]struct{}),
	}
}

// SetPushHandler sets the handler for device.update messages. Without one
// such messages are answered with an error.
func (h *Hub) SetPushHandler(fn PushHandler) {
	h.mu.Lock()
	h.push = fn
	h.mu.Unlock()
}

func (h *Hub) pushHandler() PushHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.push
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Connect registers conn and starts its pumps. A hub that has shut down
// closes the connection and returns nil.
func (h *Hub) Connect(conn *websocket.Conn) *WSClient {
	c := &WSClient{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, wsSendBufferSize),
		channels: make(map[string]struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close() //nolint:errcheck // rejecting the connection
		return nil
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)

	go c.writePump()
	go c.readPump()
	return c
}

func (h *Hub) remove(c *WSClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.closeSend()
		h.logger.Debug("websocket client disconnected", "clients", n)
	}
}

// Broadcast sends an event to every client subscribed to channel. The
// event is encoded once; slow clients whose buffer is full miss it.
func (h *Hub) Broadcast(channel string, payload any) {
	data, err := json.Marshal(WSMessage{
		Type:      WSTypeEvent,
		EventType: channel,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("failed to encode websocket event", "channel", channel, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if c.subscribed(channel) && c.enqueue(data) {
			sent++
		}
	}
	if sent > 0 {
		h.logger.Debug("websocket event sent", "channel", channel, "recipients", sent)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*WSClient]struct{})
	h.closed = true
	h.mu.Unlock()

	for c := range clients {
		c.closeSend()
	}
}

// upgrader accepts any origin: dashboards are served from other hosts on
// the LAN and the API is not authenticated.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleWebSocket upgrades the request and hands the connection to the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.hub.Connect(conn)
}

// WSClient is one connected dashboard.
type WSClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu       sync.Mutex
	channels map[string]struct{}
	done     bool
}

// enqueue queues data for the write pump. It reports false when the
// client is gone or its buffer is full.
func (c *WSClient) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend ends the write pump, which then closes the connection.
func (c *WSClient) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done {
		c.done = true
		close(c.send)
	}
}

func (c *WSClient) subscribed(channel string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, all := c.channels[WSChannelAll]; all {
		return true
	}
	_, ok := c.channels[channel]
	return ok
}

func (c *WSClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close() //nolint:errcheck // connection is finished
	}()

	t := c.hub.timing
	extend := func() error { return c.conn.SetReadDeadline(time.Now().Add(t.ping + t.pongWait)) }

	c.conn.SetReadLimit(t.readLimit)
	extend() //nolint:errcheck // a failed deadline surfaces as a read error
	c.conn.SetPongHandler(func(string) error { return extend() })

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		// Browsers may not answer protocol pings; any frame keeps the
		// connection alive.
		extend() //nolint:errcheck // a failed deadline surfaces as a read error
		c.dispatch(data)
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(c.hub.timing.ping)
	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck // connection is finished
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck // write error is checked
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil) //nolint:errcheck // best-effort goodbye
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck // write error is checked
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// wsHandlers maps inbound message types to their handlers.
var wsHandlers = map[string]func(*WSClient, inbound){
	WSTypeSubscribe:    (*WSClient).handleSubscribe,
	WSTypeUnsubscribe:  (*WSClient).handleUnsubscribe,
	WSTypePing:         func(c *WSClient, m inbound) { c.reply(m.ID, WSTypePong, nil) },
	WSTypeDeviceUpdate: (*WSClient).handleDeviceUpdate,
}

func (c *WSClient) dispatch(data []byte) {
	var m inbound
	if err := json.Unmarshal(data, &m); err != nil {
		c.replyError("", "invalid JSON message")
		return
	}
	handle, ok := wsHandlers[m.Type]
	if !ok {
		c.replyError(m.ID, "unknown message type: "+m.Type)
		return
	}
	handle(c, m)
}

func (c *WSClient) handleSubscribe(m inbound) {
	var p WSSubscribePayload
	if err := m.decode(&p); err != nil {
		c.replyError(m.ID, "invalid subscribe payload")
		return
	}
	c.mu.Lock()
	for _, ch := range p.Channels {
		c.channels[ch] = struct{}{}
	}
	c.mu.Unlock()

	c.hub.logger.Debug("websocket client subscribed", "channels", p.Channels)
	c.reply(m.ID, WSTypeResponse, map[string]any{"subscribed": p.Channels})
}

func (c *WSClient) handleUnsubscribe(m inbound) {
	var p WSSubscribePayload
	if err := m.decode(&p); err != nil {
		c.replyError(m.ID, "invalid unsubscribe payload")
		return
	}
	c.mu.Lock()
	for _, ch := range p.Channels {
		delete(c.channels, ch)
	}
	c.mu.Unlock()

	c.reply(m.ID, WSTypeResponse, map[string]any{"unsubscribed": p.Channels})
}

// handleDeviceUpdate applies a pushed device change. The resulting
// device.updated event reaches subscribers through the hub.
func (c *WSClient) handleDeviceUpdate(m inbound) {
	push := c.hub.pushHandler()
	if push == nil {
		c.replyError(m.ID, "device updates are not accepted")
		return
	}
	var u automation.Update
	if err := m.decode(&u); err != nil {
		c.replyError(m.ID, "invalid device update payload")
		return
	}
	if _, err := push(u); err != nil {
		c.replyError(m.ID, err.Error())
		return
	}
	c.reply(m.ID, WSTypeResponse, map[string]any{"applied": true})
}

func (c *WSClient) reply(id, msgType string, payload any) {
	data, err := json.Marshal(WSMessage{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		c.hub.logger.Error("failed to encode websocket reply", "type", msgType, "error", err)
		return
	}
	c.enqueue(data)
}

func (c *WSClient) replyError(id, message string) {
	c.reply(id, WSTypeError, map[string]string{"message": message})
}
