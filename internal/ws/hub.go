// Package ws pushes realtime fleet updates to browser clients over
// websockets.
package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// StatusFunc produces the payload sent to a client right after it connects
// and whenever it asks for a status refresh.
type StatusFunc func() any

// Message is the envelope for every frame sent to clients.
type Message struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Hub tracks connected clients and fans broadcast messages out to them.
type Hub struct {
	upgrader websocket.Upgrader
	status   StatusFunc
	clients  map[string]*client
	mu       sync.RWMutex
	gauge    prometheus.Gauge
}

// NewHub returns a hub. status may be nil; gauge, when non-nil, tracks the
// connected client count.
func NewHub(status StatusFunc, gauge prometheus.Gauge) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		status:  status,
		clients: make(map[string]*client),
		gauge:   gauge,
	}
}

// HandleConnection upgrades the request and services the client until it
// disconnects.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	id := fmt.Sprintf("client-%d", time.Now().UnixNano())
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	if h.gauge != nil {
		h.gauge.Inc()
	}
	log.WithField("client_id", id).Info("Websocket client connected")

	defer func() {
		conn.Close()
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		if h.gauge != nil {
			h.gauge.Dec()
		}
		log.WithField("client_id", id).Info("Websocket client disconnected")
	}()

	h.sendStatus(c)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}
		switch req.Type {
		case "ping":
			if err := c.send(Message{Type: "pong", Timestamp: time.Now()}); err != nil {
				return
			}
		case "request_status":
			h.sendStatus(c)
		}
	}
}

// Broadcast sends an event to every connected client. Clients that fail to
// receive are dropped from the next send by their own read loop.
func (h *Hub) Broadcast(event string, data any) {
	msg := Message{Type: event, Data: data, Timestamp: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if err := c.send(msg); err != nil {
			log.WithError(err).WithField("client_id", id).Debug("Websocket send failed")
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) sendStatus(c *client) {
	if h.status == nil {
		return
	}
	msg := Message{Type: "system_status", Data: h.status(), Timestamp: time.Now()}
	if err := c.send(msg); err != nil {
		log.WithError(err).Debug("Websocket status send failed")
	}
}
