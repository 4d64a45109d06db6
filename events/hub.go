// Package events broadcasts catalog changes to websocket clients.
package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	ProductCreated  = "product.created"
	ProductReplaced = "product.replaced"
	ProductUpdated  = "product.updated"

	ManufacturerCreated  = "manufacturer.created"
	ManufacturerReplaced = "manufacturer.replaced"
	ManufacturerUpdated  = "manufacturer.updated"
	ManufacturerDeleted  = "manufacturer.deleted"
)

const (
	bufferSize = 100
	writeWait  = 10 * time.Second
)

type Event struct {
	Type string `json:"type"`
	IRI  string `json:"@id"`
	Data any    `json:"data,omitempty"`
}

// Publisher is what request handlers need from the hub.
type Publisher interface {
	Publish(e Event)
}

type Hub struct {
	log       logrus.FieldLogger
	upgrader  websocket.Upgrader
	writeWait time.Duration

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	broadcast chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		writeWait: writeWait,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, bufferSize),
		done:      make(chan struct{}),
	}
}

// Run delivers published events until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return
		case message := <-h.broadcast:
			h.send(message)
		}
	}
}

// send writes message to every client. A client that cannot take it within
// writeWait is dropped.
func (h *Hub) send(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		err := client.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err == nil {
			err = client.WriteMessage(websocket.TextMessage, message)
		}
		if err != nil {
			h.log.WithError(err).WithField("remote", client.RemoteAddr().String()).Warn("websocket write failed")
			client.Close()
			delete(h.clients, client)
		}
	}
}

// Publish queues e for every connected client. It never blocks; events are
// dropped while the queue is full.
func (h *Hub) Publish(e Event) {
	message, err := json.Marshal(e)
	if err != nil {
		h.log.WithError(err).WithField("type", e.Type).Error("encode event")
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.log.WithField("type", e.Type).Warn("event queue full, dropping event")
	}
}

// Clients reports how many connections are subscribed.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops Run and disconnects every client.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		defer h.mu.Unlock()
		for client := range h.clients {
			client.Close()
			delete(h.clients, client)
		}
	})
}

// ServeHTTP upgrades the request and keeps the connection subscribed until
// the client goes away. Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.log.WithField("remote", conn.RemoteAddr().String()).Debug("client connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Warn("websocket read failed")
			}
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	h.log.WithField("remote", conn.RemoteAddr().String()).Debug("client disconnected")
}
