package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub tracks the event channel of every attached page
type Hub struct {
	conns map[string]*Connection // pageID -> conn

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	send       chan *Envelope
	done       chan struct{}
	stopOnce   sync.Once

	logger *zap.Logger
}

// Connection represents a WebSocket connection bound to one page
type Connection struct {
	PageID string
	Send   chan []byte
	Hub    *Hub
}

// Envelope is a message addressed to one page
type Envelope struct {
	PageID  string
	Message *Message
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		send:       make(chan *Envelope, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, conn := range h.conns {
				close(conn.Send)
				delete(h.conns, id)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if existing, ok := h.conns[conn.PageID]; ok {
				close(existing.Send)
			}
			h.conns[conn.PageID] = conn
			h.mu.Unlock()
			h.logger.Debug("page connected", zap.String("page", conn.PageID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.PageID]; ok && existing == conn {
				delete(h.conns, conn.PageID)
				close(conn.Send)
				h.logger.Debug("page disconnected", zap.String("page", conn.PageID))
			}
			h.mu.Unlock()

		case env := <-h.send:
			data, err := json.Marshal(env.Message)
			if err != nil {
				h.logger.Error("marshal message", zap.Error(err))
				continue
			}
			h.mu.RLock()
			if conn, ok := h.conns[env.PageID]; ok {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
					h.logger.Warn("send buffer full", zap.String("page", env.PageID))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection, replacing any older one for the same page
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// SendToPage queues a message for the page's connection
func (h *Hub) SendToPage(pageID string, msg *Message) {
	select {
	case h.send <- &Envelope{PageID: pageID, Message: msg}:
	case <-h.done:
	}
}

// Connected reports whether a page currently has a connection
func (h *Hub) Connected(pageID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[pageID]
	return ok
}

// Stop closes every connection and ends the hub loop
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}
