package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"bigfive/internal/model"
	"bigfive/internal/page"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // page token binds the socket; origin is not checked
	},
}

// Pages is the page registry the handler drives
type Pages interface {
	Attach(id string) (*page.Page, error)
	MarkSubmitted(id string)
	Close(id string)
}

// Tokens validates page tokens
type Tokens interface {
	Validate(token string) (*model.PageClaims, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	pages    Pages
	tokens   Tokens
	recorder Recorder
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, pages Pages, tokens Tokens, rec Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		hub:      hub,
		pages:    pages,
		tokens:   tokens,
		recorder: rec,
		logger:   logger,
	}
}

// PageWS handles GET /v1/ws/pages?token=...
func (h *Handler) PageWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.Validate(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	p, err := h.pages.Attach(claims.PageID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusGone)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		h.pages.Close(claims.PageID)
		return
	}

	conn := &Connection{
		PageID: claims.PageID,
		Send:   make(chan []byte, 64),
		Hub:    h.hub,
	}
	h.hub.Register(conn)

	h.logger.Debug("page attached", zap.String("page", claims.PageID))

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, p)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, p *page.Page) {
	defer func() {
		h.hub.Unregister(conn)
		h.pages.Close(conn.PageID)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket error", zap.String("page", conn.PageID), zap.Error(err))
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.hub.SendToPage(conn.PageID, errorMessage(err))
			continue
		}

		reply := Dispatch(p, &msg, h.recorder)
		if msg.Type == MsgSubmit {
			h.pages.MarkSubmitted(conn.PageID)
		}
		if reply != nil {
			h.hub.SendToPage(conn.PageID, reply)
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
