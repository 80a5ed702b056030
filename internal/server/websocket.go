package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/plategen/internal/logging"
)

// ReloadHub tracks websocket clients and broadcasts reload events when a
// session is regenerated.
type ReloadHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  logging.Logger
}

// NewReloadHub creates an empty hub.
func NewReloadHub(logger logging.Logger) *ReloadHub {
	return &ReloadHub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  logger,
	}
}

// handleWebSocket upgrades the request and parks the connection until the
// client disconnects. Clients only listen; inbound messages are drained
// and discarded.
func (h *ReloadHub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket accept failed")
		return
	}

	h.add(conn)
	defer h.remove(conn)

	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure &&
				websocket.CloseStatus(err) != websocket.StatusGoingAway {
				h.logger.Debug(ctx, "websocket client dropped", "reason", err.Error())
			}
			return
		}
	}
}

// Broadcast sends the session id to every connected client. Clients that
// fail to accept the write are dropped.
func (h *ReloadHub) Broadcast(ctx context.Context, sessionID string) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := conn.Write(writeCtx, websocket.MessageText, []byte("reload:"+sessionID))
		cancel()

		if err != nil {
			h.remove(conn)
			conn.Close(websocket.StatusNormalClosure, "")
		}
	}
}

// CloseAll disconnects every client; used during server shutdown.
func (h *ReloadHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.Close(websocket.StatusNormalClosure, "server shutting down")
	}
	h.clients = make(map[*websocket.Conn]struct{})
}

func (h *ReloadHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *ReloadHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}
