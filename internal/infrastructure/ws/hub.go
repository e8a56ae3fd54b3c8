package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"blockchain-marketplace/internal/domain/entity"
	"blockchain-marketplace/internal/infrastructure/config"
	"blockchain-marketplace/internal/infrastructure/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub implements BlockStreamService: it upgrades HTTP connections and
// pushes every mined block to all connected clients.
type Hub struct {
	upgrader websocket.Upgrader
	config   *config.WebSocketConfig
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates a new block feed hub
func NewHub(cfg *config.Config, logger *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.WebSocket.BufferSize,
			WriteBufferSize: cfg.WebSocket.BufferSize,
			// Cross-origin requests are unrestricted, matching the API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		config:  &cfg.WebSocket,
		logger:  logger.WithComponent("block-feed"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the request and registers the client until it
// disconnects.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return err
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("Client connected",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Int("clients", count))

	// Read pump: discards inbound messages and detects disconnect.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

// BroadcastBlock sends the block as JSON to every connected client. Clients
// that fail the write are dropped.
func (h *Hub) BroadcastBlock(block entity.Block) {
	data, err := json.Marshal(block)
	if err != nil {
		h.logger.Error("Failed to marshal block", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("Dropping client after failed write",
				zap.String("remote", conn.RemoteAddr().String()),
				zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	conn.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		h.logger.Info("Client disconnected",
			zap.String("remote", conn.RemoteAddr().String()),
			zap.Int("clients", len(h.clients)))
	}
}
