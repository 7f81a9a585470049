package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sharpplay/backend/internal/auth"
	"github.com/sharpplay/backend/internal/config"
	"github.com/sharpplay/backend/internal/events"
)

// WSHub fans game events (leaderboard updates, reward issues, tournament
// settlements) out to connected browsers. Everything on the game stream is
// public, so the hub broadcasts to every socket and only uses the
// authenticated user id for connection bookkeeping.
type WSHub struct {
	cfg        *config.Config
	subscriber events.Subscriber
	log        *zap.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]uuid.UUID
}

func NewWSHub(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		cfg:        cfg,
		subscriber: subscriber,
		log:        log,
		clients:    make(map[*websocket.Conn]uuid.UUID),
	}
}

func (h *WSHub) Start(ctx context.Context) {
	if err := h.subscriber.Subscribe(ctx, events.StreamGame, h.broadcast); err != nil {
		h.log.Error("game stream subscription failed", zap.Error(err))
	}
}

func (h *WSHub) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

// WSUpgradeMiddleware rejects plain HTTP requests on the websocket route.
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// HandleWS authenticates the socket via a token query parameter, registers it
// for broadcasts and blocks in a read loop until the client goes away.
func (h *WSHub) HandleWS(conn *websocket.Conn) {
	claims, err := auth.ParseJWT(h.cfg.JWTSecret, conn.Query("token"))
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		conn.Close()
		return
	}

	h.mu.Lock()
	h.clients[conn] = claims.UserID
	h.mu.Unlock()

	h.log.Debug("websocket connected", zap.String("user_id", claims.UserID.String()))

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Keep-alive read loop; the client never sends meaningful frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
