package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/chat"
	"github.com/postop-assist/backend/pkg/logger"
)

// WebSocketHandler serves the interactive chat widget: one connection per
// patient session, one JSON message per turn.
type WebSocketHandler struct {
	engine *chat.Engine
}

func NewWebSocketHandler(engine *chat.Engine) *WebSocketHandler {
	return &WebSocketHandler{engine: engine}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	sessionID := uuid.New().String()
	logger.Info("WebSocket session established", zap.String("session_id", sessionID))

	defer func() {
		h.engine.ResetSession(sessionID)
		c.Close()
		logger.Info("WebSocket session closed", zap.String("session_id", sessionID))
	}()

	for {
		var msg struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "message" || msg.Message == "" {
			continue
		}

		resp := h.engine.ProcessTurn(context.Background(), chat.TurnRequest{
			SessionID: sessionID,
			Message:   msg.Message,
		})

		err := c.WriteJSON(map[string]interface{}{
			"type":       "reply",
			"turn_id":    resp.TurnID,
			"reply":      resp.Reply,
			"outcome":    resp.Outcome,
			"latency_ms": resp.LatencyMS,
		})
		if err != nil {
			logger.Error("Failed to write WebSocket reply", zap.Error(err))
			break
		}
	}
}
