package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/chat"
	"github.com/postop-assist/backend/pkg/logger"
)

type ChatHandler struct {
	engine *chat.Engine
}

func NewChatHandler(engine *chat.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

func (h *ChatHandler) HandleTurn(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	resp := h.engine.ProcessTurn(c.Context(), chat.TurnRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
	})

	return c.JSON(fiber.Map{
		"turn_id":    resp.TurnID,
		"session_id": resp.SessionID,
		"reply":      resp.Reply,
		"outcome":    resp.Outcome,
		"score":      resp.Score,
		"latency_ms": resp.LatencyMS,
	})
}

func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	turns, err := h.engine.History(sessionID, c.QueryInt("limit", 50))
	if err != nil {
		logger.Error("Failed to load history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load history",
		})
	}

	return c.JSON(fiber.Map{"session_id": sessionID, "turns": turns})
}

func (h *ChatHandler) ResetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session id is required",
		})
	}

	h.engine.ResetSession(sessionID)
	return c.JSON(fiber.Map{"status": "reset"})
}
