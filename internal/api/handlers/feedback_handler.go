package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/logsink"
	"github.com/postop-assist/backend/internal/storage/models"
	"github.com/postop-assist/backend/internal/storage/sqlite"
	"github.com/postop-assist/backend/pkg/logger"
)

type FeedbackHandler struct {
	db   *sqlite.Client
	sink logsink.Sink
}

func NewFeedbackHandler(db *sqlite.Client, sink logsink.Sink) *FeedbackHandler {
	return &FeedbackHandler{db: db, sink: sink}
}

func (h *FeedbackHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		TurnID   string `json:"turn_id"`
		Query    string `json:"query"`
		Response string `json:"response"`
		Rating   int    `json:"rating"`
		Comment  string `json:"comment"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "rating must be between 1 and 5",
		})
	}

	err := h.db.InsertFeedback(&models.Feedback{
		TurnID:   req.TurnID,
		Query:    req.Query,
		Response: req.Response,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		logger.Error("Failed to store feedback", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store feedback",
		})
	}

	// One-way notification; the sink's outcome never changes the reply.
	if h.sink != nil {
		h.sink.LogFeedback(req.Query, req.Response, req.Rating)
	}

	return c.JSON(fiber.Map{"status": "recorded"})
}

// ListUnanswered is the operator view of the human-review queue.
func (h *FeedbackHandler) ListUnanswered(c *fiber.Ctx) error {
	questions, err := h.db.GetUnanswered(c.QueryBool("pending", true), c.QueryInt("limit", 100))
	if err != nil {
		logger.Error("Failed to list unanswered questions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list unanswered questions",
		})
	}

	return c.JSON(fiber.Map{"questions": questions})
}
