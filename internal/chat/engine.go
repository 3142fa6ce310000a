// Package chat ties the per-turn pipeline to the surrounding service:
// session context carry, turn persistence and metrics. The resolution
// logic itself lives in internal/responder.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/metrics"
	"github.com/postop-assist/backend/internal/responder"
	"github.com/postop-assist/backend/internal/session"
	"github.com/postop-assist/backend/internal/storage/models"
	"github.com/postop-assist/backend/internal/storage/sqlite"
	"github.com/postop-assist/backend/pkg/logger"
)

type Engine struct {
	composer *responder.Composer
	sessions *session.Store
	db       *sqlite.Client
}

type TurnRequest struct {
	SessionID string
	Message   string
}

type TurnResponse struct {
	TurnID    string
	SessionID string
	Reply     string
	Outcome   responder.Outcome
	Score     float64
	LatencyMS int
}

func NewEngine(composer *responder.Composer, sessions *session.Store, db *sqlite.Client) *Engine {
	return &Engine{
		composer: composer,
		sessions: sessions,
		db:       db,
	}
}

// ProcessTurn resolves one user message within its session. Sink and
// storage writes are best-effort; only the composed reply decides the
// response.
func (e *Engine) ProcessTurn(ctx context.Context, req TurnRequest) *TurnResponse {
	start := time.Now()
	turnID := uuid.New().String()

	priorTags := e.sessions.Tags(req.SessionID)
	result := e.composer.Respond(ctx, req.Message, priorTags)
	e.sessions.SetTags(req.SessionID, result.Tags)

	latency := int(time.Since(start).Milliseconds())

	metrics.TurnsTotal.WithLabelValues(string(result.Outcome)).Inc()
	metrics.TurnDuration.Observe(time.Since(start).Seconds())
	metrics.ActiveSessions.Set(float64(e.sessions.Len()))
	switch result.Outcome {
	case responder.OutcomeEmergency, responder.OutcomeOutOfScope:
		metrics.GuardTriggered.WithLabelValues(string(result.Outcome)).Inc()
	case responder.OutcomeMedical:
		metrics.MatchScore.Observe(result.Score)
	case responder.OutcomeFallback:
		metrics.UnansweredLogged.Inc()
	}

	if e.db != nil {
		err := e.db.InsertTurn(&models.ChatTurn{
			ID:        turnID,
			SessionID: req.SessionID,
			Query:     req.Message,
			Response:  result.Text,
			Outcome:   string(result.Outcome),
			Score:     result.Score,
			LatencyMS: latency,
			CreatedAt: time.Now(),
		})
		if err != nil {
			logger.Warn("Failed to persist chat turn", zap.Error(err))
		}
	}

	logger.Info("Turn processed",
		zap.String("turn_id", turnID),
		zap.String("session_id", req.SessionID),
		zap.String("outcome", string(result.Outcome)),
		zap.Float64("score", result.Score),
		zap.Int("latency_ms", latency),
	)

	return &TurnResponse{
		TurnID:    turnID,
		SessionID: req.SessionID,
		Reply:     result.Text,
		Outcome:   result.Outcome,
		Score:     result.Score,
		LatencyMS: latency,
	}
}

// History returns the session's persisted turns, oldest first.
func (e *Engine) History(sessionID string, limit int) ([]models.ChatTurn, error) {
	if e.db == nil {
		return nil, errors.New("turn storage is not configured")
	}
	if limit <= 0 {
		limit = 50
	}
	return e.db.GetSessionTurns(sessionID, limit)
}

// ResetSession drops the session's carried context.
func (e *Engine) ResetSession(sessionID string) {
	e.sessions.Reset(sessionID)
}
