package logsink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/postop-assist/backend/pkg/circuitbreaker"
	"github.com/postop-assist/backend/pkg/logger"
	"github.com/postop-assist/backend/pkg/retry"
)

// SheetsSink forwards notifications to the spreadsheet webhook the
// practice reviews offline. Best-effort: one attempt by default, guarded
// by a circuit breaker so a dead webhook stops costing a request per turn.
type SheetsSink struct {
	webhookURL string
	client     *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
}

type SheetsConfig struct {
	WebhookURL  string
	Timeout     time.Duration
	MaxAttempts int
}

func NewSheetsSink(cfg SheetsConfig) *SheetsSink {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &SheetsSink{
		webhookURL: cfg.WebhookURL,
		client:     &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.NewCircuitBreaker("sheets", circuitbreaker.Config{
			FailureThreshold: 5,
			Timeout:          2 * time.Minute,
			Logger:           logger.Log,
		}),
		retryCfg: retry.Config{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: 200 * time.Millisecond,
			Logger:       logger.Log,
		},
	}
}

func (s *SheetsSink) LogUnanswered(query string) {
	s.post(map[string]string{
		"type":      "unanswered",
		"query":     query,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *SheetsSink) LogFeedback(query, response string, rating int) {
	s.post(map[string]interface{}{
		"type":      "feedback",
		"query":     query,
		"response":  response,
		"rating":    rating,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *SheetsSink) post(payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Failed to marshal sheet row", zap.Error(err))
		return
	}

	err = s.breaker.Execute(context.Background(), func() error {
		return retry.Do(context.Background(), s.retryCfg, func() error {
			resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("webhook returned status %d", resp.StatusCode)
			}
			return nil
		})
	})
	if err != nil {
		logger.Warn("Sheet webhook write failed", zap.Error(err))
	}
}
