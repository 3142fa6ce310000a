// Package logsink is the one-way notification channel toward the human
// review log. Sink failures never fail a turn: every implementation
// swallows its own errors after logging them for the operator.
package logsink

import (
	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/storage/models"
	"github.com/postop-assist/backend/internal/storage/sqlite"
	"github.com/postop-assist/backend/pkg/logger"
)

// Sink receives unanswered queries and user feedback. Return values are
// deliberately absent; callers must not branch on sink success.
type Sink interface {
	LogUnanswered(query string)
	LogFeedback(query, response string, rating int)
}

// SQLiteSink persists notifications in the local database.
type SQLiteSink struct {
	db *sqlite.Client
}

func NewSQLiteSink(db *sqlite.Client) *SQLiteSink {
	return &SQLiteSink{db: db}
}

func (s *SQLiteSink) LogUnanswered(query string) {
	if err := s.db.InsertUnanswered(query); err != nil {
		logger.Warn("Failed to record unanswered question", zap.Error(err))
	}
}

func (s *SQLiteSink) LogFeedback(query, response string, rating int) {
	err := s.db.InsertFeedback(&models.Feedback{
		Query:    query,
		Response: response,
		Rating:   rating,
	})
	if err != nil {
		logger.Warn("Failed to record feedback", zap.Error(err))
	}
}

// MultiSink fans a notification out to several sinks.
type MultiSink []Sink

func (m MultiSink) LogUnanswered(query string) {
	for _, s := range m {
		s.LogUnanswered(query)
	}
}

func (m MultiSink) LogFeedback(query, response string, rating int) {
	for _, s := range m {
		s.LogFeedback(query, response, rating)
	}
}
