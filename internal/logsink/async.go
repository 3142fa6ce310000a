package logsink

import (
	"sync"

	"go.uber.org/zap"

	"github.com/postop-assist/backend/pkg/logger"
)

type event struct {
	kind     string
	query    string
	response string
	rating   int
}

// AsyncSink decouples sink writes from the response path: notifications go
// through a buffered channel to a single worker, and a full queue drops
// the event with a warning instead of blocking the turn.
type AsyncSink struct {
	inner  Sink
	events chan event
	done   chan struct{}
	once   sync.Once
}

func NewAsyncSink(inner Sink, queueSize int) *AsyncSink {
	if queueSize <= 0 {
		queueSize = 64
	}
	a := &AsyncSink{
		inner:  inner,
		events: make(chan event, queueSize),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncSink) run() {
	for ev := range a.events {
		switch ev.kind {
		case "unanswered":
			a.inner.LogUnanswered(ev.query)
		case "feedback":
			a.inner.LogFeedback(ev.query, ev.response, ev.rating)
		}
	}
	close(a.done)
}

func (a *AsyncSink) enqueue(ev event) {
	select {
	case a.events <- ev:
	default:
		logger.Warn("Log sink queue full, dropping event", zap.String("kind", ev.kind))
	}
}

func (a *AsyncSink) LogUnanswered(query string) {
	a.enqueue(event{kind: "unanswered", query: query})
}

func (a *AsyncSink) LogFeedback(query, response string, rating int) {
	a.enqueue(event{kind: "feedback", query: query, response: response, rating: rating})
}

// Close drains pending events and stops the worker.
func (a *AsyncSink) Close() {
	a.once.Do(func() {
		close(a.events)
		<-a.done
	})
}
