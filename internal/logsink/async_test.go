package logsink

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureSink struct {
	mu         sync.Mutex
	unanswered []string
	feedback   []int
}

func (c *captureSink) LogUnanswered(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unanswered = append(c.unanswered, query)
}

func (c *captureSink) LogFeedback(query, response string, rating int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback = append(c.feedback, rating)
}

func TestAsyncSinkDelivers(t *testing.T) {
	inner := &captureSink{}
	a := NewAsyncSink(inner, 8)

	a.LogUnanswered("cuánto dura el yeso")
	a.LogFeedback("pregunta", "respuesta", 5)
	a.Close()

	assert.Equal(t, []string{"cuánto dura el yeso"}, inner.unanswered)
	assert.Equal(t, []int{5}, inner.feedback)
}

func TestAsyncSinkCloseIsIdempotent(t *testing.T) {
	a := NewAsyncSink(&captureSink{}, 8)
	a.Close()
	a.Close()
}

func TestMultiSinkFansOut(t *testing.T) {
	first := &captureSink{}
	second := &captureSink{}
	m := MultiSink{first, second}

	m.LogUnanswered("duda")
	m.LogFeedback("q", "r", 3)

	assert.Equal(t, []string{"duda"}, first.unanswered)
	assert.Equal(t, []string{"duda"}, second.unanswered)
	assert.Equal(t, []int{3}, first.feedback)
	assert.Equal(t, []int{3}, second.feedback)
}
