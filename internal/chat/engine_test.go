package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postop-assist/backend/internal/session"
)

func TestHistoryWithoutStorage(t *testing.T) {
	e := NewEngine(nil, session.NewStore(), nil)

	turns, err := e.History("some-session", 10)
	assert.Error(t, err)
	assert.Nil(t, turns)
}

func TestResetSessionDropsTags(t *testing.T) {
	sessions := session.NewStore()
	sessions.SetTags("s1", []string{"caminar"})

	e := NewEngine(nil, sessions, nil)
	e.ResetSession("s1")

	assert.Empty(t, sessions.Tags("s1"))
}
