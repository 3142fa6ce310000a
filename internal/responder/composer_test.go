package responder

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postop-assist/backend/internal/index"
	"github.com/postop-assist/backend/internal/knowledge"
	"github.com/postop-assist/backend/internal/normalizer"
	"github.com/postop-assist/backend/internal/safety"
)

type recordingSink struct {
	mu         sync.Mutex
	unanswered []string
}

func (r *recordingSink) LogUnanswered(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unanswered = append(r.unanswered, query)
}

func (r *recordingSink) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.unanswered...)
}

func testBase(t *testing.T) (*normalizer.Normalizer, *knowledge.Base, *index.Index) {
	t.Helper()

	norm := normalizer.Default()
	entries := []knowledge.Entry{
		{
			IntentKey:       "cuidado de la herida",
			Keywords:        []string{"herida", "vendaje", "limpiar", "curación", "apósito"},
			Tags:            []string{"herida", "curaciones"},
			ValidatedAnswer: "Mantén la herida limpia y seca. El vendaje se cambia cada 48 horas.",
		},
		{
			IntentKey:       "medicamentos para el dolor",
			Keywords:        []string{"dolor", "remedio", "paracetamol", "analgésico", "tomar"},
			Tags:            []string{"dolor", "medicamentos"},
			ValidatedAnswer: "Toma el analgésico indicado cada 8 horas, con comida.",
		},
		{
			IntentKey:       "cuándo puedo caminar",
			Keywords:        []string{"caminar", "apoyo", "pisar", "muletas", "carga"},
			Tags:            []string{"caminar", "carga"},
			ValidatedAnswer: "Puedes apoyar el pie de forma progresiva desde la sexta semana.",
		},
	}

	base := &knowledge.Base{
		Entries: entries,
		Corpus:  make([]string, len(entries)),
	}
	for i, e := range entries {
		base.Corpus[i] = norm.Normalize(e.SearchText())
		require.NotEmpty(t, base.Corpus[i])
	}

	ix, err := index.Build(base.Corpus, index.DefaultConfig())
	require.NoError(t, err)

	return norm, base, ix
}

func testComposer(t *testing.T, sink UnansweredLogger, cfg Config) *Composer {
	t.Helper()

	norm, base, ix := testBase(t)
	guard := safety.New(norm, safety.DefaultEmergencyTerms(), safety.DefaultOutOfScopeTerms())
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = 0.10
	}
	return New(guard, norm, base, ix, sink, cfg).WithSelector(FixedSelector(0))
}

func TestRespondEmergencyOverridesEverything(t *testing.T) {
	sink := &recordingSink{}
	c := testComposer(t, sink, Config{})

	res := c.Respond(context.Background(), "tengo fiebre y mucho dolor", []string{"caminar"})

	assert.Equal(t, OutcomeEmergency, res.Outcome)
	assert.Equal(t, defaultAlertMessage, res.Text)
	assert.Empty(t, res.Tags)
	assert.Equal(t, -1, res.EntryPos)
	assert.Empty(t, sink.calls())
}

func TestRespondEmergencyWinsOverQuickPhrase(t *testing.T) {
	c := testComposer(t, &recordingSink{}, Config{})

	// Contains both a quick-table key ("gracias") and an alarm word: the
	// alert always wins.
	res := c.Respond(context.Background(), "gracias pero tengo fiebre", nil)

	assert.Equal(t, OutcomeEmergency, res.Outcome)
	assert.Equal(t, defaultAlertMessage, res.Text)
}

func TestRespondOutOfScope(t *testing.T) {
	c := testComposer(t, &recordingSink{}, Config{})

	res := c.Respond(context.Background(), "cuánto está pagando el bitcoin", nil)

	assert.Equal(t, OutcomeOutOfScope, res.Outcome)
	assert.Equal(t, defaultOutOfScopeMessage, res.Text)
	assert.Empty(t, res.Tags)
}

func TestRespondQuickMatch(t *testing.T) {
	sink := &recordingSink{}
	c := testComposer(t, sink, Config{})

	res := c.Respond(context.Background(), "gracias", nil)

	assert.Equal(t, OutcomeQuick, res.Outcome)
	assert.Equal(t, DefaultQuickResponses()["gracias"], res.Text)
	assert.Empty(t, res.Tags)
	assert.Empty(t, sink.calls())
}

func TestRespondQuickMatchBySingleToken(t *testing.T) {
	c := testComposer(t, &recordingSink{}, Config{})

	res := c.Respond(context.Background(), "hoy ando mal", nil)

	assert.Equal(t, OutcomeQuick, res.Outcome)
	assert.Equal(t, DefaultQuickResponses()["mal"], res.Text)
}

func TestRespondQuickSkippedForLongQueries(t *testing.T) {
	c := testComposer(t, &recordingSink{}, Config{})

	// "mal" appears as a token but the phrase is too long for the quick
	// tier, so it flows on to the similarity search.
	res := c.Respond(context.Background(), "me siento mal cuando intento caminar con las muletas", nil)

	assert.NotEqual(t, OutcomeQuick, res.Outcome)
}

func TestRespondMedicalMatch(t *testing.T) {
	sink := &recordingSink{}
	c := testComposer(t, sink, Config{})

	res := c.Respond(context.Background(), "cuánto puedo caminar", nil)

	assert.Equal(t, OutcomeMedical, res.Outcome)
	assert.Equal(t, 2, res.EntryPos)
	assert.Equal(t, []string{"caminar", "carga"}, res.Tags)
	// FixedSelector(0) pins the preamble to the first entry of the set.
	assert.Equal(t, DefaultPreambles()[0]+"Puedes apoyar el pie de forma progresiva desde la sexta semana.", res.Text)
	assert.Greater(t, res.Score, 0.10)
	assert.Empty(t, sink.calls())
}

func TestRespondMedicalMatchDeterministic(t *testing.T) {
	c := testComposer(t, &recordingSink{}, Config{})

	first := c.Respond(context.Background(), "cómo limpio la herida", nil)
	require.Equal(t, OutcomeMedical, first.Outcome)

	for i := 0; i < 20; i++ {
		res := c.Respond(context.Background(), "cómo limpio la herida", nil)
		require.Equal(t, first, res)
	}
}

func TestRespondToneAdaptation(t *testing.T) {
	c := testComposer(t, &recordingSink{}, Config{})

	res := c.Respond(context.Background(), "no aguanto el dolor, qué remedio puedo tomar", nil)

	require.Equal(t, OutcomeMedical, res.Outcome)
	assert.Equal(t, 1, res.EntryPos)
	assert.True(t, strings.HasPrefix(res.Text, DefaultTonePreambles()[0]))
}

func TestRespondContextFusion(t *testing.T) {
	c := testComposer(t, &recordingSink{}, Config{})
	priorTags := []string{"caminar", "muletas", "carga"}

	// Two words, below the fusion threshold: the prior topic disambiguates.
	res := c.Respond(context.Background(), "zzz yyy", priorTags)
	assert.Equal(t, OutcomeMedical, res.Outcome)
	assert.Equal(t, 2, res.EntryPos)
}

func TestRespondContextNotFusedForLongQueries(t *testing.T) {
	sink := &recordingSink{}
	c := testComposer(t, sink, Config{})
	priorTags := []string{"caminar", "muletas", "carga"}

	// Five words: assumed self-contained, stale context must not leak in.
	res := c.Respond(context.Background(), "zzz yyy xxx www vvv", priorTags)
	assert.Equal(t, OutcomeFallback, res.Outcome)
}

func TestRespondFallbackLogsExactlyOnce(t *testing.T) {
	sink := &recordingSink{}
	c := testComposer(t, sink, Config{})

	res := c.Respond(context.Background(), "xyzabc nonsense", nil)

	assert.Equal(t, OutcomeFallback, res.Outcome)
	assert.Equal(t, defaultFallbackMessage, res.Text)
	assert.Empty(t, res.Tags)
	require.Len(t, sink.calls(), 1)
	assert.Equal(t, "xyzabc nonsense", sink.calls()[0])
}

func TestRespondEmptyQueryReprompts(t *testing.T) {
	sink := &recordingSink{}
	c := testComposer(t, sink, Config{})

	res := c.Respond(context.Background(), "???", nil)

	assert.Equal(t, OutcomeReprompt, res.Outcome)
	assert.Equal(t, defaultRepromptMessage, res.Text)
	// A reprompt is not an unanswered question; nothing reaches the sink.
	assert.Empty(t, sink.calls())
}

func TestRespondThresholdIsStrictlyGreater(t *testing.T) {
	norm, base, ix := testBase(t)
	guard := safety.New(norm, safety.DefaultEmergencyTerms(), safety.DefaultOutOfScopeTerms())

	query := "cuánto puedo caminar"
	match, err := ix.Query(norm.Normalize(query))
	require.NoError(t, err)
	require.Greater(t, match.Score, 0.0)

	// Threshold exactly at the best score: not strictly greater, so the
	// turn falls back.
	atSink := &recordingSink{}
	at := New(guard, norm, base, ix, atSink, Config{MatchThreshold: match.Score}).WithSelector(FixedSelector(0))
	res := at.Respond(context.Background(), query, nil)
	assert.Equal(t, OutcomeFallback, res.Outcome)
	assert.Len(t, atSink.calls(), 1)

	// A hair below: the same score now clears it.
	below := New(guard, norm, base, ix, &recordingSink{}, Config{MatchThreshold: match.Score - 1e-9}).WithSelector(FixedSelector(0))
	res = below.Respond(context.Background(), query, nil)
	assert.Equal(t, OutcomeMedical, res.Outcome)
	assert.Equal(t, match.Pos, res.EntryPos)
}

func TestRespondNilSinkIsSafe(t *testing.T) {
	c := testComposer(t, nil, Config{})

	res := c.Respond(context.Background(), "xyzabc nonsense", nil)
	assert.Equal(t, OutcomeFallback, res.Outcome)
}
