// Package responder orchestrates a single chat turn: safety guard, quick
// responses, similarity lookup and the tiered fallback logic, in that
// order.
package responder

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/index"
	"github.com/postop-assist/backend/internal/knowledge"
	"github.com/postop-assist/backend/internal/normalizer"
	"github.com/postop-assist/backend/internal/safety"
	"github.com/postop-assist/backend/pkg/logger"
)

// Outcome names the terminal state a turn resolved through.
type Outcome string

const (
	OutcomeEmergency  Outcome = "emergency"
	OutcomeOutOfScope Outcome = "out_of_scope"
	OutcomeQuick      Outcome = "quick"
	OutcomeMedical    Outcome = "medical"
	OutcomeReprompt   Outcome = "reprompt"
	OutcomeFallback   Outcome = "fallback"
)

// UnansweredLogger receives queries nothing could resolve. Implementations
// are fire-and-forget; the composer never inspects the result.
type UnansweredLogger interface {
	LogUnanswered(query string)
}

// MatchCache optionally memoizes similarity lookups. The lookup is fully
// deterministic, so caching by normalized query is safe.
type MatchCache interface {
	GetMatch(ctx context.Context, normalized string) (index.Match, bool)
	SetMatch(ctx context.Context, normalized string, m index.Match)
}

const (
	defaultAlertMessage = "🚨 **ALERTA DE EMERGENCIA** 🚨\n" +
		"Lo que describes NO es normal y requiere evaluación médica presencial inmediata.\n" +
		"Si la herida se abrió, ves material (placas/hueso) o hay infección, **NO toques nada**.\n" +
		"**Dirígete a Urgencias ahora mismo.**"

	defaultOutOfScopeMessage = "Ese tema se escapa de lo que puedo ayudarte como asistente de tu recuperación. " +
		"¿Tienes alguna duda sobre tu operación o tus cuidados?"

	defaultRepromptMessage = "Disculpa, no entendí bien. ¿Podrías explicármelo con otras palabras?"

	defaultFallbackMessage = "Entiendo tu pregunta, pero como es un tema delicado y no tengo la respuesta " +
		"exacta validada por el Dr., prefiero no arriesgarme. Ya dejé anotada tu duda para preguntarle."
)

type Config struct {
	// MatchThreshold accepts a match only when the cosine score is
	// strictly greater.
	MatchThreshold float64
	// ShortQueryWords gates context fusion: queries with fewer words get
	// the prior turn's tags appended.
	ShortQueryWords int
	// QuickMaxWords is the word-count ceiling for quick-table lookup.
	QuickMaxWords int

	Quick          map[string]string
	Preambles      []string
	TonePreambles  []string
	IntensityTerms []string

	AlertMessage      string
	OutOfScopeMessage string
	RepromptMessage   string
	FallbackMessage   string
}

func (c *Config) applyDefaults() {
	if c.Quick == nil {
		c.Quick = DefaultQuickResponses()
	}
	if len(c.Preambles) == 0 {
		c.Preambles = DefaultPreambles()
	}
	if len(c.TonePreambles) == 0 {
		c.TonePreambles = DefaultTonePreambles()
	}
	if c.IntensityTerms == nil {
		c.IntensityTerms = DefaultIntensityTerms()
	}
	if c.AlertMessage == "" {
		c.AlertMessage = defaultAlertMessage
	}
	if c.OutOfScopeMessage == "" {
		c.OutOfScopeMessage = defaultOutOfScopeMessage
	}
	if c.RepromptMessage == "" {
		c.RepromptMessage = defaultRepromptMessage
	}
	if c.FallbackMessage == "" {
		c.FallbackMessage = defaultFallbackMessage
	}
	if c.ShortQueryWords <= 0 {
		c.ShortQueryWords = 3
	}
	if c.QuickMaxWords <= 0 {
		c.QuickMaxWords = 4
	}
}

// Result is the composed answer for one turn. Tags feed the next turn's
// context; they are empty except on a medical match.
type Result struct {
	Text    string
	Tags    []string
	Outcome Outcome
	// Score and EntryPos describe the similarity match; EntryPos is -1
	// for every outcome except OutcomeMedical.
	Score    float64
	EntryPos int
}

type Composer struct {
	guard    *safety.Guard
	norm     *normalizer.Normalizer
	base     *knowledge.Base
	index    *index.Index
	sink     UnansweredLogger
	cache    MatchCache
	selector Selector
	cfg      Config
}

func New(guard *safety.Guard, norm *normalizer.Normalizer, base *knowledge.Base, ix *index.Index, sink UnansweredLogger, cfg Config) *Composer {
	cfg.applyDefaults()
	return &Composer{
		guard:    guard,
		norm:     norm,
		base:     base,
		index:    ix,
		sink:     sink,
		selector: NewRandomSelector(),
		cfg:      cfg,
	}
}

// WithSelector replaces the preamble selector. Used by tests to make the
// cosmetic randomness deterministic.
func (c *Composer) WithSelector(s Selector) *Composer {
	c.selector = s
	return c
}

// WithCache attaches an optional similarity-lookup cache.
func (c *Composer) WithCache(cache MatchCache) *Composer {
	c.cache = cache
	return c
}

// Respond runs one turn through the state machine. The guard always sees
// the RAW query: an emergency keyword must never be diluted by prior-turn
// context before the check runs.
func (c *Composer) Respond(ctx context.Context, rawQuery string, contextTags []string) Result {
	switch c.guard.Check(rawQuery) {
	case safety.SignalEmergency:
		return Result{Text: c.cfg.AlertMessage, Tags: []string{}, Outcome: OutcomeEmergency, EntryPos: -1}
	case safety.SignalOutOfScope:
		return Result{Text: c.cfg.OutOfScopeMessage, Tags: []string{}, Outcome: OutcomeOutOfScope, EntryPos: -1}
	}

	effective := rawQuery
	if len(strings.Fields(rawQuery)) < c.cfg.ShortQueryWords && len(contextTags) > 0 {
		effective = rawQuery + " " + strings.Join(contextTags, " ")
		logger.Debug("Context fused into short query",
			zap.String("query", rawQuery),
			zap.Strings("tags", contextTags),
		)
	}

	normalized := c.norm.Normalize(effective)
	if normalized == "" {
		return Result{Text: c.cfg.RepromptMessage, Tags: []string{}, Outcome: OutcomeReprompt, EntryPos: -1}
	}

	if text, ok := c.quickLookup(normalized); ok {
		return Result{Text: text, Tags: []string{}, Outcome: OutcomeQuick, EntryPos: -1}
	}

	match, err := c.lookup(ctx, normalized)
	if err != nil {
		// Only ErrEmptyQuery can surface here and the empty case was
		// handled above; degrade to the reprompt rather than leak it.
		logger.Warn("Similarity lookup failed", zap.Error(err))
		return Result{Text: c.cfg.RepromptMessage, Tags: []string{}, Outcome: OutcomeReprompt, EntryPos: -1}
	}

	if match.Score > c.cfg.MatchThreshold {
		entry := c.base.Entries[match.Pos]
		return Result{
			Text:     c.preamble(rawQuery) + entry.ValidatedAnswer,
			Tags:     append([]string{}, entry.Tags...),
			Outcome:  OutcomeMedical,
			Score:    match.Score,
			EntryPos: match.Pos,
		}
	}

	if c.sink != nil {
		c.sink.LogUnanswered(rawQuery)
	}
	return Result{Text: c.cfg.FallbackMessage, Tags: []string{}, Outcome: OutcomeFallback, Score: match.Score, EntryPos: -1}
}

// quickLookup matches the whole normalized phrase or any single token
// against the quick-response table, but only for short inputs.
func (c *Composer) quickLookup(normalized string) (string, bool) {
	words := strings.Fields(normalized)
	if len(words) > c.cfg.QuickMaxWords {
		return "", false
	}
	if text, ok := c.cfg.Quick[normalized]; ok {
		return text, true
	}
	for _, w := range words {
		if text, ok := c.cfg.Quick[w]; ok {
			return text, true
		}
	}
	return "", false
}

func (c *Composer) lookup(ctx context.Context, normalized string) (index.Match, error) {
	if c.cache != nil {
		if m, ok := c.cache.GetMatch(ctx, normalized); ok {
			return m, nil
		}
	}
	m, err := c.index.Query(normalized)
	if err != nil {
		return index.Match{}, err
	}
	if c.cache != nil {
		c.cache.SetMatch(ctx, normalized, m)
	}
	return m, nil
}

func (c *Composer) preamble(rawQuery string) string {
	set := c.cfg.Preambles
	if c.intense(rawQuery) {
		set = c.cfg.TonePreambles
	}
	return set[c.selector.Pick(len(set))]
}

func (c *Composer) intense(rawQuery string) bool {
	lower := strings.ToLower(rawQuery)
	for _, term := range c.cfg.IntensityTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
