package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/postop-assist/backend/internal/index"
)

// Rule rewrites a slang or typo form to its canonical spelling. Rules are
// applied in declaration order; later rules see the output of earlier ones.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

type Config struct {
	Rules []Rule
	// SuffixPattern folds diminutive endings onto the stem. Empty disables
	// suffix stripping.
	SuffixPattern *regexp.Regexp
	// RemoveStopwords only applies in the whole-word vectorizer mode.
	// Character n-grams spread weight over spans, so stopwords barely
	// matter there.
	RemoveStopwords bool
	Stopwords       []string
}

type Normalizer struct {
	rules    []Rule
	suffixRe *regexp.Regexp
	stop     map[string]struct{}
}

// fallbackStopwords covers the common Spanish function words when no
// stopword source is configured.
var fallbackStopwords = []string{
	"el", "la", "los", "las", "un", "una", "y", "o", "de",
	"a", "en", "que", "me", "mi", "mis", "se", "es", "lo",
}

func New(cfg Config) *Normalizer {
	n := &Normalizer{
		rules:    cfg.Rules,
		suffixRe: cfg.SuffixPattern,
	}
	if cfg.RemoveStopwords {
		words := cfg.Stopwords
		if len(words) == 0 {
			words = fallbackStopwords
		}
		n.stop = make(map[string]struct{}, len(words))
		for _, w := range words {
			n.stop[w] = struct{}{}
		}
	}
	return n
}

// Default returns a normalizer tuned for the character n-gram index:
// dialect rewrites and suffix folding on, stopword removal off.
func Default() *Normalizer {
	return New(Config{
		Rules:         DefaultRules(),
		SuffixPattern: DefaultSuffixPattern(),
	})
}

// ForMode returns the normalizer matching the vectorizer mode. The word
// vectorizer needs stopword removal so function words don't dominate the
// vocabulary; character n-grams spread weight over spans and skip it. An
// empty stopwords slice falls back to the built-in list.
func ForMode(mode string, stopwords []string) *Normalizer {
	return New(Config{
		Rules:           DefaultRules(),
		SuffixPattern:   DefaultSuffixPattern(),
		RemoveStopwords: mode == index.ModeWord,
		Stopwords:       stopwords,
	})
}

// Normalize lowercases, expands slang, folds diminutive suffixes and strips
// punctuation. Pure; empty input yields empty output, never panics.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)

	for _, rule := range n.rules {
		text = rule.Pattern.ReplaceAllString(text, rule.Replacement)
	}

	if n.suffixRe != nil {
		text = n.suffixRe.ReplaceAllString(text, "$1")
	}

	text = stripPunctuation(text)

	if n.stop != nil {
		text = n.removeStopwords(text)
	}

	return strings.Join(strings.Fields(text), " ")
}

// stripPunctuation keeps letters (diacritics included), digits and spaces.
func stripPunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func (n *Normalizer) removeStopwords(text string) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if _, ok := n.stop[w]; !ok {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
