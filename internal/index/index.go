// Package index implements the similarity lookup over the normalized
// knowledge corpus: a character n-gram TF-IDF representation queried by
// cosine similarity. Character spans are the default because they survive
// the typos and dialect spellings whole-word tokens choke on; word mode
// exists only as a fallback configuration.
package index

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrEmptyQuery marks a query that normalized down to nothing. The
	// caller answers it with a reprompt, not a similarity score.
	ErrEmptyQuery = errors.New("query is empty after normalization")

	ErrEmptyCorpus = errors.New("corpus is empty")
)

const (
	ModeChar = "char"
	ModeWord = "word"
)

type Config struct {
	Mode     string
	NGramMin int
	NGramMax int
}

func DefaultConfig() Config {
	return Config{Mode: ModeChar, NGramMin: 3, NGramMax: 5}
}

// Match is the best-scoring corpus document for a query.
type Match struct {
	Score float64
	// Pos is the document's position in the corpus passed to Build.
	Pos int
}

// Index is immutable after Build and safe for concurrent readers.
type Index struct {
	cfg  Config
	idf  map[string]float64
	docs []map[string]float64
}

// Build fits the TF-IDF representation over the corpus. Documents keep
// their input order; Query tie-breaks by lowest position.
func Build(corpus []string, cfg Config) (*Index, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeChar
	}
	if cfg.Mode != ModeChar && cfg.Mode != ModeWord {
		return nil, fmt.Errorf("unknown vectorizer mode %q", cfg.Mode)
	}
	if cfg.Mode == ModeChar {
		if cfg.NGramMin <= 0 {
			cfg.NGramMin = 3
		}
		if cfg.NGramMax < cfg.NGramMin {
			cfg.NGramMax = cfg.NGramMin
		}
	}

	ix := &Index{
		cfg:  cfg,
		idf:  make(map[string]float64),
		docs: make([]map[string]float64, len(corpus)),
	}

	counts := make([]map[string]float64, len(corpus))
	df := make(map[string]int)
	for i, doc := range corpus {
		tf := ix.termCounts(doc)
		counts[i] = tf
		for term := range tf {
			df[term]++
		}
	}

	// Smoothed IDF, the same shape scikit-style vectorizers use:
	// ln((1+N)/(1+df)) + 1. Never zero, never divides by zero.
	n := float64(len(corpus))
	for term, d := range df {
		ix.idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	for i, tf := range counts {
		ix.docs[i] = ix.weigh(tf)
	}

	return ix, nil
}

// Query returns the cosine-nearest document and its score. Deterministic:
// repeated calls with the same input always return the same Match.
func (ix *Index) Query(normalized string) (Match, error) {
	if strings.TrimSpace(normalized) == "" {
		return Match{}, ErrEmptyQuery
	}

	qvec := ix.weigh(ix.termCounts(normalized))

	// Summation order is fixed by sorting terms; map iteration order must
	// not leak into the scores.
	terms := make([]string, 0, len(qvec))
	for term := range qvec {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	best := Match{Score: -1}
	for pos, doc := range ix.docs {
		var dot float64
		for _, term := range terms {
			if w, ok := doc[term]; ok {
				dot += qvec[term] * w
			}
		}
		if dot > best.Score {
			best = Match{Score: dot, Pos: pos}
		}
	}
	return best, nil
}

// Len reports the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.docs)
}

func (ix *Index) termCounts(text string) map[string]float64 {
	if ix.cfg.Mode == ModeWord {
		tf := make(map[string]float64)
		for _, w := range strings.Fields(text) {
			tf[w]++
		}
		return tf
	}

	tf := make(map[string]float64)
	runes := []rune(text)
	for size := ix.cfg.NGramMin; size <= ix.cfg.NGramMax; size++ {
		for i := 0; i+size <= len(runes); i++ {
			tf[string(runes[i:i+size])]++
		}
	}
	return tf
}

// weigh converts raw term counts into an L2-normalized TF-IDF vector.
// Terms absent from the corpus vocabulary are dropped, matching how a
// fitted vectorizer transforms unseen input.
func (ix *Index) weigh(tf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(tf))
	var norm float64
	for term, count := range tf {
		idf, ok := ix.idf[term]
		if !ok {
			continue
		}
		w := count * idf
		vec[term] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}
