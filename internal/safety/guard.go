package safety

import (
	"strings"

	"github.com/postop-assist/backend/internal/normalizer"
)

// Signal classifies a raw user turn before any other resolution logic runs.
type Signal int

const (
	SignalNone Signal = iota
	SignalEmergency
	SignalOutOfScope
)

func (s Signal) String() string {
	switch s {
	case SignalEmergency:
		return "emergency"
	case SignalOutOfScope:
		return "out_of_scope"
	default:
		return "none"
	}
}

// Guard scans for clinically urgent wording. It normalizes internally, so
// every call site passes the RAW query text; normalizing first would be a
// double-normalization bug.
type Guard struct {
	norm       *normalizer.Normalizer
	emergency  []string
	outOfScope []string
}

func New(norm *normalizer.Normalizer, emergency, outOfScope []string) *Guard {
	// Terms are stored in normalized form so containment checks compare
	// like with like: the query is normalized before scanning.
	prepare := func(terms []string) []string {
		out := make([]string, 0, len(terms))
		for _, t := range terms {
			if n := norm.Normalize(t); n != "" {
				out = append(out, n)
			}
		}
		return out
	}
	return &Guard{
		norm:       norm,
		emergency:  prepare(emergency),
		outOfScope: prepare(outOfScope),
	}
}

// Check classifies the raw query. Emergency always wins over out-of-scope:
// patient safety outranks topic filtering. Never panics; anything
// unclassifiable degrades to SignalNone.
func (g *Guard) Check(raw string) Signal {
	if raw == "" {
		return SignalNone
	}

	normalized := g.norm.Normalize(raw)
	if normalized == "" {
		return SignalNone
	}

	for _, term := range g.emergency {
		if strings.Contains(normalized, term) {
			return SignalEmergency
		}
	}
	for _, term := range g.outOfScope {
		if strings.Contains(normalized, term) {
			return SignalOutOfScope
		}
	}
	return SignalNone
}
