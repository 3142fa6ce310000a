package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/postop-assist/backend/internal/normalizer"
)

// ErrMalformedEntry aborts the whole load. A partially loaded knowledge
// base answers with silent gaps, which is worse than failing to start.
var ErrMalformedEntry = errors.New("malformed knowledge entry")

// Entry is one doctor-validated question/answer unit. Field names follow
// the knowledge source format.
type Entry struct {
	IntentKey       string   `json:"intencion_clave"`
	Keywords        []string `json:"palabras_clave"`
	Tags            []string `json:"tags"`
	ValidatedAnswer string   `json:"respuesta_validada"`
}

// SearchText concatenates intent, keywords and tags into the field the
// index is built over, so terms that only appear in tags are still found.
func (e Entry) SearchText() string {
	parts := make([]string, 0, 2+len(e.Keywords)+len(e.Tags))
	parts = append(parts, e.IntentKey)
	parts = append(parts, e.Keywords...)
	parts = append(parts, e.Tags...)
	return strings.Join(parts, " ")
}

// Base is the loaded entry set plus its normalized corpus, in source
// order. Built once at startup and read-only afterwards.
type Base struct {
	Entries []Entry
	Corpus  []string
}

// Load decodes the record set and derives the normalized corpus. Entries
// missing intent, keywords or answer, or whose search text normalizes to
// nothing, fail the load with ErrMalformedEntry.
func Load(r io.Reader, norm *normalizer.Normalizer) (*Base, error) {
	var entries []Entry
	dec := json.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: knowledge base is empty", ErrMalformedEntry)
	}

	base := &Base{
		Entries: entries,
		Corpus:  make([]string, len(entries)),
	}
	for i := range entries {
		e := &entries[i]
		if e.IntentKey == "" {
			return nil, fmt.Errorf("%w: entry %d has no intencion_clave", ErrMalformedEntry, i)
		}
		if len(e.Keywords) == 0 {
			return nil, fmt.Errorf("%w: entry %d (%s) has no palabras_clave", ErrMalformedEntry, i, e.IntentKey)
		}
		if e.ValidatedAnswer == "" {
			return nil, fmt.Errorf("%w: entry %d (%s) has no respuesta_validada", ErrMalformedEntry, i, e.IntentKey)
		}
		if e.Tags == nil {
			e.Tags = []string{}
		}

		normalized := norm.Normalize(e.SearchText())
		if normalized == "" {
			return nil, fmt.Errorf("%w: entry %d (%s) normalizes to empty text", ErrMalformedEntry, i, e.IntentKey)
		}
		base.Corpus[i] = normalized
	}

	return base, nil
}

// LoadFile opens path and delegates to Load.
func LoadFile(path string, norm *normalizer.Normalizer) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer f.Close()
	return Load(f, norm)
}
