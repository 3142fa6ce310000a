package normalizer

import "regexp"

// DefaultRules maps the chat shorthand and Chilean dialect forms patients
// actually type to the spellings the knowledge base uses. Declaration order
// matters: multi-word patterns go before the single-letter ones they could
// otherwise collide with.
func DefaultRules() []Rule {
	return []Rule{
		{regexp.MustCompile(`\bxfa\b`), "por favor"},
		{regexp.MustCompile(`\bporfa\b`), "por favor"},
		{regexp.MustCompile(`\bxq\b`), "porque"},
		{regexp.MustCompile(`\bpq\b`), "porque"},
		{regexp.MustCompile(`\bporq\b`), "porque"},
		{regexp.MustCompile(`\bq\b`), "que"},
		{regexp.MustCompile(`\bk\b`), "que"},
		{regexp.MustCompile(`\bke\b`), "que"},
		{regexp.MustCompile(`\bx\b`), "por"},
		{regexp.MustCompile(`\btb\b`), "también"},
		{regexp.MustCompile(`\btmb\b`), "también"},
		{regexp.MustCompile(`\btoy\b`), "estoy"},
		{regexp.MustCompile(`\btngo\b`), "tengo"},
		{regexp.MustCompile(`\bsta\b`), "está"},
		{regexp.MustCompile(`\bdr\b`), "doctor"},
		{regexp.MustCompile(`\bdra\b`), "doctora"},
		{regexp.MustCompile(`\boperacion\b`), "operación"},
		{regexp.MustCompile(`\binfeccion\b`), "infección"},
		{regexp.MustCompile(`\bsecrecion\b`), "secreción"},
	}
}

// DefaultSuffixPattern folds -ito/-ita diminutives (and their plurals) onto
// the stem so "heridita" and "herida" land on the same character spans.
// The stem must keep at least three letters so short words survive intact.
func DefaultSuffixPattern() *regexp.Regexp {
	return regexp.MustCompile(`([a-záéíóúüñ]{3,})(?:c?it[oa]s?)\b`)
}
