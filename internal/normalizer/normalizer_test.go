package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postop-assist/backend/internal/index"
)

func TestNormalizeBasics(t *testing.T) {
	n := Default()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n", ""},
		{"lowercase and punctuation", "¡Hola, Doctor!", "hola doctor"},
		{"keeps diacritics", "¿Cuándo puedo caminar?", "cuándo puedo caminar"},
		{"keeps digits", "en 3 semanas", "en 3 semanas"},
		{"collapses whitespace", "dolor   en  la   pierna", "dolor en la pierna"},
		{"emoji stripped", "me duele 😭😭", "me duele"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeSlangExpansion(t *testing.T) {
	n := Default()

	assert.Equal(t, "que hago si sangra", n.Normalize("q hago si sangra"))
	assert.Equal(t, "porque me duele", n.Normalize("xq me duele"))
	assert.Equal(t, "por favor ayuda", n.Normalize("porfa ayuda"))
	assert.Equal(t, "estoy mal", n.Normalize("toy mal"))
	assert.Equal(t, "infección en la herida", n.Normalize("infeccion en la herida"))
}

func TestNormalizeSuffixFolding(t *testing.T) {
	n := Default()

	// Diminutives land on the stem so they share character spans with the
	// base form.
	assert.Equal(t, "piern", n.Normalize("piernita"))
	assert.Equal(t, "me duele la herid", n.Normalize("me duele la heridita"))
	// Short words survive: the stem must keep three letters.
	assert.Equal(t, "ita", n.Normalize("ita"))
}

func TestNormalizeIdempotent(t *testing.T) {
	n := Default()

	inputs := []string{
		"",
		"q hago si me duele la piernita???",
		"¡FIEBRE y pus!",
		"toy asustado, se abrió la herida",
		"xq no puedo apoyar el pie",
		"ya tomé el remedio",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		require.Equal(t, once, n.Normalize(once), "input %q drifted on re-normalization", in)
	}
}

func TestNormalizeStopwordMode(t *testing.T) {
	n := New(Config{RemoveStopwords: true})

	// No stopword source configured: the built-in fallback list applies.
	assert.Equal(t, "dolor herida", n.Normalize("el dolor de la herida"))
	assert.Equal(t, "", n.Normalize("el la los"))
}

func TestForModeWiresStopwords(t *testing.T) {
	// The word vectorizer strips function words; character n-grams keep
	// them.
	word := ForMode(index.ModeWord, nil)
	assert.Equal(t, "dolor herida", word.Normalize("el dolor de la herida"))

	char := ForMode(index.ModeChar, nil)
	assert.Equal(t, "el dolor de la herida", char.Normalize("el dolor de la herida"))

	custom := ForMode(index.ModeWord, []string{"foo"})
	assert.Equal(t, "el dolor", custom.Normalize("el foo dolor"))
}

func TestNormalizeCustomStopwords(t *testing.T) {
	n := New(Config{RemoveStopwords: true, Stopwords: []string{"foo"}})

	assert.Equal(t, "el dolor", n.Normalize("el foo dolor"))
}
