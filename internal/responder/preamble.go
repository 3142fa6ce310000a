package responder

import "math/rand"

// Selector picks an index in [0, n). The default is uniform random; tests
// inject a fixed selector since the preamble is cosmetic, not part of the
// match decision.
type Selector interface {
	Pick(n int) int
}

type randomSelector struct{}

func (randomSelector) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.Intn(n)
}

// NewRandomSelector returns the production selector.
func NewRandomSelector() Selector {
	return randomSelector{}
}

// FixedSelector always picks the same index, clamped to range.
type FixedSelector int

func (f FixedSelector) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

// DefaultPreambles frame a validated answer with a touch of empathy. The
// empty string is a deliberate member: sometimes the answer stands alone.
func DefaultPreambles() []string {
	return []string{
		"Comprendo tu inquietud. ",
		"Es una duda muy frecuente. ",
		"Para tu tranquilidad: ",
		"Te explico lo que indica el Dr.: ",
		"Mira, lo importante es esto: ",
		"",
	}
}

// DefaultTonePreambles replace the standard set when the query reads
// frustrated or intense.
func DefaultTonePreambles() []string {
	return []string{
		"Entiendo que esto es frustrante. Vamos por parte: ",
		"Sé que no lo estás pasando bien. Lo que indica el Dr. es: ",
		"Calma, esto tiene solución. ",
	}
}

// DefaultIntensityTerms trip the frustration detector. Checked against the
// raw query, lowercased, as substrings.
func DefaultIntensityTerms() []string {
	return []string{
		"mierda",
		"maldito",
		"maldita",
		"csm",
		"ctm",
		"wea",
		"no aguanto",
		"no doy más",
		"no doy mas",
		"estoy harto",
		"estoy harta",
		"urgente",
		"desesperado",
		"desesperada",
	}
}
