package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postop-assist/backend/internal/normalizer"
)

func newTestGuard() *Guard {
	norm := normalizer.Default()
	return New(norm, DefaultEmergencyTerms(), DefaultOutOfScopeTerms())
}

func TestGuardEmergency(t *testing.T) {
	g := newTestGuard()

	tests := []struct {
		name  string
		input string
	}{
		{"fever", "tengo fiebre y mucho dolor"},
		{"case insensitive", "TENGO FIEBRE"},
		{"open wound phrase", "se me abrió la herida ayer"},
		{"exposed hardware", "creo que veo la placa"},
		{"breathing", "no puedo respirar bien"},
		{"diminutive variant", "ando con una fiebrecita"},
		{"dark discoloration", "tengo el pie negro"},
		{"dark discoloration feminine", "la herida se puso negra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, SignalEmergency, g.Check(tt.input))
		})
	}
}

func TestGuardOutOfScope(t *testing.T) {
	g := newTestGuard()

	assert.Equal(t, SignalOutOfScope, g.Check("a cuánto está el bitcoin"))
}

func TestGuardEmergencyWinsOverOutOfScope(t *testing.T) {
	g := newTestGuard()

	// Patient safety outranks topic filtering when both lists fire.
	assert.Equal(t, SignalEmergency, g.Check("tengo fiebre y aposté en el bitcoin"))
}

func TestGuardNone(t *testing.T) {
	g := newTestGuard()

	assert.Equal(t, SignalNone, g.Check("cuándo puedo caminar"))
	assert.Equal(t, SignalNone, g.Check(""))
	assert.Equal(t, SignalNone, g.Check("???!!!"))
}

func TestGuardSignalString(t *testing.T) {
	assert.Equal(t, "emergency", SignalEmergency.String())
	assert.Equal(t, "out_of_scope", SignalOutOfScope.String())
	assert.Equal(t, "none", SignalNone.String())
}
