package responder

// DefaultQuickResponses merges the social and emotional phrase tables into
// one lookup. Short exact phrases are unambiguous and cheap, so they are
// resolved before the similarity search ever runs; this also keeps "hola"
// or "gracias" from being routed into the medical corpus.
func DefaultQuickResponses() map[string]string {
	return map[string]string{
		"hola":                "¡Hola! ¿Cómo va esa recuperación hoy?",
		"gracias":             "No hay de qué. Vamos paso a paso con esa recuperación. 💪",
		"chao":                "¡Descansa! Recuerda mantener la pierna en alto.",
		"adios":               "¡Que tengas buen descanso!",
		"adiós":               "¡Que tengas buen descanso!",
		"como esta el doctor": "¡El Dr. está excelente! Operando, pero atento a ustedes.",
		"eres un robot":       "Soy un asistente virtual entrenado por el Dr., pero mi objetivo es ayudarte de verdad.",
		"eres humano":         "Soy una IA asistente del equipo médico. Estoy aquí para que no te sientas solo/a con tus dudas.",

		"mal":          "Siento escuchar eso. La recuperación tiene días difíciles. ¿Tienes mucho dolor o es algo más?",
		"mas o menos":  "Entiendo, hay días mejores y peores. ¿Qué es lo que más te molesta hoy?",
		"más o menos":  "Entiendo, hay días mejores y peores. ¿Qué es lo que más te molesta hoy?",
		"asustado":     "Es normal sentir miedo después de una cirugía. Estoy aquí para orientarte. ¿Qué síntomas te preocupan?",
		"asustada":     "Es normal sentir miedo después de una cirugía. Estoy aquí para orientarte. ¿Qué síntomas te preocupan?",
		"triste":       "El ánimo afecta la recuperación. ¡Ánimo! Esto es temporal. ¿Te duele algo físicamente?",
		"bien":         "¡Qué buena noticia! Me alegra mucho. ¿Tienes alguna duda puntual hoy?",
		"mejor":        "¡Excelente! Vamos progresando. Sigue cuidándote igual.",
	}
}
