package safety

// DefaultEmergencyTerms lists the wound and circulation red flags that force
// an immediate in-person referral. Matched as substrings of the normalized
// query, so diminutives and shorthand still trip them.
func DefaultEmergencyTerms() []string {
	return []string{
		"fiebre",
		"pus",
		"secreción",
		"infección",
		"sangrado abundante",
		"hemorragia",
		"dolor insoportable",
		"desmayo",
		"no puedo respirar",
		"dedos azules",
		"no siento la pierna",
		"calor extremo",
		"se abrió",
		"abrió",
		"abierta",
		"herida abierta",
		"veo la placa",
		"veo el hueso",
		"hueso expuesto",
		"tornillo",
		"supurando",
		"mal olor",
		"necrosis",
		"negro",
		"negra",
		"se me quebró",
		"se quebró",
	}
}

// DefaultOutOfScopeTerms covers topics the assistant refuses to engage
// with. Kept short on purpose: false positives here hide real questions.
func DefaultOutOfScopeTerms() []string {
	return []string{
		"bitcoin",
		"apuesta",
		"lotería",
		"horóscopo",
		"receta de cocina",
		"fútbol",
	}
}
