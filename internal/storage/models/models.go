package models

import "time"

// ChatTurn is one resolved user turn, persisted for the history view.
type ChatTurn struct {
	ID        string
	SessionID string
	Query     string
	Response  string
	Outcome   string
	Score     float64
	LatencyMS int
	CreatedAt time.Time
}

// UnansweredQuestion is a query no tier could resolve, queued for the
// doctor to review offline.
type UnansweredQuestion struct {
	ID        int
	Query     string
	Reviewed  bool
	CreatedAt time.Time
}

type Feedback struct {
	ID        int
	TurnID    string
	Query     string
	Response  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Patient is a registration-form record. Kept by the surrounding service;
// the resolution core never touches it.
type Patient struct {
	ID        string
	Nombre    string
	Apellidos string
	RUT       string
	Telefono  string
	Email     string
	CreatedAt time.Time
}
