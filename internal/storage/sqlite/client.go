package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/storage/models"
	"github.com/postop-assist/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err = db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_turns (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		outcome TEXT NOT NULL,
		score REAL,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON chat_turns(session_id);
	CREATE INDEX IF NOT EXISTS idx_turns_created ON chat_turns(created_at);

	CREATE TABLE IF NOT EXISTS unanswered_questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		reviewed INTEGER DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_unanswered_reviewed ON unanswered_questions(reviewed);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn_id TEXT,
		query TEXT NOT NULL,
		response TEXT,
		rating INTEGER NOT NULL,
		comment TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_turn ON feedback(turn_id);

	CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		nombre TEXT NOT NULL,
		apellidos TEXT NOT NULL,
		rut TEXT NOT NULL UNIQUE,
		telefono TEXT,
		email TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_patients_rut ON patients(rut);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertTurn(turn *models.ChatTurn) error {
	query := `
		INSERT INTO chat_turns (id, session_id, query, response, outcome, score, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		turn.ID,
		turn.SessionID,
		turn.Query,
		turn.Response,
		turn.Outcome,
		turn.Score,
		turn.LatencyMS,
		turn.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat turn: %w", err)
	}

	return nil
}

func (c *Client) GetSessionTurns(sessionID string, limit int) ([]models.ChatTurn, error) {
	query := `
		SELECT id, session_id, query, response, outcome, score, latency_ms, created_at
		FROM chat_turns
		WHERE session_id = ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := c.db.Query(query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get session turns: %w", err)
	}
	defer rows.Close()

	var turns []models.ChatTurn
	for rows.Next() {
		var t models.ChatTurn
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Query, &t.Response, &t.Outcome, &t.Score, &t.LatencyMS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		turns = append(turns, t)
	}

	return turns, rows.Err()
}

func (c *Client) InsertUnanswered(q string) error {
	_, err := c.db.Exec(
		`INSERT INTO unanswered_questions (query, created_at) VALUES (?, ?)`,
		q,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert unanswered question: %w", err)
	}

	logger.Info("Unanswered question recorded", zap.String("query", q))
	return nil
}

func (c *Client) GetUnanswered(onlyPending bool, limit int) ([]models.UnansweredQuestion, error) {
	query := `SELECT id, query, reviewed, created_at FROM unanswered_questions`
	if onlyPending {
		query += ` WHERE reviewed = 0`
	}
	query += ` ORDER BY created_at DESC LIMIT ?`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unanswered questions: %w", err)
	}
	defer rows.Close()

	var questions []models.UnansweredQuestion
	for rows.Next() {
		var q models.UnansweredQuestion
		var reviewed int
		var createdAt int64
		if err := rows.Scan(&q.ID, &q.Query, &reviewed, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		q.Reviewed = reviewed != 0
		q.CreatedAt = time.Unix(createdAt, 0)
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func (c *Client) InsertFeedback(fb *models.Feedback) error {
	_, err := c.db.Exec(
		`INSERT INTO feedback (turn_id, query, response, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		fb.TurnID,
		fb.Query,
		fb.Response,
		fb.Rating,
		fb.Comment,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	logger.Info("Feedback stored", zap.String("turn_id", fb.TurnID), zap.Int("rating", fb.Rating))
	return nil
}

func (c *Client) InsertPatient(p *models.Patient) error {
	_, err := c.db.Exec(
		`INSERT INTO patients (id, nombre, apellidos, rut, telefono, email, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Nombre,
		p.Apellidos,
		p.RUT,
		p.Telefono,
		p.Email,
		p.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert patient: %w", err)
	}

	logger.Info("Patient registered", zap.String("patient_id", p.ID))
	return nil
}
