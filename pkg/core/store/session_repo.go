package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/reconcile"
	"github.com/digitalremedeytj/AdOps-Agent/pkg/core/sheet"
)

// QASession is one end-to-end QA run: the parsed element catalog, the agent's
// raw output, and the reconciled report. Element catalogs and result lists
// are independent values per run; nothing is shared across sessions.
type QASession struct {
	ID          string                  `json:"id"`
	Spreadsheet string                  `json:"spreadsheet"`
	Provider    string                  `json:"provider"`
	Elements    []sheet.CampaignElement `json:"elements"`
	RawOutput   string                  `json:"rawOutput,omitempty"`
	Report      *reconcile.Report       `json:"report,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// SessionRepo stores sessions in Postgres as JSONB, keyed by session ID.
//
// Schema assumption (managed by migrations elsewhere):
//
//	CREATE TABLE IF NOT EXISTS qa_sessions (
//	  id TEXT PRIMARY KEY,
//	  spreadsheet TEXT,
//	  session_json JSONB,
//	  updated_at TIMESTAMPTZ
//	);
type SessionRepo struct{}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{}
}

// Save upserts a session by ID.
func (r *SessionRepo) Save(ctx context.Context, session *QASession) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	session.UpdatedAt = time.Now().UTC()
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	query := `
		INSERT INTO qa_sessions (id, spreadsheet, session_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			spreadsheet = EXCLUDED.spreadsheet,
			session_json = EXCLUDED.session_json,
			updated_at = EXCLUDED.updated_at;
	`

	if _, err := pool.Exec(ctx, query, session.ID, session.Spreadsheet, jsonData, session.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load retrieves a session by ID.
func (r *SessionRepo) Load(ctx context.Context, id string) (*QASession, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx, `SELECT session_json FROM qa_sessions WHERE id = $1`, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no session found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session QASession
	if err := json.Unmarshal(jsonData, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}
