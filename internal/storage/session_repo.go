package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"rne-assistant/internal/dialogue"
)

// SessionRepo persists pending clarifications in SQLite, one row per
// session. It implements the dialogue.SessionStore interface; the options
// list is stored as JSON.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Get returns the session's pending clarification, or nil when none exists.
func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*dialogue.PendingClarification, error) {
	var originalQuery, language, optionsJSON string

	err := r.db.QueryRowContext(ctx,
		"SELECT original_query, language, options FROM pending_clarifications WHERE session_id = ?",
		sessionID,
	).Scan(&originalQuery, &language, &optionsJSON)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pending clarification: %w", err)
	}

	var options []dialogue.Option
	if err := json.Unmarshal([]byte(optionsJSON), &options); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}

	return &dialogue.PendingClarification{
		OriginalQuery: originalQuery,
		Language:      language,
		Options:       options,
	}, nil
}

// Put replaces the session's pending clarification. The upsert is a single
// statement, so a concurrent turn sees either the old row or the new one.
func (r *SessionRepo) Put(ctx context.Context, sessionID string, pending *dialogue.PendingClarification) error {
	optionsJSON, err := json.Marshal(pending.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pending_clarifications (session_id, original_query, language, options, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (session_id) DO UPDATE SET
		 original_query = excluded.original_query, language = excluded.language,
		 options = excluded.options, updated_at = CURRENT_TIMESTAMP`,
		sessionID, pending.OriginalQuery, pending.Language, string(optionsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pending clarification: %w", err)
	}

	return nil
}

// Clear removes the session's pending clarification, if any.
func (r *SessionRepo) Clear(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM pending_clarifications WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear pending clarification: %w", err)
	}

	return nil
}
